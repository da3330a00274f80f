package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// CommentHandler serves the per-show discussion thread.
type CommentHandler struct {
	ShowRepo    *repository.ShowRepo
	AccessRepo  *repository.AccessRepo
	CommentRepo *repository.CommentRepo
}

// NewCommentHandler constructs a CommentHandler and panics on nil
// dependencies.
func NewCommentHandler(shows *repository.ShowRepo, access *repository.AccessRepo, comments *repository.CommentRepo) *CommentHandler {
	if shows == nil || access == nil || comments == nil {
		panic("nil repository passed to NewCommentHandler")
	}
	return &CommentHandler{ShowRepo: shows, AccessRepo: access, CommentRepo: comments}
}

// List handles GET /v1/shows/:id/comments.
func (h *CommentHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return respondShowError(c, err)
	}
	comments, err := h.CommentRepo.ListByShow(c.Request().Context(), showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"comments": comments})
}

// Create handles POST /v1/shows/:id/comments.  Comments are allowed even
// for read-only users: discussion is not paperwork.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return saveError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return respondShowError(c, err)
	}
	var body struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	text := strings.TrimSpace(body.Body)
	if text == "" {
		return saveError(c, http.StatusBadRequest, "comment is empty")
	}
	comment := &model.Comment{ShowID: showID, UserID: userID, Body: text}
	if err := h.CommentRepo.Create(c.Request().Context(), comment); err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"id":         comment.ID,
		"created_at": comment.CreatedAt,
	})
}

// Delete handles DELETE /v1/shows/:id/comments/:comment_id.  A guessed
// comment ID belonging to another show reads as not found.
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return saveError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid comment id")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return respondShowError(c, err)
	}
	if err := h.CommentRepo.Delete(c.Request().Context(), showID, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return saveError(c, http.StatusNotFound, "comment not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
