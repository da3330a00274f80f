package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// Attachments above this size are rejected before touching the database.
const maxAttachmentBytes = 16 << 20

// AttachmentHandler serves file uploads stored against shows.
type AttachmentHandler struct {
	ShowRepo       *repository.ShowRepo
	AccessRepo     *repository.AccessRepo
	AttachmentRepo *repository.AttachmentRepo
}

// NewAttachmentHandler constructs an AttachmentHandler and panics on nil
// dependencies.
func NewAttachmentHandler(shows *repository.ShowRepo, access *repository.AccessRepo, attachments *repository.AttachmentRepo) *AttachmentHandler {
	if shows == nil || access == nil || attachments == nil {
		panic("nil repository passed to NewAttachmentHandler")
	}
	return &AttachmentHandler{ShowRepo: shows, AccessRepo: access, AttachmentRepo: attachments}
}

// List handles GET /v1/shows/:id/attachments (metadata only).
func (h *AttachmentHandler) List(c echo.Context) error {
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
	list, err := h.AttachmentRepo.ListByShow(c.Request().Context(), showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"attachments": list})
}

// Upload handles POST /v1/shows/:id/attachments with a multipart "file"
// part.  Read-only users cannot upload.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	userID, showID, resp, ok := h.gate(c)
	if !ok {
		return resp
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "no file uploaded")
	}
	if fh.Size > maxAttachmentBytes {
		return saveError(c, http.StatusRequestEntityTooLarge, "file too large")
	}
	src, err := fh.Open()
	if err != nil {
		return saveError(c, http.StatusBadRequest, "could not read upload")
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxAttachmentBytes+1))
	if err != nil {
		return saveError(c, http.StatusBadRequest, "could not read upload")
	}
	if len(data) > maxAttachmentBytes {
		return saveError(c, http.StatusRequestEntityTooLarge, "file too large")
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	a := &model.Attachment{
		ShowID:     showID,
		UploadedBy: userID,
		Filename:   fh.Filename,
		MimeType:   mimeType,
		Data:       data,
	}
	if err := h.AttachmentRepo.Create(c.Request().Context(), a); err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"id":        a.ID,
		"filename":  a.Filename,
		"file_size": a.FileSize,
	})
}

// Download handles GET /v1/shows/:id/attachments/:attachment_id.
func (h *AttachmentHandler) Download(c echo.Context) error {
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
	a, resp, ok := h.loadForShow(c, showID)
	if !ok {
		return resp
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+a.Filename+`"`)
	return c.Blob(http.StatusOK, a.MimeType, a.Data)
}

// Delete handles DELETE /v1/shows/:id/attachments/:attachment_id.
// Read-only users cannot delete.
func (h *AttachmentHandler) Delete(c echo.Context) error {
	_, showID, resp, ok := h.gate(c)
	if !ok {
		return resp
	}
	a, resp, ok := h.loadForShow(c, showID)
	if !ok {
		return resp
	}
	if err := h.AttachmentRepo.Delete(c.Request().Context(), a.ID); err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return saveError(c, http.StatusNotFound, "attachment not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// gate runs the shared write preamble: auth, path parse, show
// resolution, read-only check.
func (h *AttachmentHandler) gate(c echo.Context) (userID, showID int64, resp error, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		return 0, 0, saveError(c, http.StatusUnauthorized, "unauthorized"), false
	}
	showID, err = pathID(c, "id")
	if err != nil {
		return 0, 0, saveError(c, http.StatusBadRequest, "invalid id"), false
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return 0, 0, respondShowError(c, err), false
	}
	readOnly, err := h.AccessRepo.IsReadOnly(c.Request().Context(), userID)
	if err != nil {
		return 0, 0, saveError(c, http.StatusInternalServerError, "db error"), false
	}
	if readOnly {
		return 0, 0, saveError(c, http.StatusForbidden, "read-only access"), false
	}
	return userID, showID, nil, true
}

// loadForShow fetches an attachment and hides entries that belong to a
// different show behind a not-found answer.
func (h *AttachmentHandler) loadForShow(c echo.Context, showID int64) (*model.Attachment, error, bool) {
	attachmentID, err := pathID(c, "attachment_id")
	if err != nil {
		return nil, jsonError(c, http.StatusBadRequest, "invalid attachment id"), false
	}
	a, err := h.AttachmentRepo.Get(c.Request().Context(), attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return nil, jsonError(c, http.StatusNotFound, "attachment not found"), false
		}
		return nil, jsonError(c, http.StatusInternalServerError, "db error"), false
	}
	if a.ShowID != showID {
		return nil, jsonError(c, http.StatusNotFound, "attachment not found"), false
	}
	return a, nil, true
}
