package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// HistoryHandler exposes the bounded snapshot journal: listing, fetching
// a single snapshot body, and point-in-time restore.
type HistoryHandler struct {
	ShowRepo    *repository.ShowRepo
	AccessRepo  *repository.AccessRepo
	HistoryRepo *repository.HistoryRepo
	FormRepo    *repository.FormRepo
}

// NewHistoryHandler constructs a HistoryHandler and panics on nil
// dependencies.
func NewHistoryHandler(shows *repository.ShowRepo, access *repository.AccessRepo, history *repository.HistoryRepo, forms *repository.FormRepo) *HistoryHandler {
	if shows == nil || access == nil || history == nil || forms == nil {
		panic("nil repository passed to NewHistoryHandler")
	}
	return &HistoryHandler{ShowRepo: shows, AccessRepo: access, HistoryRepo: history, FormRepo: forms}
}

// List handles GET /v1/shows/:id/history/:form_type: the retained
// snapshots for one form, newest first, at most the retention bound.
func (h *HistoryHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	formType := c.Param("form_type")
	switch formType {
	case model.FormTypeAdvance, model.FormTypeSchedule, model.FormTypePostNotes:
	default:
		return jsonError(c, http.StatusBadRequest, "invalid form type")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return respondShowError(c, err)
	}
	entries, err := h.HistoryRepo.List(c.Request().Context(), showID, formType)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": entries})
}

// Snapshot handles GET /v1/shows/:id/history/entry/:entry_id.  An
// entry belonging to a different show answers 404, not 403: guessing
// IDs must not confirm existence.
func (h *HistoryHandler) Snapshot(c echo.Context) error {
	entry, err := h.loadEntry(c)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil // response already rendered by loadEntry
	}
	var data json.RawMessage = []byte(entry.Snapshot)
	return c.JSON(http.StatusOK, map[string]any{
		"form_type": entry.FormType,
		"saved_at":  entry.SavedAt,
		"saved_by":  entry.SavedByName,
		"data":      data,
	})
}

// Restore handles POST /v1/shows/:id/history/entry/:entry_id/restore:
// replays
// the stored payload through the live save path, which stamps the show
// and journals the restored state as a fresh snapshot attributed to the
// restoring user.
func (h *HistoryHandler) Restore(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	entry, err := h.loadEntry(c)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	// Restore is a write: the same read-only gate as a live save applies.
	readOnly, err := h.AccessRepo.IsReadOnly(c.Request().Context(), userID)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	if readOnly {
		return saveError(c, http.StatusForbidden, "your access is read-only")
	}
	if err := h.FormRepo.RestoreSnapshot(c.Request().Context(), entry, userID); err != nil {
		return saveError(c, http.StatusInternalServerError, "restore failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// loadEntry resolves the show, checks access, loads the entry and
// verifies it belongs to the referenced show.  On failure it renders the
// response and returns (nil, nil); callers treat a nil entry as handled.
func (h *HistoryHandler) loadEntry(c echo.Context) (*model.HistoryEntry, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return nil, jsonError(c, http.StatusBadRequest, "invalid id")
	}
	entryID, err := pathID(c, "entry_id")
	if err != nil {
		return nil, jsonError(c, http.StatusBadRequest, "invalid entry id")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return nil, respondShowError(c, err)
	}
	entry, err := h.HistoryRepo.Get(c.Request().Context(), entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, jsonError(c, http.StatusNotFound, "history entry not found")
		}
		return nil, jsonError(c, http.StatusInternalServerError, "db error")
	}
	if entry.ShowID != showID {
		// Cross-show ID guessing fails as not-found.
		return nil, jsonError(c, http.StatusNotFound, "history entry not found")
	}
	return entry, nil
}
