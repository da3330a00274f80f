package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// FormHandler implements the three save endpoints.  Access and read-only
// checks run before any write; the form store then performs the whole
// save (field upserts, show stamp, history snapshot) in one transaction.
type FormHandler struct {
	ShowRepo   *repository.ShowRepo
	AccessRepo *repository.AccessRepo
	FormRepo   *repository.FormRepo
}

// NewFormHandler constructs a FormHandler and panics on nil dependencies.
func NewFormHandler(shows *repository.ShowRepo, access *repository.AccessRepo, forms *repository.FormRepo) *FormHandler {
	if shows == nil || access == nil || forms == nil {
		panic("nil repository passed to NewFormHandler")
	}
	return &FormHandler{ShowRepo: shows, AccessRepo: access, FormRepo: forms}
}

// gate runs the shared pre-write checks (authentication, show
// resolution, visibility, read-only) before any state is touched.  When
// ok is false the failure response has already been rendered and resp is
// its return value.
func (h *FormHandler) gate(c echo.Context) (userID, showID int64, resp error, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		return 0, 0, jsonError(c, http.StatusUnauthorized, "unauthorized"), false
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
		return 0, 0, saveError(c, http.StatusForbidden, "your access is read-only"), false
	}
	return userID, showID, nil, true
}

// SaveAdvance handles POST /v1/shows/:id/save/advance with a flat
// {field_key: value} payload.
func (h *FormHandler) SaveAdvance(c echo.Context) error {
	userID, showID, resp, ok := h.gate(c)
	if !ok {
		return resp
	}
	var data map[string]any
	if err := c.Bind(&data); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.FormRepo.SaveAdvance(c.Request().Context(), showID, userID, stringFields(data)); err != nil {
		return saveError(c, http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// SaveSchedule handles POST /v1/shows/:id/save/schedule with an optional
// meta map and an optional full row replacement.
func (h *FormHandler) SaveSchedule(c echo.Context) error {
	userID, showID, resp, ok := h.gate(c)
	if !ok {
		return resp
	}
	var body struct {
		Meta map[string]any      `json:"meta"`
		Rows []model.ScheduleRow `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	payload := repository.SchedulePayload{Rows: body.Rows}
	if body.Meta != nil {
		payload.Meta = stringFields(body.Meta)
	}
	if err := h.FormRepo.SaveSchedule(c.Request().Context(), showID, userID, payload); err != nil {
		return saveError(c, http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// SavePostNotes handles POST /v1/shows/:id/save/postnotes with a flat
// {field_key: value} payload.
func (h *FormHandler) SavePostNotes(c echo.Context) error {
	userID, showID, resp, ok := h.gate(c)
	if !ok {
		return resp
	}
	var data map[string]any
	if err := c.Bind(&data); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.FormRepo.SavePostNotes(c.Request().Context(), showID, userID, stringFields(data)); err != nil {
		return saveError(c, http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
