package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// ShowHandler implements the show lifecycle and the aggregated show-page
// payload.
type ShowHandler struct {
	ShowRepo       *repository.ShowRepo
	AccessRepo     *repository.AccessRepo
	FormRepo       *repository.FormRepo
	ExportRepo     *repository.ExportRepo
	ContactRepo    *repository.ContactRepo
	DefaultVenue   string
	ArchivedLimit  int // archived shows shown on the dashboard
	ExportLogLimit int // export entries shown on a show page
}

// NewShowHandler constructs a ShowHandler and panics on nil dependencies.
func NewShowHandler(shows *repository.ShowRepo, access *repository.AccessRepo, forms *repository.FormRepo, exports *repository.ExportRepo, contacts *repository.ContactRepo, defaultVenue string) *ShowHandler {
	if shows == nil || access == nil || forms == nil || exports == nil || contacts == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{
		ShowRepo:       shows,
		AccessRepo:     access,
		FormRepo:       forms,
		ExportRepo:     exports,
		ContactRepo:    contacts,
		DefaultVenue:   defaultVenue,
		ArchivedLimit:  30,
		ExportLogLimit: 10,
	}
}

// List handles GET /v1/shows: the dashboard listing.  Past-dated shows
// are archived lazily on each load, then active and archived shows are
// returned filtered to the caller's visible set.
func (h *ShowHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx := c.Request().Context()
	if _, err := h.ShowRepo.ArchivePastShows(ctx); err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	set, err := h.AccessRepo.AccessibleShows(ctx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	active, err := h.ShowRepo.ListActive(ctx, set)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "failed to load shows")
	}
	archived, err := h.ShowRepo.ListArchived(ctx, set, h.ArchivedLimit)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "failed to load shows")
	}
	readOnly, err := h.AccessRepo.IsReadOnly(ctx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"active":    active,
		"archived":  archived,
		"read_only": readOnly,
	})
}

// Create handles POST /v1/shows.  Read-only users cannot create shows.
func (h *ShowHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	readOnly, err := h.AccessRepo.IsReadOnly(c.Request().Context(), userID)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	if readOnly {
		return saveError(c, http.StatusForbidden, "your access is read-only")
	}

	var body struct {
		Name     string `json:"name"`
		ShowDate string `json:"show_date"`
		ShowTime string `json:"show_time"`
		Venue    string `json:"venue"`
	}
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return saveError(c, http.StatusBadRequest, "show name is required")
	}
	if body.ShowDate != "" {
		if _, err := time.Parse("2006-01-02", body.ShowDate); err != nil {
			return saveError(c, http.StatusBadRequest, "invalid show_date format")
		}
	}
	venue := body.Venue
	if venue == "" {
		venue = h.DefaultVenue
	}

	show := &model.Show{Name: name, ShowDate: body.ShowDate, ShowTime: body.ShowTime, Venue: venue}
	if err := h.ShowRepo.Create(c.Request().Context(), show, userID); err != nil {
		return saveError(c, http.StatusInternalServerError, "could not create show")
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "show": show})
}

// Get handles GET /v1/shows/:id: the full show-page payload, the show
// row, all three forms, the schedule timeline, recent exports and the
// contact directory grouped by department.
func (h *ShowHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	show, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID)
	if err != nil {
		return respondShowError(c, err)
	}

	ctx := c.Request().Context()
	advance, err := h.FormRepo.AdvanceData(ctx, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	meta, err := h.FormRepo.ScheduleMeta(ctx, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	rows, err := h.FormRepo.ScheduleRows(ctx, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	notes, err := h.FormRepo.PostNotes(ctx, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	exports, err := h.ExportRepo.ListByShow(ctx, showID, h.ExportLogLimit)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	contacts, err := h.ContactRepo.ByDepartment(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	readOnly, err := h.AccessRepo.IsReadOnly(ctx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"show":          show,
		"advance_data":  advance,
		"schedule_meta": meta,
		"schedule_rows": rows,
		"notes_data":    notes,
		"exports":       exports,
		"contacts":      contacts,
		"departments":   model.Departments,
		"read_only":     readOnly,
	})
}

// Archive handles POST /v1/shows/:id/archive.
func (h *ShowHandler) Archive(c echo.Context) error {
	return h.setStatus(c, model.ShowStatusArchived)
}

// Restore handles POST /v1/shows/:id/restore: the only path from
// archived back to active.
func (h *ShowHandler) Restore(c echo.Context) error {
	return h.setStatus(c, model.ShowStatusActive)
}

func (h *ShowHandler) setStatus(c echo.Context, status string) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID); err != nil {
		return respondShowError(c, err)
	}
	readOnly, err := h.AccessRepo.IsReadOnly(c.Request().Context(), userID)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	if readOnly {
		return saveError(c, http.StatusForbidden, "your access is read-only")
	}
	if err := h.ShowRepo.SetStatus(c.Request().Context(), showID, status); err != nil {
		return saveError(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /v1/shows/:id.  Routing already restricts
// this to admins; the delete cascades to every dependent row.
func (h *ShowHandler) Delete(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.ShowRepo.Delete(c.Request().Context(), showID); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return saveError(c, http.StatusNotFound, "show not found")
		}
		return saveError(c, http.StatusInternalServerError, "delete failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
