package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/queue"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
	queue_publisher "github.com/ShowSysDan/ShowAdvance/internal/service"
)

// ExportHandler records PDF exports.  Rendering happens client-side (or
// in a downstream worker); the server's job is to hand out the next
// version number, journal the export and announce it on the broker.
type ExportHandler struct {
	ShowRepo   *repository.ShowRepo
	AccessRepo *repository.AccessRepo
	ExportRepo *repository.ExportRepo
	UserRepo   *repository.UserRepo
}

// NewExportHandler constructs an ExportHandler and panics on nil
// dependencies.
func NewExportHandler(shows *repository.ShowRepo, access *repository.AccessRepo, exports *repository.ExportRepo, users *repository.UserRepo) *ExportHandler {
	if shows == nil || access == nil || exports == nil || users == nil {
		panic("nil repository passed to NewExportHandler")
	}
	return &ExportHandler{ShowRepo: shows, AccessRepo: access, ExportRepo: exports, UserRepo: users}
}

// Export handles POST /v1/shows/:id/export/:form_type where form_type is
// advance or schedule.  Read-only users may export; exporting changes no
// paperwork, only the version counter and the journal.
func (h *ExportHandler) Export(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return saveError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	formType := c.Param("form_type")
	if formType != model.FormTypeAdvance && formType != model.FormTypeSchedule {
		return saveError(c, http.StatusBadRequest, "invalid form type")
	}
	show, err := resolveShow(c, h.ShowRepo, h.AccessRepo, userID, showID)
	if err != nil {
		return respondShowError(c, err)
	}
	ctx := c.Request().Context()

	version, err := h.ShowRepo.BumpExportVersion(ctx, showID, formType)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	filename := exportFilename(formType, show.Name, show.ShowDate, version)
	entry := &model.ExportEntry{
		ShowID:     showID,
		ExportType: formType,
		Version:    version,
		ExportedBy: userID,
		Filename:   filename,
	}
	if err := h.ExportRepo.Log(ctx, entry); err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}

	exporter := ""
	if u, err := h.UserRepo.GetByID(ctx, userID); err == nil {
		exporter = u.DisplayName
	}
	// Broker failures must not block the export; the journal row is the
	// source of truth.
	_ = queue_publisher.PublishExportRequested(ctx, queue.ExportRequestedEvent{
		ExportID:   entry.ID,
		ShowID:     showID,
		ShowName:   show.Name,
		ShowDate:   show.ShowDate,
		ExportType: formType,
		Version:    version,
		Filename:   filename,
		ExportedBy: userID,
		Exporter:   exporter,
		ExportedAt: entry.ExportedAt,
	})

	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"version":     version,
		"filename":    filename,
		"exported_at": entry.ExportedAt,
	})
}

// exportFilename builds e.g. "Advance_The_National_2026-05-01_v3.pdf".
func exportFilename(formType, showName, showDate string, version int) string {
	prefix := "Advance"
	if formType == model.FormTypeSchedule {
		prefix = "Schedule"
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(showName))
	if safe == "" {
		safe = "Show"
	}
	if showDate == "" {
		return fmt.Sprintf("%s_%s_v%d.pdf", prefix, safe, version)
	}
	return fmt.Sprintf("%s_%s_%s_v%d.pdf", prefix, safe, showDate, version)
}
