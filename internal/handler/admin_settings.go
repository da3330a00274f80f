package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// AdminSettingsHandler exposes the app_settings key/value store, used for
// venue-wide defaults like the venue name stamped onto new shows.
type AdminSettingsHandler struct {
	SettingsRepo *repository.SettingsRepo
}

// NewAdminSettingsHandler constructs an AdminSettingsHandler and panics
// on a nil repo.
func NewAdminSettingsHandler(settings *repository.SettingsRepo) *AdminSettingsHandler {
	if settings == nil {
		panic("nil repository passed to NewAdminSettingsHandler")
	}
	return &AdminSettingsHandler{SettingsRepo: settings}
}

// List handles GET /v1/admin/settings.
func (h *AdminSettingsHandler) List(c echo.Context) error {
	settings, err := h.SettingsRepo.All(c.Request().Context())
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"settings": settings})
}

// Update handles PUT /v1/admin/settings, upserting every key in the body.
func (h *AdminSettingsHandler) Update(c echo.Context) error {
	var body map[string]string
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(body) == 0 {
		return saveError(c, http.StatusBadRequest, "no settings given")
	}
	ctx := c.Request().Context()
	for k, v := range body {
		if k == "" {
			return saveError(c, http.StatusBadRequest, "empty setting key")
		}
		if err := h.SettingsRepo.Set(ctx, k, v); err != nil {
			return saveError(c, http.StatusInternalServerError, "db error")
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
