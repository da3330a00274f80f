package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// PresenceHandler implements the polling endpoints of the concurrent
// editing layer.  Everything here is advisory, best-effort collaboration
// awareness: two users can still race between polls, and the design
// accepts last-write-wins at field granularity.  The point is to make
// collisions visible to humans, not to resolve them automatically.
type PresenceHandler struct {
	ShowRepo     *repository.ShowRepo
	AccessRepo   *repository.AccessRepo
	FormRepo     *repository.FormRepo
	PresenceRepo *repository.PresenceRepo
}

// NewPresenceHandler constructs a PresenceHandler and panics on nil
// dependencies.
func NewPresenceHandler(shows *repository.ShowRepo, access *repository.AccessRepo, forms *repository.FormRepo, presence *repository.PresenceRepo) *PresenceHandler {
	if shows == nil || access == nil || forms == nil || presence == nil {
		panic("nil repository passed to NewPresenceHandler")
	}
	return &PresenceHandler{ShowRepo: shows, AccessRepo: access, FormRepo: forms, PresenceRepo: presence}
}

// Sync handles GET /v1/shows/:id/sync/advance?since=&tab=&field=.
// It refreshes the caller's presence row, then answers with:
//   - fields: advance values updated strictly after `since`, excluding
//     anything from the caller's own last save,
//   - since: the new cursor (max updated_at across the show's fields),
//   - active_users: everyone else seen on this show in the last 45s.
// On the first poll (empty since) no fields are returned; the page load
// already carried current state, so there is nothing to merge.
func (h *PresenceHandler) Sync(c echo.Context) error {
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
	ctx := c.Request().Context()

	tab := c.QueryParam("tab")
	if tab == "" {
		tab = "advance"
	}
	if err := h.PresenceRepo.Touch(ctx, userID, showID, tab, c.QueryParam("field")); err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}

	since := c.QueryParam("since")
	fields := map[string]string{}
	if since != "" {
		fields, err = h.FormRepo.ChangedAdvanceFields(ctx, showID, since, userID)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "db error")
		}
	}
	cursor, err := h.FormRepo.AdvanceCursor(ctx, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	// Never hand back a cursor older than the one the client sent; MAX()
	// is empty until the first field exists.
	if cursor < since {
		cursor = since
	}
	active, err := h.PresenceRepo.OthersActive(ctx, userID, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"since":        cursor,
		"fields":       fields,
		"active_users": active,
	})
}

// Heartbeat handles POST /v1/shows/:id/heartbeat, the thinner poll for
// tabs that do not merge field deltas (schedule, post-notes).  It
// refreshes presence and reports whether someone else saved, leaving the
// reload decision to the client.
func (h *PresenceHandler) Heartbeat(c echo.Context) error {
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
	var body struct {
		Tab          string `json:"tab"`
		FocusedField string `json:"focused_field"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	if err := h.PresenceRepo.Touch(ctx, userID, showID, body.Tab, body.FocusedField); err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	active, err := h.PresenceRepo.OthersActive(ctx, userID, showID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	otherSaved := show.LastSavedBy != 0 && show.LastSavedBy != userID
	return c.JSON(http.StatusOK, map[string]any{
		"active_users":  active,
		"other_saved":   otherSaved,
		"last_saved_at": show.LastSavedAt,
	})
}

// Leave handles POST /v1/shows/:id/leave: drops the caller's presence row
// immediately instead of waiting out the expiry window.
func (h *PresenceHandler) Leave(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.PresenceRepo.Leave(c.Request().Context(), userID, showID); err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
