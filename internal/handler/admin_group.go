package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// AdminGroupHandler administers access groups: the group records
// themselves, user memberships and per-show grants.  Access checks read
// these tables fresh on every request, so changes here take effect on a
// user's very next request without re-login.
type AdminGroupHandler struct {
	GroupRepo *repository.GroupRepo
}

// NewAdminGroupHandler constructs an AdminGroupHandler and panics on a
// nil repo.
func NewAdminGroupHandler(groups *repository.GroupRepo) *AdminGroupHandler {
	if groups == nil {
		panic("nil repository passed to NewAdminGroupHandler")
	}
	return &AdminGroupHandler{GroupRepo: groups}
}

// List handles GET /v1/admin/groups, returning each group with its
// member and grant ID lists.
func (h *AdminGroupHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	groups, err := h.GroupRepo.List(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		members, err := h.GroupRepo.Members(ctx, g.ID)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "db error")
		}
		grants, err := h.GroupRepo.Grants(ctx, g.ID)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "db error")
		}
		out = append(out, map[string]any{
			"id":          g.ID,
			"name":        g.Name,
			"group_type":  g.GroupType,
			"description": g.Description,
			"member_ids":  members,
			"show_ids":    grants,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"groups": out})
}

// Create handles POST /v1/admin/groups.
func (h *AdminGroupHandler) Create(c echo.Context) error {
	g, resp, ok := bindGroup(c)
	if !ok {
		return resp
	}
	if err := h.GroupRepo.Create(c.Request().Context(), g); err != nil {
		return saveError(c, http.StatusConflict, "group name already exists")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": g.ID})
}

// Update handles PUT /v1/admin/groups/:id.
func (h *AdminGroupHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	g, resp, ok := bindGroup(c)
	if !ok {
		return resp
	}
	g.ID = id
	if err := h.GroupRepo.Update(c.Request().Context(), g); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return saveError(c, http.StatusNotFound, "group not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /v1/admin/groups/:id.  Deleting a user's last
// group flips that user back to default full access.
func (h *AdminGroupHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.GroupRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return saveError(c, http.StatusNotFound, "group not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// SetMembers handles PUT /v1/admin/groups/:id/members, replacing the
// member list with the given user IDs.
func (h *AdminGroupHandler) SetMembers(c echo.Context) error {
	return h.replaceIDs(c, h.GroupRepo.Members, h.GroupRepo.AddMember, h.GroupRepo.RemoveMember, "user_ids")
}

// SetGrants handles PUT /v1/admin/groups/:id/shows, replacing the show
// grant list with the given show IDs.
func (h *AdminGroupHandler) SetGrants(c echo.Context) error {
	return h.replaceIDs(c, h.GroupRepo.Grants, h.GroupRepo.GrantShow, h.GroupRepo.RevokeShow, "show_ids")
}

// replaceIDs diffs a stored ID list against the request body and applies
// only the additions and removals.
func (h *AdminGroupHandler) replaceIDs(
	c echo.Context,
	current func(ctx context.Context, groupID int64) ([]int64, error),
	add func(ctx context.Context, groupID, id int64) error,
	remove func(ctx context.Context, groupID, id int64) error,
	field string,
) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if _, err := h.GroupRepo.Get(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return saveError(c, http.StatusNotFound, "group not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	var body map[string][]int64
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	want := map[int64]struct{}{}
	for _, id := range body[field] {
		want[id] = struct{}{}
	}
	have, err := current(ctx, groupID)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	haveSet := map[int64]struct{}{}
	for _, id := range have {
		haveSet[id] = struct{}{}
		if _, ok := want[id]; !ok {
			if err := remove(ctx, groupID, id); err != nil {
				return saveError(c, http.StatusInternalServerError, "db error")
			}
		}
	}
	for id := range want {
		if _, ok := haveSet[id]; !ok {
			if err := add(ctx, groupID, id); err != nil {
				return saveError(c, http.StatusInternalServerError, "db error")
			}
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func bindGroup(c echo.Context) (*model.Group, error, bool) {
	var body struct {
		Name        string `json:"name"`
		GroupType   string `json:"group_type"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return nil, saveError(c, http.StatusBadRequest, "invalid request body"), false
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return nil, saveError(c, http.StatusBadRequest, "name is required"), false
	}
	if !model.ValidGroupType(body.GroupType) {
		return nil, saveError(c, http.StatusBadRequest, "invalid group type"), false
	}
	return &model.Group{
		Name:        name,
		GroupType:   body.GroupType,
		Description: strings.TrimSpace(body.Description),
	}, nil, true
}
