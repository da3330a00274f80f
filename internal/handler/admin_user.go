package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
	"github.com/ShowSysDan/ShowAdvance/internal/utils"
)

// AdminUserHandler covers account administration.  All routes behind it
// require the admin role; the one extra rule enforced here is that an
// admin cannot delete their own account.
type AdminUserHandler struct {
	UserRepo   *repository.UserRepo
	BcryptCost int
}

// NewAdminUserHandler constructs an AdminUserHandler and panics on a nil
// repo.
func NewAdminUserHandler(users *repository.UserRepo, bcryptCost int) *AdminUserHandler {
	if users == nil {
		panic("nil repository passed to NewAdminUserHandler")
	}
	return &AdminUserHandler{UserRepo: users, BcryptCost: bcryptCost}
}

// List handles GET /v1/admin/users.
func (h *AdminUserHandler) List(c echo.Context) error {
	users, err := h.UserRepo.List(c.Request().Context())
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":           u.ID,
			"username":     u.Username,
			"display_name": u.DisplayName,
			"role":         u.Role,
			"created_at":   u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out})
}

// Create handles POST /v1/admin/users.
func (h *AdminUserHandler) Create(c echo.Context) error {
	var body struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		return saveError(c, http.StatusBadRequest, "username and password are required")
	}
	role := body.Role
	if role != model.RoleAdmin {
		role = "user"
	}
	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "could not hash password")
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(body.DisplayName),
		Role:         role,
	}
	if err := h.UserRepo.Create(c.Request().Context(), u); err != nil {
		// The only constraint on the insert is the unique username.
		return saveError(c, http.StatusConflict, "username already exists")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": u.ID})
}

// ResetPassword handles POST /v1/admin/users/:id/reset_password.
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil || body.Password == "" {
		return saveError(c, http.StatusBadRequest, "password is required")
	}
	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "could not hash password")
	}
	if err := h.UserRepo.UpdatePassword(c.Request().Context(), id, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return saveError(c, http.StatusNotFound, "user not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /v1/admin/users/:id.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return saveError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if id == callerID {
		return saveError(c, http.StatusBadRequest, "cannot delete your own account")
	}
	if err := h.UserRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return saveError(c, http.StatusNotFound, "user not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
