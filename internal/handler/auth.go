package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/repository"
	"github.com/ShowSysDan/ShowAdvance/internal/utils"
)

// AuthHandler implements login and account endpoints.  Sessions are
// stateless JWTs carrying identity only; everything access-sensitive is
// recomputed per request.
type AuthHandler struct {
	UserRepo   *repository.UserRepo
	AccessRepo *repository.AccessRepo
	JWTSecret  string
	AccessTTL  int // minutes
	BcryptCost int
}

// NewAuthHandler constructs an AuthHandler and panics on nil dependencies.
func NewAuthHandler(users *repository.UserRepo, access *repository.AccessRepo, secret string, ttlMin, bcryptCost int) *AuthHandler {
	if users == nil || access == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{UserRepo: users, AccessRepo: access, JWTSecret: secret, AccessTTL: ttlMin, BcryptCost: bcryptCost}
}

// Login handles POST /login: verifies credentials and issues an access
// token.  Wrong username and wrong password produce the same answer.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		return jsonError(c, http.StatusBadRequest, "username and password are required")
	}

	user, err := h.UserRepo.GetByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusUnauthorized, "invalid username or password")
		}
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return jsonError(c, http.StatusUnauthorized, "invalid username or password")
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, user.ID, user.Username, user.Role, h.AccessTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"user": map[string]any{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
	})
}

// Me handles GET /v1/me: returns the authenticated user's profile plus
// the freshly computed read-only flag, so clients render the right
// editing affordances without caching anything stale.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.UserRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	readOnly, err := h.AccessRepo.IsReadOnly(c.Request().Context(), userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"role":         user.Role,
		"read_only":    readOnly,
	})
}

// ChangePassword handles POST /v1/change_password for the
// authenticated user.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&body); err != nil {
		return saveError(c, http.StatusBadRequest, "invalid request body")
	}
	if body.NewPassword == "" {
		return saveError(c, http.StatusBadRequest, "new password required")
	}
	user, err := h.UserRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	if !utils.VerifyPassword(user.PasswordHash, body.CurrentPassword) {
		return saveError(c, http.StatusForbidden, "current password incorrect")
	}
	hash, err := utils.HashPassword(body.NewPassword, h.BcryptCost)
	if err != nil {
		return saveError(c, http.StatusInternalServerError, "could not hash password")
	}
	if err := h.UserRepo.UpdatePassword(c.Request().Context(), userID, hash); err != nil {
		return saveError(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
