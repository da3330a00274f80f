package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// ContactHandler serves the venue contact directory.  Contacts are global
// (not tied to a show) and editable by any authenticated user.
type ContactHandler struct {
	ContactRepo *repository.ContactRepo
}

// NewContactHandler constructs a ContactHandler and panics on a nil repo.
func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
	if contacts == nil {
		panic("nil repository passed to NewContactHandler")
	}
	return &ContactHandler{ContactRepo: contacts}
}

// List handles GET /v1/contacts: the directory grouped by department,
// plus the fixed department list for the add/edit form.
func (h *ContactHandler) List(c echo.Context) error {
	byDept, err := h.ContactRepo.ByDepartment(c.Request().Context())
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"contacts":    byDept,
		"departments": model.Departments,
	})
}

// Create handles POST /v1/contacts.
func (h *ContactHandler) Create(c echo.Context) error {
	contact, resp, ok := bindContact(c)
	if !ok {
		return resp
	}
	if err := h.ContactRepo.Create(c.Request().Context(), contact); err != nil {
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": contact.ID})
}

// Update handles PUT /v1/contacts/:id.
func (h *ContactHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	contact, resp, ok := bindContact(c)
	if !ok {
		return resp
	}
	contact.ID = id
	if err := h.ContactRepo.Update(c.Request().Context(), contact); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return saveError(c, http.StatusNotFound, "contact not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /v1/contacts/:id.
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return saveError(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.ContactRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return saveError(c, http.StatusNotFound, "contact not found")
		}
		return saveError(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func bindContact(c echo.Context) (*model.Contact, error, bool) {
	var body struct {
		Name       string `json:"name"`
		Title      string `json:"title"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return nil, saveError(c, http.StatusBadRequest, "invalid request body"), false
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return nil, saveError(c, http.StatusBadRequest, "name is required"), false
	}
	return &model.Contact{
		Name:       name,
		Title:      strings.TrimSpace(body.Title),
		Department: strings.TrimSpace(body.Department),
		Phone:      strings.TrimSpace(body.Phone),
		Email:      strings.TrimSpace(body.Email),
	}, nil, true
}
