package handler // handler defines the HTTP layer over the repositories

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
)

// getUserID extracts the authenticated user's ID from echo.Context.  The
// JWT middleware stores the raw claim, which arrives as float64 from the
// JSON decoder; tolerate the other numeric shapes as well.
func getUserID(c echo.Context) (int64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case uint64:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// jsonError writes a plain {"error": msg} body with the given status.
// Read endpoints use this shape.
func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// saveError writes the structured {success:false, error} body that write
// endpoints answer with instead of raising.
func saveError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "error": msg})
}

// resolveShow loads a show and checks the caller's visibility, mapping
// failures onto the error taxonomy: nonexistent shows are NotFound,
// existing-but-ungranted shows are AccessDenied.
func resolveShow(c echo.Context, shows *repository.ShowRepo, access *repository.AccessRepo, userID, showID int64) (*model.Show, error) {
	ctx := c.Request().Context()
	show, err := shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return nil, repository.ErrShowNotFound
		}
		return nil, err
	}
	ok, err := access.CanAccess(ctx, userID, showID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrAccessDenied
	}
	return show, nil
}

// respondShowError maps resolveShow failures to read-endpoint responses.
func respondShowError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrShowNotFound):
		return jsonError(c, http.StatusNotFound, "show not found")
	case errors.Is(err, repository.ErrAccessDenied):
		return jsonError(c, http.StatusForbidden, "access denied")
	}
	return jsonError(c, http.StatusInternalServerError, "db error")
}

// stringify renders an arbitrary JSON value as the stored field text.
// Form payloads are permissive: nil becomes empty, scalars render
// naturally, anything structured falls back to its Go representation.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers arrive as float64; print integers without a
		// trailing .0 so "2" round-trips as "2".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// stringFields flattens a bound JSON object into the map the form store
// persists.  Missing or odd-shaped values default rather than reject.
func stringFields(data map[string]any) map[string]string {
	fields := make(map[string]string, len(data))
	for k, v := range data {
		fields[k] = stringify(v)
	}
	return fields
}
