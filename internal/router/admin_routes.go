package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/handler"
	"github.com/ShowSysDan/ShowAdvance/internal/middleware"
	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// RegisterAdmin registers endpoints restricted to the admin role: show
// deletion, account administration and access-group administration.
func RegisterAdmin(e *echo.Echo, shows *handler.ShowHandler, users *handler.AdminUserHandler, groups *handler.AdminGroupHandler, settings *handler.AdminSettingsHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.DELETE("/shows/:id", shows.Delete)

	g.GET("/admin/users", users.List)
	g.POST("/admin/users", users.Create)
	g.POST("/admin/users/:id/reset_password", users.ResetPassword)
	g.DELETE("/admin/users/:id", users.Delete)

	g.GET("/admin/groups", groups.List)
	g.POST("/admin/groups", groups.Create)
	g.PUT("/admin/groups/:id", groups.Update)
	g.DELETE("/admin/groups/:id", groups.Delete)
	g.PUT("/admin/groups/:id/members", groups.SetMembers)
	g.PUT("/admin/groups/:id/shows", groups.SetGrants)

	g.GET("/admin/settings", settings.List)
	g.PUT("/admin/settings", settings.Update)
}
