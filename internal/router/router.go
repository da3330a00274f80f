// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/handler"
	"github.com/ShowSysDan/ShowAdvance/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login and the session endpoints.  Login is the
// only unauthenticated operation; /v1/me and /v1/change_password require
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/v1/login", a.Login)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/me", a.Me)
	g.POST("/change_password", a.ChangePassword)
}
