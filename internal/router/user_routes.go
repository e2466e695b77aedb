package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/handler"
	"github.com/ferrylane/reviewly/internal/middleware"
	"github.com/ferrylane/reviewly/internal/model"
)

// RegisterUsers registers account management endpoints under /v1/users.
//
// The /me pair is available to any authenticated account and always acts
// on the caller itself.  The remaining routes are the admin user registry,
// gated collection-wide by the role middleware before any handler runs.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	me := e.Group("/v1/users/me", middleware.JWTAuth(jwtSecret))
	me.GET("", h.Me)
	me.PATCH("", h.PatchMe)

	admin := e.Group(
		"/v1/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	mountResource(admin, "username", FullCRUD, ResourceHandlers{
		Create:   h.Create,
		List:     h.List,
		Retrieve: h.Get,
		Update:   h.Patch,
		Delete:   h.Delete,
	})
}
