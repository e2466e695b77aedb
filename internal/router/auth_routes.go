package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/handler"
)

// RegisterAuth registers the public signup and token endpoints.  Both are
// unauthenticated: signup creates or refreshes a pending account, token
// exchanges username plus confirmation code for a JWT.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/signup", h.Signup)
	g.POST("/token", h.Token)
}
