package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/permission"
)

// Permit lifts a collection-level permission predicate into middleware.
// The predicate sees the request identity and method; a denial becomes
// 401 for anonymous requesters and 403 otherwise, carrying the
// predicate's reason so clients can show it.  Object-level checks stay in
// the handlers, after the parent resources resolved.
func Permit(check func(id permission.Identity, method string) (bool, string)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity(c)
			if ok, reason := check(id, c.Request().Method); !ok {
				status := http.StatusForbidden
				if !id.Authenticated {
					status = http.StatusUnauthorized
				}
				return c.JSON(status, echo.Map{"error": reason})
			}
			return next(c)
		}
	}
}
