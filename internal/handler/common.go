package handler // handler implements the HTTP endpoints of the API

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/middleware"
	"github.com/ferrylane/reviewly/internal/permission"
)

// dbTimeout bounds every database call issued from a handler.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// identity returns the acting user placed in context by the JWT middlewares.
func identity(c echo.Context) permission.Identity {
	return middleware.Identity(c)
}

// deny renders a permission failure: 401 for anonymous requesters, 403
// with the predicate's reason otherwise.
func deny(c echo.Context, id permission.Identity, reason string) error {
	status := http.StatusForbidden
	if !id.Authenticated {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, echo.Map{"error": reason})
}

// pageParams reads page/page_size query parameters with defaults and caps.
func pageParams(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

// listResp is the envelope for paginated collections.
func listResp(c echo.Context, total int64, page, pageSize int, results any) error {
	return c.JSON(http.StatusOK, echo.Map{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"results":   results,
	})
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// validSlug reports whether s is a usable URL slug.
func validSlug(s string) bool {
	return s != "" && len(s) <= 50 && slugPattern.MatchString(s)
}

// reservedUsername reports whether the name collides with the fixed
// self-profile path.  The comparison is case-folded: "ME" is as reserved
// as "me".
func reservedUsername(name string) bool {
	return strings.EqualFold(name, "me")
}
