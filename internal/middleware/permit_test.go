package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/ferrylane/reviewly/internal/permission"
)

func permitRun(method string, id permission.Identity, check func(permission.Identity, string) (bool, string)) *httptest.ResponseRecorder {
	e := echo.New()
	handler := Permit(check)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextIdentityKey, id)
	_ = handler(c)
	return rec
}

func TestPermitAllows(t *testing.T) {
	admin := permission.Identity{ID: 1, Role: "admin", Authenticated: true}
	rec := permitRun(http.MethodPost, admin, permission.AdminOrReadOnly)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermitAnonymousGets401(t *testing.T) {
	rec := permitRun(http.MethodPost, permission.Guest, permission.AdminOrReadOnly)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermitForbiddenGets403WithReason(t *testing.T) {
	user := permission.Identity{ID: 2, Role: "user", Authenticated: true}
	rec := permitRun(http.MethodDelete, user, permission.AdminOrReadOnly)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), permission.ReasonNotAdmin)
}

func TestPermitSafeMethodOpenToGuests(t *testing.T) {
	rec := permitRun(http.MethodGet, permission.Guest, permission.AdminOrReadOnly)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := RequireRole("admin", "moderator")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for role, want := range map[string]int{
		"admin":     http.StatusOK,
		"moderator": http.StatusOK,
		"user":      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextIdentityKey, permission.Identity{ID: 5, Role: role, Authenticated: true})
		_ = handler(c)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}
