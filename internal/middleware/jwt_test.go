package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrylane/reviewly/internal/permission"
	"github.com/ferrylane/reviewly/internal/utils"
)

const testSecret = "unit-test-secret"

func bearerFor(t *testing.T, userID uint64, username, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, username, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// run sends a request through the given middleware chain into a handler
// that echoes the context identity.
func run(mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, permission.Identity) {
	e := echo.New()
	var seen permission.Identity
	handler := mw(func(c echo.Context) error {
		seen = Identity(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec, seen
}

func TestJWTAuthValidToken(t *testing.T) {
	rec, seen := run(JWTAuth(testSecret), bearerFor(t, 7, "alice", "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), seen.ID)
	assert.Equal(t, "alice", seen.Username)
	assert.Equal(t, "admin", seen.Role)
	assert.True(t, seen.Authenticated)
}

func TestJWTAuthRejectsMissingAndGarbage(t *testing.T) {
	rec, _ := run(JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = run(JWTAuth(testSecret), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", 7, "alice", "user", 5)
	require.NoError(t, err)

	rec, _ := run(JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTOptionalGuestPassThrough(t *testing.T) {
	rec, seen := run(JWTOptional(testSecret), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.Authenticated)
	assert.Equal(t, permission.Guest, seen)
}

func TestJWTOptionalStillRejectsBadToken(t *testing.T) {
	rec, _ := run(JWTOptional(testSecret), "Bearer expired-or-garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a present but invalid token is an error, not a guest")
}

func TestJWTOptionalValidToken(t *testing.T) {
	rec, seen := run(JWTOptional(testSecret), bearerFor(t, 3, "bob", "user"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, seen.Authenticated)
	assert.Equal(t, "bob", seen.Username)
}

func TestIdentityDefaultsToGuest(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, permission.Guest, Identity(c))
}
