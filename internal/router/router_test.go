package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrylane/reviewly/internal/handler"
	"github.com/ferrylane/reviewly/internal/utils"
)

func stub(c echo.Context) error { return c.NoContent(http.StatusOK) }

func registered(e *echo.Echo) map[string]bool {
	out := make(map[string]bool)
	for _, r := range e.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

func TestMountResourceFullCRUD(t *testing.T) {
	e := echo.New()
	g := e.Group("/v1/works")
	mountResource(g, "work_id", FullCRUD, ResourceHandlers{
		Create: stub, List: stub, Retrieve: stub, Update: stub, Delete: stub,
	})

	routes := registered(e)
	assert.True(t, routes["POST /v1/works"])
	assert.True(t, routes["GET /v1/works"])
	assert.True(t, routes["GET /v1/works/:work_id"])
	assert.True(t, routes["PATCH /v1/works/:work_id"])
	assert.True(t, routes["DELETE /v1/works/:work_id"])
	assert.False(t, routes["PUT /v1/works/:work_id"], "updates merge partial payloads, so no PUT")
}

func TestMountResourceCreateListDelete(t *testing.T) {
	e := echo.New()
	g := e.Group("/v1/genres")
	mountResource(g, "slug", CreateListDelete, ResourceHandlers{
		Create: stub, List: stub, Delete: stub,
	})

	routes := registered(e)
	assert.True(t, routes["POST /v1/genres"])
	assert.True(t, routes["GET /v1/genres"])
	assert.True(t, routes["DELETE /v1/genres/:slug"])
	assert.False(t, routes["GET /v1/genres/:slug"], "taxonomies have no detail read")
	assert.False(t, routes["PATCH /v1/genres/:slug"], "taxonomies cannot be renamed in place")
	assert.False(t, routes["PUT /v1/genres/:slug"])
}

func TestUserRoutesAdminGate(t *testing.T) {
	const secret = "gate-secret"
	e := echo.New()
	RegisterUsers(e, &handler.UserHandler{}, secret)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "anonymous requests never reach the registry")

	tok, err := utils.NewAccessToken(secret, 3, "alice", "user", 5)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "non-admin tokens are rejected before the handler")
}
