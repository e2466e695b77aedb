package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	page, size := pageParams(testCtx("/v1/works"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = pageParams(testCtx("/v1/works?page=3&page_size=50"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	page, size = pageParams(testCtx("/v1/works?page=0&page_size=-1"))
	assert.Equal(t, 1, page, "non-positive values fall back to defaults")
	assert.Equal(t, 20, size)

	_, size = pageParams(testCtx("/v1/works?page_size=1000"))
	assert.Equal(t, 100, size, "page size is capped")

	page, size = pageParams(testCtx("/v1/works?page=abc&page_size=xyz"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
}

func TestValidSlug(t *testing.T) {
	assert.True(t, validSlug("movies"))
	assert.True(t, validSlug("sci-fi"))
	assert.True(t, validSlug("top_10"))
	assert.False(t, validSlug(""))
	assert.False(t, validSlug("bad slug"))
	assert.False(t, validSlug("ünïcode"))
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, validSlug(string(long)))
}

func TestValidateSlugEntity(t *testing.T) {
	req := slugEntityReq{Name: "  Movies  ", Slug: " movies "}
	assert.Empty(t, validateSlugEntity(&req))
	assert.Equal(t, "Movies", req.Name)
	assert.Equal(t, "movies", req.Slug)

	req = slugEntityReq{Name: "", Slug: "x"}
	assert.Equal(t, "name required", validateSlugEntity(&req))

	req = slugEntityReq{Name: "Books", Slug: "no spaces"}
	assert.Equal(t, "invalid slug", validateSlugEntity(&req))
}
