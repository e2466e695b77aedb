package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrylane/reviewly/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`{"count":0,"results":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload(nil)
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
	// header length pointing past the buffer
	bs, err := encodePayload(200, http.Header{"A": {"b"}}, []byte("x"))
	require.NoError(t, err)
	_, _, _, ok = decodePayload(bs[:9])
	assert.False(t, ok)
}

func TestOversizeResponseNotStored(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
	_, err := cw.Write([]byte("12345"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("6789abc"))
	require.NoError(t, err)

	assert.Equal(t, int64(12), cw.size, "size counts everything written")
	assert.Equal(t, 8, cw.buf.Len(), "capture stops at the limit")
	assert.False(t, storable(cw.status, cw.size, cw.limit),
		"a capture smaller than the response must never be cached")
}

func TestStorable(t *testing.T) {
	assert.True(t, storable(http.StatusOK, 100, 0), "no limit caches everything")
	assert.True(t, storable(http.StatusOK, 8, 8))
	assert.False(t, storable(http.StatusOK, 9, 8))
	assert.False(t, storable(http.StatusNotFound, 1, 8), "only 200s are stored")
}

func TestCacheKeyFromStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	ctxFor := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/works")
		return c
	}

	k1 := cacheKeyFrom(cfg, ctxFor("/v1/works?page=1"))
	k2 := cacheKeyFrom(cfg, ctxFor("/v1/works?page=2"))
	k3 := cacheKeyFrom(cfg, ctxFor("/v1/works?page=1"))
	assert.NotEqual(t, k1, k2, "different queries must not share an entry")
	assert.Equal(t, k1, k3, "identical requests share an entry")

	cfg.KeyStrategy = "route"
	k4 := cacheKeyFrom(cfg, ctxFor("/v1/works?page=1"))
	k5 := cacheKeyFrom(cfg, ctxFor("/v1/works?page=2"))
	assert.Equal(t, k4, k5, "route strategy ignores the query string")
}

func TestNewRedisCacheNilClientPassThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
