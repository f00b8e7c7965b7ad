package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hortaviva/community-garden/internal/config"
	"github.com/hortaviva/community-garden/internal/utils"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newEcho(mw echo.MiddlewareFunc, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw)
	e.GET("/api/seeds", handler)
	return e
}

func TestJWTAuth(t *testing.T) {
	const secret = "mw-test-secret"
	e := echo.New()
	e.Use(JWTAuth(secret))
	e.GET("/api/seeds", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/seeds", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/seeds", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token injects user_id", func(t *testing.T) {
		at, err := utils.NewAccessToken(secret, "64f1b2c3d4e5f60718293a4b", 5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/seeds", nil)
		req.Header.Set("Authorization", "Bearer "+at.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "64f1b2c3d4e5f60718293a4b", rec.Body.String())
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", "64f1b2c3d4e5f60718293a4b", 5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/seeds", nil)
		req.Header.Set("Authorization", "Bearer "+at.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}

	calls := 0
	e := newEcho(NewRedisCache(cfg, rdb), func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]string{"name": "tomato"})
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/seeds?page=1", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/seeds?page=1", nil))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls, "second request must be served from cache")

	// A different query string is a different cache key.
	third := httptest.NewRecorder()
	e.ServeHTTP(third, httptest.NewRequest(http.MethodGet, "/api/seeds?page=2", nil))
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{"GET": true},
		TTL:     time.Minute,
		Prefix:  "cache",
	}

	calls := 0
	e := newEcho(NewRedisCache(cfg, rdb), func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, map[string]string{"error": "seed not found"})
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, 2, calls, "non-200 responses are never cached")
}

func TestRedisCacheSkipsOversizedBodies(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 16,
	}

	body := strings.Repeat("x", 64)
	calls := 0
	e := newEcho(NewRedisCache(cfg, rdb), func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, body)
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, body, first.Body.String(), "the client still gets the full response")

	// A body past the cap must never be stored, or the next request
	// would be served a truncated 200.
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, body, second.Body.String())
	assert.Equal(t, 2, calls)
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	calls := 0
	e := newEcho(NewRedisCache(config.CacheConfig{Enabled: false}, nil), func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "ok")
	})
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestTokenBucketLimitsBursts(t *testing.T) {
	rdb := testRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour, // no refill during the test
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}

	e := newEcho(NewTokenBucket(cfg, rdb), func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within capacity", i+1)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	e := newEcho(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil), func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seeds", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
