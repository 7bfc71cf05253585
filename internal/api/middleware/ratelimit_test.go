package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mkulima/soko/internal/api/middleware"
	"mkulima/soko/internal/config"
)

func newLimitedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewRateLimiterMiddleware(cfg).Limit())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/sell", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doRequest(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_HardLimitRejects(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 100, RateLimitSoftRefillRate: 100,
		RateLimitHardBucketSize: 3, RateLimitHardRefillRate: 0,
	}
	r := newLimitedRouter(cfg)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/"))
}

func TestRateLimit_SoftLimitOnlyThrottlesMutations(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 1, RateLimitSoftRefillRate: 0,
		RateLimitHardBucketSize: 100, RateLimitHardRefillRate: 100,
	}
	r := newLimitedRouter(cfg)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/sell"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodPost, "/sell"))

	// Reads keep working after the submission budget is spent.
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/"))
}

func TestRateLimit_ClientsAreIndependent(t *testing.T) {
	cfg := &config.Config{
		RateLimitSoftBucketSize: 100, RateLimitSoftRefillRate: 100,
		RateLimitHardBucketSize: 1, RateLimitHardRefillRate: 0,
	}
	r := newLimitedRouter(cfg)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
