package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"noterelay/internal/config"
)

func newRouter(store *Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(store.Middleware())
	router.POST("/hook", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func send(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_LimitsPerClient(t *testing.T) {
	store := NewStore(config.RateLimitConfig{RPS: 0.001, Burst: 2, CleanupInterval: time.Minute, MaxAge: time.Minute})
	router := newRouter(store)

	assert.Equal(t, http.StatusCreated, send(router, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusCreated, send(router, "10.0.0.1:1000").Code)

	w := send(router, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusCreated, send(router, "10.0.0.2:1000").Code)
	assert.Equal(t, 2, store.Len())
}

func TestStore_EvictIdle(t *testing.T) {
	store := NewStore(config.RateLimitConfig{RPS: 1, Burst: 1, CleanupInterval: time.Minute, MaxAge: time.Minute})
	store.get("10.0.0.1")
	assert.Equal(t, 1, store.Len())

	store.evictIdle(time.Now())
	assert.Equal(t, 1, store.Len())

	store.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, store.Len())
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "10", formatRate(10))
	assert.Equal(t, "2.5", formatRate(2.5))
}
