package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int, senderID uuid.UUID) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if senderID != uuid.Nil {
			c.Request = c.Request.WithContext(WithSender(c.Request.Context(), senderID))
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(ctx, rps, burst, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func doGet(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10.0, 20, uuid.Must(uuid.NewV7()))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(router).Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 1.0, 2, uuid.Must(uuid.NewV7()))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doGet(router).Code)
	}

	w := doGet(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentSenders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender1 := uuid.Must(uuid.NewV7())
	sender2 := uuid.Must(uuid.NewV7())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		senderID := sender1
		if c.GetHeader("X-Sender") == "2" {
			senderID = sender2
		}
		c.Request = c.Request.WithContext(WithSender(c.Request.Context(), senderID))
		c.Next()
	})
	router.Use(RateLimitMiddleware(ctx, 1.0, 1, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	request := func(sender string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Sender", sender)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("1"))
	assert.Equal(t, http.StatusTooManyRequests, request("1"))
	assert.Equal(t, http.StatusOK, request("2"))
}

func TestRateLimitMiddleware_RequiresSender(t *testing.T) {
	router := newRateLimitedRouter(t, 10.0, 20, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, doGet(router).Code)
}

func TestRateLimiterStore_EvictIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	active := uuid.Must(uuid.NewV7())
	idle := uuid.Must(uuid.NewV7())

	store.getLimiter(active)
	store.getLimiter(idle)

	val, _ := store.limiters.Load(idle)
	entry := val.(*rateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	store.evictIdle(time.Now().Add(-time.Hour))

	_, activeFound := store.limiters.Load(active)
	_, idleFound := store.limiters.Load(idle)
	assert.True(t, activeFound)
	assert.False(t, idleFound)
}

func TestRateLimiterStore_CleanupStopsOnCancel(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
