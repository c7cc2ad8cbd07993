package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (f *fakeCounter) IncrWindow(key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	if _, ok := f.ttls[key]; !ok {
		f.ttls[key] = window
	}
	return f.counts[key], nil
}

func authLimiterRouter(limiter *AuthRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hitLogin(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthRateLimiter_BlocksPastLimit(t *testing.T) {
	counter := newFakeCounter()
	limiter := &AuthRateLimiter{counter: counter, limit: 3, window: 10 * time.Second}
	r := authLimiterRouter(limiter)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hitLogin(r, "10.0.0.1"))

	// another client has its own window
	assert.Equal(t, http.StatusOK, hitLogin(r, "10.0.0.2"))

	// the TTL is attached on the very first hit, never deferred
	for _, ttl := range counter.ttls {
		assert.Equal(t, 10*time.Second, ttl)
	}
}

func TestAuthRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("connection refused")
	limiter := &AuthRateLimiter{counter: counter, limit: 1, window: 10 * time.Second}
	r := authLimiterRouter(limiter)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(r, "10.0.0.1"))
	}
}

func TestAuthRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	limiter := NewAuthRateLimiter(nil, 1, 10*time.Second)
	r := authLimiterRouter(limiter)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(r, "10.0.0.1"))
	}
}

func TestRateLimiter_AllowsBurstThenThrottles(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// independent bucket per IP
	assert.True(t, rl.allow("10.0.0.2"))
}
