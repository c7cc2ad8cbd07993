package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter applies a global per-IP token bucket to every request
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			util.TooManyRequests(c, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// cleanupLoop evicts buckets for IPs idle longer than 10 minutes
func (rl *RateLimiter) cleanupLoop() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// windowCounter bumps a fixed-window counter and returns the new value;
// the TTL must be set atomically with the increment.
type windowCounter interface {
	IncrWindow(key string, window time.Duration) (int64, error)
}

// AuthRateLimiter is the stricter fixed-window limiter for the auth
// endpoints, counted per (ip, path) in Redis so the limit holds across
// instances. With Redis unavailable it fails open.
type AuthRateLimiter struct {
	counter windowCounter
	limit   int
	window  time.Duration
}

func NewAuthRateLimiter(redis *util.RedisClient, limit int, window time.Duration) *AuthRateLimiter {
	a := &AuthRateLimiter{
		limit:  limit,
		window: window,
	}
	if redis != nil {
		a.counter = redis
	}
	return a
}

func (a *AuthRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.counter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:auth:%s:%s", c.ClientIP(), c.FullPath())
		count, err := a.counter.IncrWindow(key, a.window)
		if err != nil {
			c.Next()
			return
		}

		if count > int64(a.limit) {
			util.ErrorResponse(c, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
