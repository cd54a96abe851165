package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimiter applies a per client IP token bucket: burst is the window's
// request budget and tokens refill evenly across the window.
type RateLimiter struct {
	visitors cmap.ConcurrentMap[string, *visitor]
	limit    rate.Limit
	burst    int
	window   time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	requests := cfg.Requests
	if requests <= 0 {
		requests = 250
	}
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{
		visitors: cmap.New[*visitor](),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
	}
}

func (l *RateLimiter) get(ip string) *visitor {
	v := l.visitors.Upsert(ip, nil, func(exist bool, old *visitor, _ *visitor) *visitor {
		if exist {
			return old
		}
		return &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
	})
	v.mu.Lock()
	v.lastSeen = time.Now()
	v.mu.Unlock()
	return v
}

// Allow reports whether ip may make another request and how many remain.
func (l *RateLimiter) Allow(ip string) (bool, int) {
	v := l.get(ip)
	ok := v.limiter.Allow()
	remaining := int(v.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return ok, remaining
}

// Sweep forgets clients idle for a full window; their bucket would be full again anyway.
func (l *RateLimiter) Sweep() int {
	cutoff := time.Now().Add(-l.window)
	removed := 0
	for _, ip := range l.visitors.Keys() {
		l.visitors.RemoveCb(ip, func(_ string, v *visitor, exists bool) bool {
			if !exists {
				return false
			}
			v.mu.Lock()
			idle := v.lastSeen.Before(cutoff)
			v.mu.Unlock()
			if idle {
				removed++
			}
			return idle
		})
	}
	return removed
}

func (l *RateLimiter) Len() int {
	return l.visitors.Count()
}

// Middleware rejects clients over budget with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining := l.Allow(c.ClientIP())
		c.Header("RateLimit-Limit", strconv.Itoa(l.burst))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/float64(l.limit)))))
			response.Abort(c, http.StatusTooManyRequests, "")
			return
		}
		c.Next()
	}
}
