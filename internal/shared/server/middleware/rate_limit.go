package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"acen-backend/internal/shared/server/respond"
)

const (
	rateLimiterSweepSize = 10000
	rateLimiterIdleTTL   = 10 * time.Minute
)

// RateLimiter keeps one token bucket per principal.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*limiterEntry
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter builds a limiter allowing perSec events per second with the given burst.
// A non-positive rate or burst disables limiting.
func NewRateLimiter(perSec float64, burst int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		limit:    rate.Limit(perSec),
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
		now:      now,
	}
}

// Allow reports whether key may proceed, and otherwise how long until it may.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 || l.burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= rateLimiterSweepSize {
			l.sweep(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	res := entry.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *RateLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > rateLimiterIdleTTL {
			delete(l.limiters, key)
		}
	}
}

// RateLimit rejects callers exceeding the limiter with 429 and a Retry-After header.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = c.ClientIP()
		}
		allowed, retryAfter := limiter.Allow(principal + "|" + c.FullPath())
		if allowed {
			c.Next()
			return
		}
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}
