package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// sweepInterval bounds how often Allow scans for idle buckets.
const sweepInterval = time.Minute

type bucket struct {
	tokens float64
	last   time.Time
}

// full reports whether the bucket would be back at capacity by now.
func (b *bucket) full(now time.Time, refill, capacity float64) bool {
	return b.tokens+now.Sub(b.last).Seconds()*refill >= capacity
}

// Limiter is a per-key token bucket. Every key shares the same capacity and
// refill rate. Buckets that have refilled completely are dropped, since a
// fresh bucket behaves the same.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	capacity  float64
	refill    float64 // tokens per second
	now       func() time.Time
	lastSweep time.Time
}

// NewLimiter allows burst requests at once, refilled at perSecond.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: float64(burst),
		refill:   perSecond,
		now:      time.Now,
	}
}

// Allow consumes one token for key if available.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) sweep(now time.Time) {
	if l.refill <= 0 || now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if b.full(now, l.refill, l.capacity) {
			delete(l.buckets, key)
		}
	}
}

// RateLimit rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by echo's RealIP.
func RateLimit(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"success": false,
					"error":   "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
