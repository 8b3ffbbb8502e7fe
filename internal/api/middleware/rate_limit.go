package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/roastcv/internal/utils"
	"golang.org/x/time/rate"
)

const (
	idleVisitorTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	now      func() time.Time

	lastSweep time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with a burst of the same size.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &IPRateLimiter{
		visitors: map[string]*visitor{},
		every:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.seen = now

	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}
	return v.lim.AllowN(now, 1)
}

// sweep drops visitors idle for longer than idleVisitorTTL. Callers hold mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	for k, o := range l.visitors {
		if now.Sub(o.seen) > idleVisitorTTL {
			delete(l.visitors, k)
		}
	}
	l.lastSweep = now
}

func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			abort(c, http.StatusTooManyRequests, utils.CodeTooManyRequests, "too many uploads, try again later")
			return
		}
		c.Next()
	}
}
