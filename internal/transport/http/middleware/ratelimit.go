package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "go-gin-taskhub/internal/transport/http/response"
)

// RateLimit is one token bucket shared by every client.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP keeps one bucket per client IP. Buckets idle longer than
// idleTTL are dropped on the next sweep.
func RateLimitPerIP(rps rate.Limit, burst int, idleTTL time.Duration) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*ipBucket)
		lastSweep = time.Now()
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if idleTTL > 0 && now.Sub(lastSweep) > idleTTL {
			for k, b := range buckets {
				if now.Sub(b.seen) > idleTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if allowed {
			c.Next()
			return
		}
		resp.Abort(c, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}
