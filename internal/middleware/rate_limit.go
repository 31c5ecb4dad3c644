package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter throttles the auth endpoints per client IP. With a redis client
// it uses a fixed INCR/EXPIRE window shared across instances; without one it
// falls back to in-process token buckets.
// maxLocalEntries bounds the in-process limiter map; past it, entries idle
// for a full window are swept before inserting a new one.
const maxLocalEntries = 4096

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	rdb    *redis.Client
	logger *slog.Logger

	limit  int           // requests per window
	window time.Duration

	mu       sync.Mutex
	limiters map[string]*localLimiter
}

func NewRateLimiter(rdb *redis.Client, logger *slog.Logger, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		logger:   logger,
		limit:    limit,
		window:   window,
		limiters: make(map[string]*localLimiter),
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		var allowed bool
		if rl.rdb != nil {
			allowed = rl.allowRedis(c, ip)
		} else {
			allowed = rl.allowLocal(ip)
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allowRedis(c *gin.Context, ip string) bool {
	key := fmt.Sprintf("ratelimit:auth:%s", ip)
	count, err := rl.rdb.Incr(c.Request.Context(), key).Result()
	if err != nil {
		// redis down: fail open rather than locking everyone out
		rl.logger.Warn("rate limiter redis error", "error", err)
		return true
	}
	if count == 1 {
		rl.rdb.Expire(c.Request.Context(), key, rl.window)
	}
	return count <= int64(rl.limit)
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	entry, ok := rl.limiters[ip]
	if !ok {
		if len(rl.limiters) >= maxLocalEntries {
			rl.sweepLocked(now)
		}
		entry = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit),
		}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = now
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// sweepLocked drops entries idle past a full window; their buckets are
// refilled anyway, so nothing is lost. Caller holds mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.window {
			delete(rl.limiters, ip)
		}
	}
}
