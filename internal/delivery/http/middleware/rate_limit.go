package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"maplehr-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// DefaultRateLimitConfig returns the per-IP limit applied to the ATS routes
func DefaultRateLimitConfig(perMinute int) RateLimitConfig {
	if perMinute <= 0 {
		perMinute = 100
	}
	return RateLimitConfig{
		Limit:     perMinute,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
	// deleted is set by sweep once the entry has left the map.
	deleted bool
}

// fixedWindow counts requests per key. Redis is used when configured; the
// in-memory map covers a nil client and Redis errors when failing open.
type fixedWindow struct {
	client  goredis.Scripter
	config  RateLimitConfig
	entries sync.Map
	now     func() time.Time
}

func (w *fixedWindow) hit(ctx context.Context, key string) (int, time.Time, error) {
	if w.client == nil {
		count, resetAt := w.hitInMemory(key)
		return count, resetAt, nil
	}

	ttlSeconds := int(w.config.Window.Seconds())
	result, err := rateLimitScript.Run(ctx, w.client, []string{key}, ttlSeconds).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(result) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	return int(result[0]), w.now().Add(time.Duration(result[1]) * time.Second), nil
}

func (w *fixedWindow) hitInMemory(key string) (int, time.Time) {
	now := w.now()
	var entry *rateLimitEntry
	for {
		entryI, _ := w.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(w.config.Window)})
		entry = entryI.(*rateLimitEntry)
		entry.mu.Lock()
		if !entry.deleted {
			break
		}
		entry.mu.Unlock()
	}
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(w.config.Window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

// sweep drops expired in-memory windows.
func (w *fixedWindow) sweep() {
	now := w.now()
	w.entries.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			entry.deleted = true
			w.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// RateLimitMiddleware limits requests per key over a fixed window.
// A nil client keeps counters in memory for this process only.
func RateLimitMiddleware(client goredis.Scripter, config RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	w := &fixedWindow{client: client, config: config, now: time.Now}
	var lastSweep time.Time
	var sweepMu sync.Mutex

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)

		sweepMu.Lock()
		if w.now().Sub(lastSweep) > 5*time.Minute {
			lastSweep = w.now()
			go w.sweep()
		}
		sweepMu.Unlock()

		count, resetAt, err := w.hit(c.Request.Context(), fullKey)
		if err != nil {
			if config.FailClosed {
				log.Error("Rate limiter unavailable", zap.String("path", c.FullPath()), zap.Error(err))
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			log.Warn("Rate limiter falling back to memory", zap.Error(err))
			count, resetAt = w.hitInMemory(fullKey)
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(w.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			requestID := response.RequestID(c)
			log.Warn("Rate limit triggered",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
				zap.String("request_id", requestID),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
