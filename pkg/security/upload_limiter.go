package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable is returned alongside allowed=true when Redis is not configured.
var ErrLimiterUnavailable = errors.New("upload limiter unavailable - redis not connected")

// UploadLimiter enforces upload rate limits using a Redis sliding window
type UploadLimiter struct {
	client       goredis.Scripter
	maxPerMinute int // Max uploads per minute per IP
	maxPerDay    int // Max uploads per day per applicant
	now          func() time.Time
}

// Lua script for sliding window rate limiting
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if rate limited
var uploadRateLimitScript = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`)

// NewUploadLimiter creates an upload rate limiter. A nil client disables limiting.
// Default: 10 uploads/min per IP, 50 uploads/day per applicant
func NewUploadLimiter(client goredis.Scripter, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:       client,
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		now:          time.Now,
	}
}

// AllowUpload returns (allowed, retryAfterSeconds, error).
// Fails OPEN: without Redis, or on Redis errors, uploads are allowed and the error is returned for logging.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, applicantID string) (bool, int, error) {
	if ul == nil || ul.client == nil {
		return true, 0, ErrLimiterUnavailable
	}

	now := ul.now().Unix()

	ipKey := fmt.Sprintf("ratelimit:upload:ip:%s", ip)
	allowed, err := ul.checkLimit(ctx, ipKey, ul.maxPerMinute, 60, now)
	if err != nil {
		return true, 0, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if applicantID != "" {
		applicantKey := fmt.Sprintf("ratelimit:upload:applicant:%s", applicantID)
		allowed, err = ul.checkLimit(ctx, applicantKey, ul.maxPerDay, 86400, now)
		if err != nil {
			return true, 0, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

func (ul *UploadLimiter) checkLimit(ctx context.Context, key string, limit, window int, now int64) (bool, error) {
	result, err := uploadRateLimitScript.Run(ctx, ul.client, []string{key}, limit, window, now).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
