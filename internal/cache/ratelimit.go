package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitPrefix is the Redis key prefix for fixed-window counters.
const rateLimitPrefix = "ratelimit:"

// windowSeconds is the fixed rate-limit window length.
const windowSeconds = 60

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// fixedWindowScript counts requests in the current window and reports how
// long until the window resets. INCR and EXPIRE run atomically so two
// concurrent requests cannot both start a window.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	local allowed = 0
	if count <= limit then
		allowed = 1
	end

	return {allowed, limit - count, ttl}
`)

// CheckRateLimit checks and updates the fixed-window counter for the given
// caller on the given route group. The limit is requests per 60 seconds.
func (c *Cache) CheckRateLimit(ctx context.Context, route, caller string, limit int) (*RateLimitResult, error) {
	key := fmt.Sprintf("%s%s:%s", rateLimitPrefix, route, caller)

	result, err := fixedWindowScript.Run(ctx, c.client,
		[]string{key},
		limit, windowSeconds,
	).Int64Slice()

	if err != nil {
		// Fail open on Redis errors - allow the request
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(limit),
			ResetAt:   time.Now().Add(windowSeconds * time.Second),
		}, err
	}

	allowed := result[0] == 1
	remaining := result[1]
	ttl := result[2]

	if remaining < 0 {
		remaining = 0
	}

	res := &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttl) * time.Second),
	}
	if !allowed {
		res.RetryAfter = time.Duration(ttl) * time.Second
	}

	return res, nil
}
