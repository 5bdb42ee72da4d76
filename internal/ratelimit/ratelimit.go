// Package ratelimit throttles subscription sign-ups per client using Redis.
// The check-and-increment is a single Lua script so concurrent requests
// cannot race past the limit the way GET → check → INCR patterns do.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowLuaScript atomically checks the window counter and increments
// it only when the request is allowed. The key expires with the window.
const fixedWindowLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")
if current + 1 > limit then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// Limiter is a fixed-window per-key rate limiter backed by Redis.
type Limiter struct {
	redis  *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
	prefix string
}

// NewLimiter creates a limiter allowing limit requests per window per key.
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		redis:  client,
		script: redis.NewScript(fixedWindowLuaScript),
		limit:  limit,
		window: window,
		prefix: "ratelimit:subscribe:",
	}
}

// NewLimiterFromURL creates a limiter by connecting to Redis.
func NewLimiterFromURL(redisURL string, limit int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewLimiter(redis.NewClient(opts), limit, window), nil
}

// Allow reports whether one more request for key fits in the current window.
// A Redis failure is returned to the caller, which decides whether to fail
// open or closed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	ttl := int(l.window.Seconds())
	if ttl < 1 {
		ttl = 1
	}
	res, err := l.script.Run(ctx, l.redis, []string{l.prefix + key}, l.limit, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("running rate limit script: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 1 {
		return false, fmt.Errorf("unexpected rate limit script result: %v", res)
	}
	allowed, ok := vals[0].(int64)
	if !ok {
		return false, fmt.Errorf("unexpected rate limit script result: %v", res)
	}
	return allowed == 1, nil
}
