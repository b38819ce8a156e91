package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.RateLimiter = (*Limiter)(nil)

const ratelimitPrefix = "telepost:ratelimit:"

// Limiter implements RateLimiter using a fixed-window counter per caller
// key. Counters live in Redis so the budget holds across instances.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLimiter creates a Redis-backed rate limiter allowing limit requests
// per window for each key.
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

// windowScript is a Lua script that increments the caller's counter and
// stamps the window TTL on the first hit, atomically.
var windowScript = redis.NewScript(`
	local current = redis.call("incr", KEYS[1])
	if current == 1 then
		redis.call("pexpire", KEYS[1], ARGV[1])
	end
	return current
`)

// Allow consumes one unit of the caller's budget for the current window.
// Fails open: a Redis error reports allowed alongside the error so an
// unreachable limiter never blocks traffic.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := ratelimitPrefix + key
	result, err := windowScript.Run(ctx, l.client, []string{k}, l.window.Milliseconds()).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit %s: %w", key, err)
	}
	count, ok := result.(int64)
	if !ok {
		return true, fmt.Errorf("rate limit %s: unexpected script result %T", key, result)
	}
	return count <= l.limit, nil
}

// Ping checks if the Redis backend is healthy.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
