package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript prunes, counts and records in one atomic step.
// KEYS[1] key; ARGV now(ms), window(ms), max, member.
// Returns {allowed, retryAfterMs}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) >= max then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry = window
	if oldest[2] then
		retry = tonumber(oldest[2]) + window - now
	end
	return {0, retry}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, 0}
`)

// Redis is a Limiter shared by every instance that talks to the same Redis.
// Keys expire with their window, so no sweep is needed.
type Redis struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedis creates a Redis-backed limiter. Keys are stored under prefix.
func NewRedis(client redis.Scripter, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

var _ Limiter = (*Redis)(nil)

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, policy Policy, clientKey string) (Decision, error) {
	now := r.now()

	res, err := slidingWindowScript.Run(ctx, r.client,
		[]string{r.prefix + key(policy, clientKey)},
		now.UnixMilli(),
		policy.Window.Milliseconds(),
		policy.Max,
		fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate rate limit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limit reply: %v", res)
	}

	if res[0] == 1 {
		return Decision{Allowed: true}, nil
	}
	return Decision{RetryAfter: time.Duration(res[1]) * time.Millisecond}, nil
}
