package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:login:"

// RedisLimiter is a fixed-window limiter backed by a shared Redis instance.
// INCR is atomic, so concurrent attempts against the same key never lose updates.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	period time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter allowing limit attempts per period.
func NewRedisLimiter(client *redis.Client, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		period: period,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (Result, error) {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: incr: %w", err)
	}

	// First attempt in the window starts the clock.
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.period).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit: expire: %w", err)
		}
	}

	if count <= l.limit {
		return Result{Allowed: true}, nil
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.period
	}
	return Result{RetryAfter: ttl}, nil
}
