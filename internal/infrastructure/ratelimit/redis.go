package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps bucket state in Redis so multiple server instances share
// one window per key. INCR is atomic on the server, which gives the same
// no-overrun guarantee the in-memory limiter gets from its lock.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	storageKey := l.prefix + key

	count, err := l.client.Incr(ctx, storageKey).Result()
	if err != nil {
		return Decision{}, err
	}

	// First hit of a fresh window owns setting the expiry.
	if count == 1 {
		if err := l.client.PExpire(ctx, storageKey, window).Err(); err != nil {
			return Decision{}, err
		}
	}

	ttl, err := l.client.PTTL(ctx, storageKey).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		// Expiry was lost (e.g. a flush between INCR and PTTL); repair it.
		ttl = window
		_ = l.client.PExpire(ctx, storageKey, window).Err()
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(limit) {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	return Decision{Allowed: true, Remaining: limit - int(count), ResetAt: resetAt}, nil
}
