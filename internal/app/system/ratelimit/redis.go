package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared by every process that
// talks to the same Redis. Each window is one key: INCR, and on the first
// hit set a TTL slightly longer than the window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedis returns a Redis-backed limiter. prefix namespaces the keys.
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (l *RedisLimiter) bucketKey(key string) string {
	secs := int64(l.window / time.Second)
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, l.now().Unix()/secs)
}

// Take implements Backend.
func (l *RedisLimiter) Take(ctx context.Context, key string) (bool, error) {
	k := l.bucketKey(key)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window+time.Second).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}

// Clear implements Backend.
func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.bucketKey(key)).Err()
}

// Window implements Backend.
func (l *RedisLimiter) Window() time.Duration { return l.window }
