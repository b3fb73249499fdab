package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter backed by Redis, safe across
// replicas. Each key counts in a bucket named after the current window index.
type RedisLimiter struct {
	redis *redis.Client
}

// NewRedisLimiter connects to the given redis URL and pings it.
func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &RedisLimiter{redis: client}, nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	windowKey := bucketKey(key, time.Now(), window)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

// bucketKey names the fixed window containing now. Indexing by nanoseconds
// keeps sub-second windows valid; a non-positive window collapses to a single
// bucket instead of dividing by zero.
func bucketKey(key string, now time.Time, window time.Duration) string {
	var bucket int64
	if window > 0 {
		bucket = now.UnixNano() / int64(window)
	}
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}

// Close releases the underlying redis connection.
func (rl *RedisLimiter) Close() error {
	return rl.redis.Close()
}
