package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore shares the limiter state between instances. The key lives
// for one window; SET NX admits only the first attempt.
type RedisStore struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisStore(rdb *redis.Client, window time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, window: window}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	const op = "ratelimit.RedisStore.Allow"

	ok, err := s.rdb.SetNX(ctx, redisKeyPrefix+key, time.Now().UnixMilli(), s.window).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// NewRedisClient connects using a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	const op = "ratelimit.NewRedisClient"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rdb, nil
}
