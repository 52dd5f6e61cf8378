package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/swipe-quiz/internal/platform/cache"
)

const redisKeyPrefix = "quiz:session:"

// RedisStore keeps each session in one Redis hash with a sliding expiry.
type RedisStore struct {
	cache  *cache.Cache
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive ttl
// uses DefaultTTL.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{cache: c, client: c.Client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, redisKey(scope), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, scope, key, value string) error {
	k := redisKey(scope)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, redisKey(scope)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.cache.HealthCheck(ctx)
}

func redisKey(scope string) string {
	return redisKeyPrefix + scope
}
