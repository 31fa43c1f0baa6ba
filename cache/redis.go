package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore backs the TTL cache with redis so multiple instances share one
// cache. Redis misses and errors both read as cache misses.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	// Best effort: a failed write just means the next read recomputes.
	s.client.Set(ctx, key, value, ttl)
}
