package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed [Store] for headless deployments of the SDK
// (bots, background agents) where credentials must survive process restarts
// and may be shared with other tooling.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a [RedisStore] using the given client. prefix
// namespaces the credential keys.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ra"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation or dependency calls fail.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation or dependency calls fail.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Remove describes the remove operation and its observable behavior.
//
// Remove may return an error when input validation or dependency calls fail.
func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = s.key(k)
	}

	if err := s.redis.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
