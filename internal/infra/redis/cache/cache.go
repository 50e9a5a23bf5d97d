package infra_redis_cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

// Cache stores JSON-encoded values under a shared key prefix.
type Cache[T any] struct {
	client *redis.Client
	prefix string
}

func New[T any](client *redis.Client, prefix string) *Cache[T] {
	return &Cache[T]{client: client, prefix: prefix}
}

func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	raw, err := c.client.WithContext(ctx).Get(c.fullKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return v, true, nil
}

func (c *Cache[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.WithContext(ctx).Set(c.fullKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Cache[T]) fullKey(key string) string {
	if c.prefix != "" {
		return c.prefix + ":" + key
	}
	return key
}
