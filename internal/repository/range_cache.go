// Package repository provides the Redis-backed cache for Pwned Passwords
// range responses.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRangeTTL is how long a cached range body stays valid.
const DefaultRangeTTL = 24 * time.Hour

const rangeKeyPrefix = "hibp:range:"

// RedisRangeCache stores range bodies keyed by SHA-1 prefix.
type RedisRangeCache struct {
	// RDB is the Redis client used for all commands.
	RDB *redis.Client
	// TTL applies to every stored body.
	TTL time.Duration
}

// NewRedisRangeCache creates a RedisRangeCache; a non-positive ttl selects
// DefaultRangeTTL.
func NewRedisRangeCache(rdb *redis.Client, ttl time.Duration) *RedisRangeCache {
	if ttl <= 0 {
		ttl = DefaultRangeTTL
	}
	return &RedisRangeCache{RDB: rdb, TTL: ttl}
}

func rangeKey(prefix string) string {
	return rangeKeyPrefix + prefix
}

// Get returns the cached body for prefix. A miss is ("", false, nil).
func (c *RedisRangeCache) Get(ctx context.Context, prefix string) (string, bool, error) {
	body, err := c.RDB.Get(ctx, rangeKey(prefix)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get range %s: %w", prefix, err)
	}
	return body, true, nil
}

// Set stores body for prefix with the cache TTL.
func (c *RedisRangeCache) Set(ctx context.Context, prefix, body string) error {
	if err := c.RDB.Set(ctx, rangeKey(prefix), body, c.TTL).Err(); err != nil {
		return fmt.Errorf("set range %s: %w", prefix, err)
	}
	return nil
}
