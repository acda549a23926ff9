package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// searchTTL keeps upstream catalog responses warm without letting them
// go stale for long.
const searchTTL = 10 * time.Minute

// SearchKey builds the Redis key for a cached catalog lookup.
func SearchKey(kind, query string) string {
	return fmt.Sprintf("search:%s:%s", kind, query)
}

// GetCachedSearch returns a cached upstream response body, if present.
func GetCachedSearch(ctx context.Context, key string) ([]byte, bool, error) {
	if RedisClient == nil {
		return nil, false, fmt.Errorf("Redis client not initialized")
	}

	val, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached search: %w", err)
	}
	return val, true, nil
}

// CacheSearch stores an upstream response body with the standard TTL.
func CacheSearch(ctx context.Context, key string, payload []byte) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := RedisClient.Set(ctx, key, payload, searchTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache search result: %w", err)
	}
	return nil
}
