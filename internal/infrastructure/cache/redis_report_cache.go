package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/legumemart/backend/internal/application/report"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// scanBatch is the COUNT hint used when walking keys for invalidation
const scanBatch = 100

// RedisReportCache stores msgpack-encoded reports in Redis so every instance
// sees the same cached roll-ups and the same invalidations
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache creates a report cache on an existing client
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client}
}

// Get decodes the cached value into dest. A missing key is a miss, not an error.
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached report: %w", err)
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

// Set encodes value and stores it with ttl
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix, walking the keyspace
// with SCAN rather than KEYS
func (c *RedisReportCache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached reports: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached reports: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ensure RedisReportCache implements ReportCache
var _ report.ReportCache = (*RedisReportCache)(nil)
