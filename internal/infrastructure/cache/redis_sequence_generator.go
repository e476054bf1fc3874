package cache

import (
	"context"
	"fmt"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/redis/go-redis/v9"
)

const defaultSequencePrefix = "sequence:"

// RedisSequenceGenerator hands out document numbers with INCR. The counter is
// outside the database transaction, so a rolled back document leaves a gap.
type RedisSequenceGenerator struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSequenceGenerator creates a generator on an existing client
func NewRedisSequenceGenerator(client *redis.Client, keyPrefix string) *RedisSequenceGenerator {
	if keyPrefix == "" {
		keyPrefix = defaultSequencePrefix
	}
	return &RedisSequenceGenerator{client: client, keyPrefix: keyPrefix}
}

// Next increments and returns the counter for scope
func (g *RedisSequenceGenerator) Next(ctx context.Context, scope string) (int64, error) {
	value, err := g.client.Incr(ctx, g.keyPrefix+scope).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", scope, err)
	}
	return value, nil
}

// Ensure RedisSequenceGenerator implements SequenceGenerator
var _ inventory.SequenceGenerator = (*RedisSequenceGenerator)(nil)
