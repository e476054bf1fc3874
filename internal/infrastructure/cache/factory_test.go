package cache

import (
	"errors"
	"testing"

	"github.com/legumemart/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func unreachable(config.RedisConfig) (*redis.Client, error) {
	return nil, errors.New("connection refused")
}

func TestReportCacheFactory_CreateStore(t *testing.T) {
	cfg := config.RedisConfig{Host: "localhost", Port: 6379}

	t.Run("falls back to in-memory by default", func(t *testing.T) {
		f := NewReportCacheFactory(cfg, WithLogger(zaptest.NewLogger(t)))
		f.connect = unreachable

		store, client, err := f.CreateStore()
		require.NoError(t, err)
		assert.Nil(t, client)
		mem, ok := store.(*InMemoryReportCache)
		require.True(t, ok)
		assert.NoError(t, mem.Close())
	})

	t.Run("fails when fallback is disabled", func(t *testing.T) {
		f := NewReportCacheFactory(cfg, WithInMemoryFallback(false))
		f.connect = unreachable

		store, client, err := f.CreateStore()
		require.Error(t, err)
		assert.Nil(t, store)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("uses Redis when reachable", func(t *testing.T) {
		fake := redis.NewClient(&redis.Options{Addr: cfg.Addr()})
		defer fake.Close()

		f := NewReportCacheFactory(cfg)
		f.connect = func(config.RedisConfig) (*redis.Client, error) { return fake, nil }

		store, client, err := f.CreateStore()
		require.NoError(t, err)
		assert.Same(t, fake, client)
		_, ok := store.(*RedisReportCache)
		assert.True(t, ok)
	})
}
