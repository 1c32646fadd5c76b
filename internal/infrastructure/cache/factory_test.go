package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func unreachable(context.Context, config.RedisConfig) (*redis.Client, error) {
	return nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}

func TestStoreFactory_RedisDisabled(t *testing.T) {
	f := NewStoreFactory(config.RedisConfig{Enabled: false})
	f.connect = func(context.Context, config.RedisConfig) (*redis.Client, error) {
		t.Fatal("must not dial Redis when disabled")
		return nil, nil
	}

	stores, err := f.CreateStores(context.Background())
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, "memory", stores.Backend)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, stores.Blacklist)
}

func TestStoreFactory_FallsBackWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewStoreFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379}, WithLogger(zap.New(core)))
	f.connect = unreachable

	stores, err := f.CreateStores(context.Background())
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, "memory", stores.Backend)
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestStoreFactory_RequiresRedisWithoutFallback(t *testing.T) {
	f := NewStoreFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379}, WithInMemoryFallback(false))
	f.connect = unreachable

	stores, err := f.CreateStores(context.Background())
	assert.Nil(t, stores)
	assert.ErrorContains(t, err, "redis required but unavailable")
}

func TestStores_CloseWithoutStore(t *testing.T) {
	assert.NoError(t, (&Stores{}).Close())
}
