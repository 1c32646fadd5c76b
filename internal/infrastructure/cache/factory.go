package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/infrastructure/auth"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the state the API instances must agree on: claimed
// idempotency keys and revoked tokens.
type Stores struct {
	Idempotency shared.IdempotencyStore
	Blacklist   auth.TokenBlacklist
	Backend     string
}

// Close releases the idempotency store and, through it, the Redis client
func (s *Stores) Close() error {
	if s.Idempotency == nil {
		return nil
	}
	return s.Idempotency.Close()
}

// StoreFactory creates the stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(context.Context, config.RedisConfig) (*redis.Client, error)
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStores returns Redis-backed stores when Redis is enabled and
// reachable, in-memory stores otherwise.
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory idempotency store and token blacklist")
		return f.inMemory(), nil
	}

	client, err := f.connect(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis idempotency store and token blacklist",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port),
		)
		return &Stores{
			Idempotency: NewRedisIdempotencyStore(client, ""),
			Blacklist:   auth.NewRedisTokenBlacklist(client),
			Backend:     "redis",
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Idempotency keys and revoked tokens are not shared between instances.",
		zap.Error(err),
	)
	return f.inMemory(), nil
}

func (f *StoreFactory) inMemory() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
		Backend:     "memory",
	}
}
