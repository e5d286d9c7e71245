package cache

import (
	"fmt"

	"github.com/jurisdoc/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FieldsCacheFactory creates the field scan cache, preferring Redis and
// optionally falling back to the in-memory cache when Redis is down.
type FieldsCacheFactory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// FieldsCacheFactoryOption is a functional option for configuring the factory
type FieldsCacheFactoryOption func(*FieldsCacheFactory)

// WithFactoryLogger sets the logger for the factory
func WithFactoryLogger(logger *zap.Logger) FieldsCacheFactoryOption {
	return func(f *FieldsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FieldsCacheFactoryOption {
	return func(f *FieldsCacheFactory) {
		f.allowFallback = allow
	}
}

// NewFieldsCacheFactory creates a new factory
func NewFieldsCacheFactory(cfg config.RedisConfig, opts ...FieldsCacheFactoryOption) *FieldsCacheFactory {
	f := &FieldsCacheFactory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache tries Redis first and falls back to in-memory if allowed.
// In-memory entries are local to one process, so a multi-instance
// deployment should require Redis.
func (f *FieldsCacheFactory) CreateCache() (FieldsCache, error) {
	cache, err := NewRedisFieldsCache(f.redisConfig, WithRedisLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis template fields cache")
		return cache, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("Redis required for fields cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory template fields cache",
		zap.Error(err))
	return NewInMemoryFieldsCache(
		WithInMemoryTTL(f.redisConfig.FieldTTL),
		WithInMemoryLogger(f.logger),
	), nil
}
