package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ FieldsCache = (*RedisFieldsCache)(nil)

// RedisFieldsCache implements FieldsCache on Redis, shared across instances.
type RedisFieldsCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisFieldsCacheOption is a functional option for configuring the cache
type RedisFieldsCacheOption func(*RedisFieldsCache)

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisFieldsCacheOption {
	return func(c *RedisFieldsCache) {
		c.logger = logger
	}
}

// NewRedisFieldsCache connects to Redis and returns a field scan cache.
func NewRedisFieldsCache(cfg config.RedisConfig, opts ...RedisFieldsCacheOption) (*RedisFieldsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.FieldTTL
	if ttl <= 0 {
		ttl = DefaultFieldTTL
	}

	cache := &RedisFieldsCache{
		client:     client,
		ownsClient: true,
		defaultTTL: ttl,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisFieldsCacheWithClient wraps an existing Redis client. The caller
// retains ownership of the client and is responsible for closing it.
func NewRedisFieldsCacheWithClient(client *redis.Client, defaultTTL time.Duration, opts ...RedisFieldsCacheOption) *RedisFieldsCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultFieldTTL
	}
	cache := &RedisFieldsCache{
		client:     client,
		ownsClient: false,
		defaultTTL: defaultTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func fieldsCacheKey(templateID uuid.UUID, revision int) string {
	return fmt.Sprintf("template_fields:%s:v%d", templateID, revision)
}

// Get returns the cached scan, or nil on a miss.
func (c *RedisFieldsCache) Get(ctx context.Context, templateID uuid.UUID, revision int) (*docgen.ScanResult, error) {
	key := fieldsCacheKey(templateID, revision)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for template fields",
			zap.String("template_id", templateID.String()),
			zap.Int("revision", revision))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fields from cache: %w", err)
	}

	var scan docgen.ScanResult
	if err := json.Unmarshal(data, &scan); err != nil {
		c.logger.Error("Failed to unmarshal cached field scan",
			zap.String("template_id", templateID.String()),
			zap.Error(err))
		// Drop the corrupted entry
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal field scan: %w", err)
	}

	c.logger.Debug("Cache hit for template fields",
		zap.String("template_id", templateID.String()),
		zap.Int("revision", revision))
	return &scan, nil
}

// Set stores a scan result; ttl 0 means the default TTL.
func (c *RedisFieldsCache) Set(ctx context.Context, templateID uuid.UUID, revision int, scan *docgen.ScanResult, ttl time.Duration) error {
	if scan == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("failed to marshal field scan: %w", err)
	}

	key := fieldsCacheKey(templateID, revision)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set fields in cache: %w", err)
	}

	c.logger.Debug("Cached template fields",
		zap.String("template_id", templateID.String()),
		zap.Int("revision", revision),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete drops the cached scan for one template revision.
func (c *RedisFieldsCache) Delete(ctx context.Context, templateID uuid.UUID, revision int) error {
	key := fieldsCacheKey(templateID, revision)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete fields from cache: %w", err)
	}
	return nil
}

// Close releases the Redis client if this cache created it.
func (c *RedisFieldsCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
