package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"go.uber.org/zap"
)

const cleanupInterval = 30 * time.Second

var _ FieldsCache = (*InMemoryFieldsCache)(nil)

// InMemoryFieldsCache implements FieldsCache with process-local storage.
// Suitable for single-instance deployments and as a fallback when Redis
// is unavailable.
type InMemoryFieldsCache struct {
	entries    sync.Map // map[string]*fieldsEntry
	defaultTTL time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	hits   int64
	misses int64
}

type fieldsEntry struct {
	scan      *docgen.ScanResult
	expiresAt time.Time
}

func (e *fieldsEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryFieldsCacheOption is a functional option for configuring the cache
type InMemoryFieldsCacheOption func(*InMemoryFieldsCache)

// WithInMemoryTTL sets the default entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryFieldsCacheOption {
	return func(c *InMemoryFieldsCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryFieldsCacheOption {
	return func(c *InMemoryFieldsCache) {
		c.logger = logger
	}
}

// NewInMemoryFieldsCache creates an in-memory field scan cache with a
// background sweeper for expired entries.
func NewInMemoryFieldsCache(opts ...InMemoryFieldsCacheOption) *InMemoryFieldsCache {
	cache := &InMemoryFieldsCache{
		defaultTTL: DefaultFieldTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns the cached scan, or nil on a miss.
func (c *InMemoryFieldsCache) Get(ctx context.Context, templateID uuid.UUID, revision int) (*docgen.ScanResult, error) {
	key := fieldsCacheKey(templateID, revision)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*fieldsEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.scan, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a scan result; ttl 0 means the default TTL.
func (c *InMemoryFieldsCache) Set(ctx context.Context, templateID uuid.UUID, revision int, scan *docgen.ScanResult, ttl time.Duration) error {
	if scan == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.entries.Store(fieldsCacheKey(templateID, revision), &fieldsEntry{
		scan:      scan,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete drops the cached scan for one template revision.
func (c *InMemoryFieldsCache) Delete(ctx context.Context, templateID uuid.UUID, revision int) error {
	c.entries.Delete(fieldsCacheKey(templateID, revision))
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *InMemoryFieldsCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters.
func (c *InMemoryFieldsCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of live entries.
func (c *InMemoryFieldsCache) Count() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *InMemoryFieldsCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*fieldsEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired field scan entries",
					zap.Int("removed", removed))
			}
		}
	}
}
