// Package cache provides caching for template field scans. Scanning a
// docx archive means unzipping and regexing every part, so the result is
// cached keyed by template id and revision.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
)

// DefaultFieldTTL bounds how long a scan result stays cached when the
// configuration does not say otherwise.
const DefaultFieldTTL = 10 * time.Minute

// FieldsCache caches the placeholder scan of a template file. Keys include
// the template revision, so replacing a file never serves a stale scan.
type FieldsCache interface {
	// Get returns the cached scan, or nil on a miss
	Get(ctx context.Context, templateID uuid.UUID, revision int) (*docgen.ScanResult, error)

	// Set stores a scan result; ttl 0 means the default TTL
	Set(ctx context.Context, templateID uuid.UUID, revision int, scan *docgen.ScanResult, ttl time.Duration) error

	// Delete drops the cached scan for one template revision
	Delete(ctx context.Context, templateID uuid.UUID, revision int) error

	// Close releases any resources held by the cache
	Close() error
}
