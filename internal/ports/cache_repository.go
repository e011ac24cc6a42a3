package ports

import (
	"context"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves a cached entry for a content key
	Get(ctx context.Context, contentKey string) (*core.CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *core.CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, contentKey string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
