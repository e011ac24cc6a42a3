package core

import (
	"context"
)

// ImageAnalyzer defines the interface for extracting signals from an image
type ImageAnalyzer interface {
	// AnalyzeImage runs label detection, OCR and face detection on the
	// image bytes. Failures are reported as ErrAnalysisUnavailable or
	// ErrAnalysisInput so the caller can degrade instead of aborting.
	AnalyzeImage(ctx context.Context, image []byte, filename string) (*AnalysisResult, error)
}

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves a cached entry for a content key
	Get(ctx context.Context, contentKey string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, contentKey string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// CallCounter is implemented by analyzers that count the external API calls
// they issued. The report uses it for the cost estimate.
type CallCounter interface {
	APICallCount() int64
}
