package core

import "errors"

// Analyzer failures are split into two classes so the classifier can record
// an accurate cause. Both degrade to manual review; neither aborts a batch.
var (
	// ErrAnalysisUnavailable indicates a transient provider failure:
	// network errors, auth problems, quota exhaustion, 5xx responses.
	ErrAnalysisUnavailable = errors.New("image analysis unavailable")

	// ErrAnalysisInput indicates the image bytes themselves were rejected
	// by the provider or could not be read from disk.
	ErrAnalysisInput = errors.New("image not analyzable")
)
