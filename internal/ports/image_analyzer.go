package ports

import (
	"context"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

// ImageAnalyzer defines the interface for interacting with image analysis services
type ImageAnalyzer interface {
	// AnalyzeImage extracts labels, OCR text and face presence from an image
	AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error)
}
