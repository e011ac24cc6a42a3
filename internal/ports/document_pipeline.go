package ports

import "context"

// DocumentPipeline defines the interface for running a classification pass
// over an email collection
type DocumentPipeline interface {
	// Run loads the collection, classifies its attachments and persists the result
	Run(ctx context.Context) error
}
