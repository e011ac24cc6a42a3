package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/report"
	"github.com/jafonso/vision-doc-classifier/internal/storage"
	"go.uber.org/zap"
)

// BatchPipeline classifies every image attachment referenced by a corpus
// file and writes the updated corpus back to disk.
type BatchPipeline struct {
	processor   *core.BatchProcessor
	analyzer    core.ImageAnalyzer
	logger      *zap.Logger
	inputFile   string
	outputFile  string
	printReport bool
}

// NewBatchPipeline creates a new batch pipeline
func NewBatchPipeline(
	processor *core.BatchProcessor,
	analyzer core.ImageAnalyzer,
	logger *zap.Logger,
	inputFile string,
	outputFile string,
	printReport bool,
) *BatchPipeline {
	return &BatchPipeline{
		processor:   processor,
		analyzer:    analyzer,
		logger:      logger,
		inputFile:   inputFile,
		outputFile:  outputFile,
		printReport: printReport,
	}
}

// Run executes one classification pass over the corpus. A cancelled context
// stops the workers early but still saves whatever progress was made.
func (p *BatchPipeline) Run(ctx context.Context) error {
	fmt.Printf("\n=== Document Classification ===\n")
	fmt.Printf("Input: %s\n", p.inputFile)
	fmt.Printf("Output: %s\n", p.outputFile)

	collection, err := storage.LoadCollection(p.inputFile)
	if err != nil {
		return err
	}
	if collection.Metadata.TotalEmails == 0 {
		collection.Metadata.TotalEmails = len(collection.Emails)
	}
	collection.Metadata.RunID = uuid.NewString()

	p.logger.Info("Starting classification run",
		zap.String("run_id", collection.Metadata.RunID),
		zap.Int("emails", len(collection.Emails)))

	stats := p.processor.Process(ctx, collection)
	if counter, ok := p.analyzer.(core.CallCounter); ok {
		stats.APICalls = counter.APICallCount()
	}

	if err := storage.SaveCollection(p.outputFile, collection); err != nil {
		return err
	}

	p.logger.Info("Classification run finished",
		zap.String("run_id", collection.Metadata.RunID),
		zap.String("output", p.outputFile))

	if p.printReport {
		report.Render(os.Stdout, collection)
	}

	return nil
}
