package factory

import (
	"github.com/jafonso/vision-doc-classifier/internal/adapters/pipeline"
	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/ports"
	"go.uber.org/zap"
)

// PipelineFactory creates document pipelines based on configuration
type PipelineFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *core.BatchProcessor
	analyzer  core.ImageAnalyzer
}

// NewPipelineFactory creates a new pipeline factory
func NewPipelineFactory(cfg *config.Config, logger *zap.Logger, processor *core.BatchProcessor, analyzer core.ImageAnalyzer) *PipelineFactory {
	return &PipelineFactory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
		analyzer:  analyzer,
	}
}

// CreateDocumentPipeline creates a document pipeline based on the configuration
func (f *PipelineFactory) CreateDocumentPipeline() (ports.DocumentPipeline, error) {
	batchCfg := f.cfg.GetBatch()

	return pipeline.NewBatchPipeline(
		f.processor,
		f.analyzer,
		f.logger,
		batchCfg.InputFile,
		batchCfg.OutputFile,
		batchCfg.Report,
	), nil
}
