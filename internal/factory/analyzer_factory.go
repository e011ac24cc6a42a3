package factory

import (
	"fmt"

	"github.com/jafonso/vision-doc-classifier/internal/adapters/bedrock"
	"github.com/jafonso/vision-doc-classifier/internal/adapters/gemini"
	"github.com/jafonso/vision-doc-classifier/internal/adapters/openai"
	"github.com/jafonso/vision-doc-classifier/internal/adapters/stub"
	"github.com/jafonso/vision-doc-classifier/internal/adapters/vision"
	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
)

// AnalyzerFactory creates image analyzers
type AnalyzerFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	normalizer *utils.TextNormalizer
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger, normalizer *utils.TextNormalizer) *AnalyzerFactory {
	return &AnalyzerFactory{
		cfg:        cfg,
		logger:     logger,
		normalizer: normalizer,
	}
}

// CreateAnalyzer creates a new image analyzer based on the configuration
func (f *AnalyzerFactory) CreateAnalyzer() (core.ImageAnalyzer, error) {
	analyzerConfig := f.cfg.GetAnalyzer()

	switch analyzerConfig.Provider {
	case "vision":
		factory := vision.NewFactory(f.cfg, f.logger, f.normalizer)
		return factory.CreateClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.normalizer)
		return factory.CreateClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.normalizer)
		return factory.CreateClient()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.normalizer)
		return factory.CreateClient()
	case "stub":
		return stub.NewClient(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported analyzer provider: %s", analyzerConfig.Provider)
	}
}
