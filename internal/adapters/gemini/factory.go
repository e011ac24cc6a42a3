package gemini

import (
	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	cfg        *config.Config
	logger     *zap.Logger
	normalizer *utils.TextNormalizer
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, normalizer *utils.TextNormalizer) *Factory {
	return &Factory{
		cfg:        cfg,
		logger:     logger,
		normalizer: normalizer,
	}
}

// CreateClient creates a new GeminiClient
func (f *Factory) CreateClient() (core.ImageAnalyzer, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewGeminiClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxImageSize,
		f.normalizer,
		f.logger,
	)
}
