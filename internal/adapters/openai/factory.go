package openai

import (
	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg        *config.Config
	logger     *zap.Logger
	normalizer *utils.TextNormalizer
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, normalizer *utils.TextNormalizer) *Factory {
	return &Factory{
		cfg:        cfg,
		logger:     logger,
		normalizer: normalizer,
	}
}

// CreateClient creates a new OpenAIClient
func (f *Factory) CreateClient() (core.ImageAnalyzer, error) {
	// Get OpenAI config
	openaiCfg := f.cfg.GetOpenAI()

	// Create OpenAI client
	client := openai.NewClient(openaiCfg.APIKey)

	return NewOpenAIClient(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxImageSize,
		f.normalizer,
		f.logger,
	), nil
}
