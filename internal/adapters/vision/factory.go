package vision

import (
	"context"

	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
)

// Factory creates Vision API clients
type Factory struct {
	cfg        *config.Config
	logger     *zap.Logger
	normalizer *utils.TextNormalizer
}

// NewFactory creates a new Vision factory
func NewFactory(cfg *config.Config, logger *zap.Logger, normalizer *utils.TextNormalizer) *Factory {
	return &Factory{
		cfg:        cfg,
		logger:     logger,
		normalizer: normalizer,
	}
}

// CreateClient creates a new Vision API client
func (f *Factory) CreateClient() (core.ImageAnalyzer, error) {
	visionCfg := f.cfg.GetVision()

	return NewClient(
		context.Background(),
		visionCfg.CredentialsFile,
		visionCfg.MaxLabels,
		visionCfg.MaxFaces,
		visionCfg.FaceTextThreshold,
		visionCfg.MaxImageSize,
		f.normalizer,
		f.logger,
	)
}
