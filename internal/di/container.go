package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/factory"
	"github.com/jafonso/vision-doc-classifier/internal/logging"
	"github.com/jafonso/vision-doc-classifier/internal/ports"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text normalizer
	if err := container.Provide(utils.NewTextNormalizer); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPipelineFactory); err != nil {
		return nil, err
	}

	// Register image analyzer
	if err := container.Provide(func(f *factory.AnalyzerFactory) (core.ImageAnalyzer, error) {
		return f.CreateAnalyzer()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register attachment base path
	if err := container.Provide(func(cfg *config.Config) string {
		return cfg.GetString("batch.base_path")
	}); err != nil {
		return nil, err
	}

	// Register keyword classifier
	if err := container.Provide(func(cfg *config.Config, normalizer *utils.TextNormalizer, logger *zap.Logger) *core.KeywordClassifier {
		classifierCfg := cfg.GetClassifier()
		if len(classifierCfg.UtilityCompanies) > 0 {
			logger.Info("Loaded utility company list",
				zap.Int("count", len(classifierCfg.UtilityCompanies)))
		}
		return core.NewKeywordClassifier(normalizer, classifierCfg.UtilityCompanies, classifierCfg.LittleTextThreshold)
	}); err != nil {
		return nil, err
	}

	// Register document classifier service
	if err := container.Provide(core.NewDocumentClassifierService); err != nil {
		return nil, err
	}

	// Register batch processor
	if err := container.Provide(func(service *core.DocumentClassifierService, cfg *config.Config, logger *zap.Logger) *core.BatchProcessor {
		batchCfg := cfg.GetBatch()
		return core.NewBatchProcessor(service, logger, batchCfg.MaxConcurrency, batchCfg.ManualReviewOnly)
	}); err != nil {
		return nil, err
	}

	// Register document pipeline
	if err := container.Provide(func(f *factory.PipelineFactory) (ports.DocumentPipeline, error) {
		return f.CreateDocumentPipeline()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
