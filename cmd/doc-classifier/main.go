package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/di"
	"github.com/jafonso/vision-doc-classifier/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	pipeline ports.DocumentPipeline,
	analyzer core.ImageAnalyzer,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Cancel the run on SIGINT/SIGTERM. The pipeline drains its workers and
	// still writes the attachments classified so far.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, stopping run", zap.String("signal", sig.String()))
		cancel()
	}()

	runErr := pipeline.Run(ctx)

	// Close any resources that need closing
	if closer, ok := analyzer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close image analyzer", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if runErr != nil {
		logger.Error("Classification run failed", zap.Error(runErr))
		return runErr
	}

	return nil
}
