package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/gmail"
	"github.com/jafonso/vision-doc-classifier/internal/logging"
	"github.com/jafonso/vision-doc-classifier/internal/storage"
)

var (
	label       = flag.String("label", "", "Gmail label to extract (overrides config)")
	maxResults  = flag.Int64("max-results", 0, "Maximum number of messages to fetch (overrides config)")
	outputFile  = flag.String("output", "", "Corpus JSON output path (overrides config)")
	outputDir   = flag.String("output-dir", "", "Directory for downloaded attachments (overrides config)")
	credentials = flag.String("credentials", "", "OAuth client credentials file (overrides config)")
	tokenFile   = flag.String("token", "", "Cached OAuth token file (overrides config)")
)

func main() {
	// A .env file is optional; it feeds DOC_CLASSIFIER_* variables in development
	_ = godotenv.Load()
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Extraction failed", zap.Error(err))
	}
}

// applyFlagOverrides writes explicitly set flags over the loaded
// configuration, so the binary stays usable without a config file.
func applyFlagOverrides(cfg *config.Config) {
	v := cfg.GetViper()
	if *label != "" {
		v.Set("gmail.label", *label)
	}
	if *maxResults > 0 {
		v.Set("gmail.max_results", *maxResults)
	}
	if *outputFile != "" {
		v.Set("gmail.output_file", *outputFile)
	}
	if *outputDir != "" {
		v.Set("gmail.output_dir", *outputDir)
	}
	if *credentials != "" {
		v.Set("gmail.credentials_file", *credentials)
	}
	if *tokenFile != "" {
		v.Set("gmail.token_file", *tokenFile)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()
	gmailCfg := cfg.GetGmail()

	service, err := gmail.NewService(ctx, gmailCfg.CredentialsFile, gmailCfg.TokenFile, logger)
	if err != nil {
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	client := gmail.NewClient(service, logger, gmailCfg.OutputDir)

	labelID, err := client.FindLabelID(gmailCfg.Label)
	if err != nil {
		return err
	}
	logger.Info("Found label",
		zap.String("label", gmailCfg.Label),
		zap.String("id", labelID))

	ids, err := client.ListMessageIDs(labelID, gmailCfg.MaxResults)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}
	logger.Info("Listed messages", zap.Int("count", len(ids)))

	collection := &core.EmailCollection{Emails: []*core.Email{}}
	for i, id := range ids {
		email, err := client.FetchEmail(id)
		if err != nil {
			logger.Warn("Skipping message",
				zap.String("id", id),
				zap.Error(err))
			continue
		}
		collection.Emails = append(collection.Emails, email)
		logger.Info("Processed email",
			zap.Int("current", i+1),
			zap.Int("total", len(ids)),
			zap.String("from", email.From),
			zap.Int("attachments", len(email.Attachments)))
	}

	collection.Metadata = core.CollectionMetadata{
		TotalEmails: len(collection.Emails),
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		LabelUsed:   gmailCfg.Label,
	}
	storage.AssignIDs(collection)

	if err := storage.SaveCollection(gmailCfg.OutputFile, collection); err != nil {
		return fmt.Errorf("failed to save email collection: %w", err)
	}

	logger.Info("Extraction complete",
		zap.Int("emails", len(collection.Emails)),
		zap.String("output", gmailCfg.OutputFile))
	return nil
}
