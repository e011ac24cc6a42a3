package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jafonso/vision-doc-classifier/internal/config"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/factory"
	"github.com/jafonso/vision-doc-classifier/internal/logging"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
)

var (
	// Analyzer provider flags
	provider     = flag.String("provider", "vision", "Image analyzer provider (vision, gemini, bedrock, openai, stub)")
	maxTokens    = flag.Int("max-tokens", 1000, "Maximum tokens for multimodal model responses")
	temperature  = flag.Float64("temperature", 0.1, "Temperature for multimodal model generation")
	topP         = flag.Float64("top-p", 0.9, "Top-p for multimodal model generation")
	maxImageSize = flag.Int("max-image-size", 10485760, "Maximum image size in bytes sent for analysis")

	// Vision flags
	visionCredentials = flag.String("vision-credentials", "", "Google Cloud credentials file (empty for application default credentials)")
	maxLabels         = flag.Int("max-labels", 10, "Maximum labels requested from the Vision API")
	maxFaces          = flag.Int("max-faces", 5, "Maximum faces requested from the Vision API")
	faceTextThreshold = flag.Int("face-text-threshold", 10, "Run face detection only when OCR found fewer characters than this")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Classification flags
	littleTextThreshold = flag.Int("little-text-threshold", 50, "OCR text length below which utility bill detection is skipped")

	// Input flags
	inputFile  = flag.String("file", "", "Attachment image to classify")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	if *inputFile == "" {
		logger.Fatal("No input file specified (use -file)")
	}

	// Initialize image analyzer
	normalizer := utils.NewTextNormalizer()
	analyzerFactory := factory.NewAnalyzerFactory(cfg, logger, normalizer)
	analyzer, err := analyzerFactory.CreateAnalyzer()
	if err != nil {
		logger.Fatal("Failed to create image analyzer", zap.Error(err))
	}

	// Build the keyword rule table
	classifierCfg := cfg.GetClassifier()
	classifier := core.NewKeywordClassifier(normalizer, classifierCfg.UtilityCompanies, classifierCfg.LittleTextThreshold)

	// Read the attachment
	image, err := os.ReadFile(*inputFile)
	if err != nil {
		logger.Fatal("Failed to read input file", zap.Error(err), zap.String("file", *inputFile))
	}
	filename := filepath.Base(*inputFile)

	// Print attachment summary
	fmt.Printf("\n=== Attachment ===\n")
	fmt.Printf("File: %s\n", *inputFile)
	fmt.Printf("MIME type: %s\n", utils.ImageMIME(filename))
	fmt.Printf("Size: %d bytes\n", len(image))
	fmt.Printf("\n")

	// Classify attachment
	fmt.Printf("=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("analyzer.provider"))
	fmt.Printf("Little text threshold: %d\n", classifierCfg.LittleTextThreshold)

	startTime := time.Now()

	// Check the filename before paying for content analysis
	if tag, ok := core.MatchFilename(filename); ok {
		fmt.Printf("\n=== Results ===\n")
		fmt.Printf("Tags: %s\n", tag)
		fmt.Printf("Source: %s (filename matched before content analysis)\n", core.SourceFilename)
		fmt.Printf("Processing time: %v\n", time.Since(startTime))
		return
	}

	result, err := analyzer.AnalyzeImage(context.Background(), image, filename)
	if err != nil {
		logger.Fatal("Failed to analyze image", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Print what the analyzer saw
	fmt.Printf("\n=== Image Analysis ===\n")
	for _, label := range result.Labels {
		fmt.Printf("Label: %s (%.2f)\n", label.Description, label.Score)
	}
	fmt.Printf("Face present: %t\n", result.FacePresent)
	fmt.Printf("Text length: %d chars\n", len(result.Text))
	if result.Text != "" {
		fmt.Printf("Text: %s\n", result.Text)
	}

	// Apply the keyword rules
	tags := classifier.Classify(result)
	source := core.SourceOCRKeywords
	if len(tags) == 0 {
		tags = []string{core.TagRevisaoManual}
		source = core.SourceFallback
	}

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Tags: %s\n", strings.Join(tags, ", "))
	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := analyzer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close image analyzer", zap.Error(err))
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set analyzer provider
	v.Set("analyzer.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "vision":
		v.Set("vision.credentials_file", *visionCredentials)
		v.Set("vision.max_labels", *maxLabels)
		v.Set("vision.max_faces", *maxFaces)
		v.Set("vision.face_text_threshold", *faceTextThreshold)
		v.Set("vision.max_image_size", *maxImageSize)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_image_size", *maxImageSize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_image_size", *maxImageSize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_image_size", *maxImageSize)
	}

	// Set classification threshold
	v.Set("classifier.little_text_threshold", *littleTextThreshold)

	return config.NewFromViper(v)
}
