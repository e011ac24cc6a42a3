package config

// AnalyzerConfig represents the configuration for the image analysis provider
type AnalyzerConfig struct {
	Provider string
}

// VisionConfig represents the configuration for Google Cloud Vision
type VisionConfig struct {
	CredentialsFile   string
	MaxLabels         int64
	MaxFaces          int64
	FaceTextThreshold int
	MaxImageSize      int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region       string
	ModelID      string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxImageSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxImageSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxImageSize int
}

// ClassifierConfig represents the configuration for the keyword rule table
type ClassifierConfig struct {
	UtilityCompanies    []string
	LittleTextThreshold int
}

// BatchConfig represents the configuration for batch processing
type BatchConfig struct {
	InputFile        string
	OutputFile       string
	BasePath         string
	MaxConcurrency   int
	ManualReviewOnly bool
	Report           bool
}

// GmailConfig represents the configuration for the Gmail extraction client
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
	Label           string
	OutputDir       string
	OutputFile      string
	MaxResults      int64
}

// GetAnalyzer returns the analyzer configuration
func (c *Config) GetAnalyzer() AnalyzerConfig {
	return AnalyzerConfig{
		Provider: c.GetString("analyzer.provider"),
	}
}

// GetVision returns the Google Cloud Vision configuration
func (c *Config) GetVision() VisionConfig {
	return VisionConfig{
		CredentialsFile:   c.GetString("vision.credentials_file"),
		MaxLabels:         c.GetInt64("vision.max_labels"),
		MaxFaces:          c.GetInt64("vision.max_faces"),
		FaceTextThreshold: c.GetInt("vision.face_text_threshold"),
		MaxImageSize:      c.GetInt("vision.max_image_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:       c.GetString("bedrock.region"),
		ModelID:      c.GetString("bedrock.model_id"),
		MaxTokens:    c.GetInt("bedrock.max_tokens"),
		Temperature:  float32(c.GetFloat64("bedrock.temperature")),
		TopP:         float32(c.GetFloat64("bedrock.top_p")),
		MaxImageSize: c.GetInt("bedrock.max_image_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:       c.GetString("gemini.api_key"),
		ModelName:    c.GetString("gemini.model_name"),
		MaxTokens:    c.GetInt("gemini.max_tokens"),
		Temperature:  float32(c.GetFloat64("gemini.temperature")),
		TopP:         float32(c.GetFloat64("gemini.top_p")),
		MaxImageSize: c.GetInt("gemini.max_image_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       c.GetString("openai.api_key"),
		ModelName:    c.GetString("openai.model_name"),
		MaxTokens:    c.GetInt("openai.max_tokens"),
		Temperature:  float32(c.GetFloat64("openai.temperature")),
		TopP:         float32(c.GetFloat64("openai.top_p")),
		MaxImageSize: c.GetInt("openai.max_image_size"),
	}
}

// GetClassifier returns the keyword classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		UtilityCompanies:    c.GetStringSlice("classifier.utility_companies"),
		LittleTextThreshold: c.GetInt("classifier.little_text_threshold"),
	}
}

// GetBatch returns the batch processing configuration
func (c *Config) GetBatch() BatchConfig {
	return BatchConfig{
		InputFile:        c.GetString("batch.input_file"),
		OutputFile:       c.GetString("batch.output_file"),
		BasePath:         c.GetString("batch.base_path"),
		MaxConcurrency:   c.GetInt("batch.max_concurrency"),
		ManualReviewOnly: c.GetBool("batch.manual_review_only"),
		Report:           c.GetBool("batch.report"),
	}
}

// GetGmail returns the Gmail extraction configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		CredentialsFile: c.GetString("gmail.credentials_file"),
		TokenFile:       c.GetString("gmail.token_file"),
		Label:           c.GetString("gmail.label"),
		OutputDir:       c.GetString("gmail.output_dir"),
		OutputFile:      c.GetString("gmail.output_file"),
		MaxResults:      c.GetInt64("gmail.max_results"),
	}
}
