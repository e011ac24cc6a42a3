package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/generative-ai-go/genai"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the ImageAnalyzer interface using
// Google Gemini multimodal models.
type GeminiClient struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	maxImageSize int
	normalizer   *utils.TextNormalizer
	logger       *zap.Logger
	promptFormat string
	apiCalls     atomic.Int64
}

// ImageAnalysisResponse represents the structured response from the model
type ImageAnalysisResponse struct {
	Labels []struct {
		Description string  `json:"description"`
		Score       float64 `json:"score"`
	} `json:"labels"`
	Text        string `json:"text"`
	FacePresent bool   `json:"face_present"`
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxImageSize int,
	normalizer *utils.TextNormalizer,
	logger *zap.Logger,
) (*GeminiClient, error) {
	// Create a new Gemini client
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Create a generative model
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:       client,
		model:        model,
		modelName:    modelName,
		maxImageSize: maxImageSize,
		normalizer:   normalizer,
		logger:       logger,
		promptFormat: `You are a document analysis system. Examine the attached image and respond with a JSON object containing:
- labels: array of up to 10 short English labels describing the visual content, each as {"description": string, "score": number between 0 and 1}
- text: string with all legible text transcribed from the image, preserving line breaks
- face_present: boolean, true if the image contains at least one human face

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// AnalyzeImage extracts labels, OCR text and face presence from the image
// using a single multimodal call.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error) {
	if c.maxImageSize > 0 && len(image) > c.maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", core.ErrAnalysisInput, c.maxImageSize)
	}

	format := strings.TrimPrefix(utils.ImageMIME(filename), "image/")

	// Call Gemini API
	resp, err := c.model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(c.promptFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrAnalysisUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from Gemini", core.ErrAnalysisUnavailable)
	}

	// Extract the response text
	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	analysis, err := parseAnalysisResponse(responseText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrAnalysisUnavailable, err)
	}

	c.apiCalls.Add(1)

	result := &core.AnalysisResult{
		Text:        c.normalizer.SanitizeUTF8(analysis.Text),
		FacePresent: analysis.FacePresent,
	}
	for _, label := range analysis.Labels {
		result.Labels = append(result.Labels, core.Label{
			Description: label.Description,
			Score:       float32(label.Score),
		})
	}

	return result, nil
}

// APICallCount reports how many successful model calls were issued.
func (c *GeminiClient) APICallCount() int64 {
	return c.apiCalls.Load()
}

// parseAnalysisResponse parses the model's JSON reply, tolerating prose
// around the JSON object.
func parseAnalysisResponse(responseText string) (*ImageAnalysisResponse, error) {
	var analysisResponse ImageAnalysisResponse
	if err := json.Unmarshal([]byte(responseText), &analysisResponse); err != nil {
		// Try to extract JSON from the text response
		jsonStart := 0
		jsonEnd := len(responseText)

		// Find JSON start
		for i := 0; i < len(responseText); i++ {
			if responseText[i] == '{' {
				jsonStart = i
				break
			}
		}

		// Find JSON end
		for i := len(responseText) - 1; i >= 0; i-- {
			if responseText[i] == '}' {
				jsonEnd = i + 1
				break
			}
		}

		if jsonStart < jsonEnd {
			jsonStr := responseText[jsonStart:jsonEnd]
			if err := json.Unmarshal([]byte(jsonStr), &analysisResponse); err != nil {
				return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
	}

	return &analysisResponse, nil
}
