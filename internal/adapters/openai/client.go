package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the ImageAnalyzer interface using
// OpenAI vision-capable chat models.
type OpenAIClient struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
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

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxImageSize int,
	normalizer *utils.TextNormalizer,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:       client,
		modelName:    modelName,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		maxImageSize: maxImageSize,
		normalizer:   normalizer,
		logger:       logger,
		promptFormat: `You are a document analysis system. Examine the attached image and respond with a JSON object containing:
- labels: array of up to 10 short English labels describing the visual content, each as {"description": string, "score": number between 0 and 1}
- text: string with all legible text transcribed from the image, preserving line breaks
- face_present: boolean, true if the image contains at least one human face

Respond only with the JSON object and nothing else.`,
	}
}

// AnalyzeImage extracts labels, OCR text and face presence from the image
// using a single multimodal call.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error) {
	if c.maxImageSize > 0 && len(image) > c.maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", core.ErrAnalysisInput, c.maxImageSize)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		utils.ImageMIME(filename), base64.StdEncoding.EncodeToString(image))

	// Create the request
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a document analysis system. Respond only with JSON.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: c.promptFormat,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	// Call OpenAI API
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat completion: %v", core.ErrAnalysisUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from OpenAI", core.ErrAnalysisUnavailable)
	}

	// Extract the response text
	responseText := resp.Choices[0].Message.Content

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
func (c *OpenAIClient) APICallCount() int64 {
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
