package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
)

// BedrockClient is an implementation of the ImageAnalyzer interface using
// Amazon Bedrock multimodal models.
type BedrockClient struct {
	client       *bedrockruntime.Client
	modelID      string
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

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxImageSize int,
	normalizer *utils.TextNormalizer,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:       client,
		modelID:      modelID,
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
func (c *BedrockClient) AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error) {
	if c.maxImageSize > 0 && len(image) > c.maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", core.ErrAnalysisInput, c.maxImageSize)
	}
	if !c.isAnthropicModel() {
		return nil, fmt.Errorf("%w: model %q does not accept image input", core.ErrAnalysisUnavailable, c.modelID)
	}

	mediaType := utils.ImageMIME(filename)

	// Anthropic Claude models on Bedrock take images through the messages API
	payload, err := json.Marshal(map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        c.maxTokens,
		"temperature":       c.temperature,
		"top_p":             c.topP,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": mediaType,
							"data":       base64.StdEncoding.EncodeToString(image),
						},
					},
					{
						"type": "text",
						"text": c.promptFormat,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	// Call Bedrock API
	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invoke bedrock model: %v", core.ErrAnalysisUnavailable, err)
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal model response: %v", core.ErrAnalysisUnavailable, err)
	}

	var responseText string
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("%w: empty response from model", core.ErrAnalysisUnavailable)
	}

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
func (c *BedrockClient) APICallCount() int64 {
	return c.apiCalls.Load()
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
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
