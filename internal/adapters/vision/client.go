package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/jafonso/vision-doc-classifier/internal/core"
	"github.com/jafonso/vision-doc-classifier/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

// Feature types requested from the Vision API.
const (
	featureLabelDetection = "LABEL_DETECTION"
	featureTextDetection  = "TEXT_DETECTION"
	featureFaceDetection  = "FACE_DETECTION"
)

// Client is an implementation of the ImageAnalyzer interface using the
// Google Cloud Vision API.
type Client struct {
	service           *visionapi.Service
	normalizer        *utils.TextNormalizer
	logger            *zap.Logger
	maxLabels         int64
	maxFaces          int64
	faceTextThreshold int
	maxImageSize      int
	apiCalls          atomic.Int64
}

// NewClient creates a new Vision API client. With an empty credentials file
// the client authenticates through application default credentials.
func NewClient(
	ctx context.Context,
	credentialsFile string,
	maxLabels int64,
	maxFaces int64,
	faceTextThreshold int,
	maxImageSize int,
	normalizer *utils.TextNormalizer,
	logger *zap.Logger,
) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := visionapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision service: %w", err)
	}

	return &Client{
		service:           service,
		normalizer:        normalizer,
		logger:            logger,
		maxLabels:         maxLabels,
		maxFaces:          maxFaces,
		faceTextThreshold: faceTextThreshold,
		maxImageSize:      maxImageSize,
	}, nil
}

// AnalyzeImage runs label and text detection in a single request, then face
// detection in a second one only when OCR yielded almost no text. Documents
// with legible text never pay for the face detector.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error) {
	if c.maxImageSize > 0 && len(image) > c.maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", core.ErrAnalysisInput, c.maxImageSize)
	}

	content := base64.StdEncoding.EncodeToString(image)

	annotation, err := c.annotate(ctx, content, []*visionapi.Feature{
		{Type: featureLabelDetection, MaxResults: c.maxLabels},
		{Type: featureTextDetection, MaxResults: 1},
	})
	if err != nil {
		return nil, err
	}

	result := &core.AnalysisResult{}
	for _, label := range annotation.LabelAnnotations {
		result.Labels = append(result.Labels, core.Label{
			Description: label.Description,
			Score:       float32(label.Score),
		})
	}

	text := ""
	if annotation.FullTextAnnotation != nil {
		text = annotation.FullTextAnnotation.Text
	} else if len(annotation.TextAnnotations) > 0 {
		text = annotation.TextAnnotations[0].Description
	}
	result.Text = c.normalizer.SanitizeUTF8(text)

	if len(strings.TrimSpace(result.Text)) < c.faceTextThreshold {
		faceAnnotation, err := c.annotate(ctx, content, []*visionapi.Feature{
			{Type: featureFaceDetection, MaxResults: c.maxFaces},
		})
		if err != nil {
			// The face signal only reinforces portrait detection, so a
			// failed second call downgrades gracefully.
			c.logger.Warn("Face detection failed, continuing without face signal",
				zap.String("filename", filename),
				zap.Error(err))
		} else {
			result.FacePresent = len(faceAnnotation.FaceAnnotations) > 0
		}
	}

	c.logger.Debug("Image analyzed",
		zap.String("filename", filename),
		zap.Int("labels", len(result.Labels)),
		zap.Int("text_length", len(result.Text)),
		zap.Bool("face_present", result.FacePresent))

	return result, nil
}

// annotate issues one batch request for a single image and maps provider
// failures onto the core error taxonomy.
func (c *Client) annotate(ctx context.Context, content string, features []*visionapi.Feature) (*visionapi.AnnotateImageResponse, error) {
	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{
			{
				Image:    &visionapi.Image{Content: content},
				Features: features,
			},
		},
	}

	resp, err := c.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("%w: empty batch response", core.ErrAnalysisUnavailable)
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		// Code 3 is INVALID_ARGUMENT: the image payload itself was rejected.
		if annotation.Error.Code == 3 {
			return nil, fmt.Errorf("%w: %s", core.ErrAnalysisInput, annotation.Error.Message)
		}
		return nil, fmt.Errorf("%w: %s", core.ErrAnalysisUnavailable, annotation.Error.Message)
	}

	c.apiCalls.Add(1)
	return annotation, nil
}

// APICallCount reports how many successful Vision API calls were issued.
func (c *Client) APICallCount() int64 {
	return c.apiCalls.Load()
}

// classifyAPIError maps transport and HTTP failures onto the core taxonomy.
// Bad requests blame the image; everything else is a provider problem the
// next run may not see.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return fmt.Errorf("%w: %v", core.ErrAnalysisInput, err)
	}
	return fmt.Errorf("%w: %v", core.ErrAnalysisUnavailable, err)
}
