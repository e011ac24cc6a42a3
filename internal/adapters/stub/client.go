package stub

import (
	"context"
	"strings"

	"github.com/jafonso/vision-doc-classifier/internal/core"
	"go.uber.org/zap"
)

// Client is an ImageAnalyzer that fabricates analysis results from the
// attachment filename instead of calling an external service. It backs the
// stub provider used for dry runs and local development.
type Client struct {
	logger *zap.Logger
}

// NewClient creates a new stub analyzer
func NewClient(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

// AnalyzeImage derives a deterministic analysis from the filename. The
// image bytes are never inspected.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, filename string) (*core.AnalysisResult, error) {
	name := strings.ToLower(filename)

	c.logger.Debug("Simulating image analysis", zap.String("filename", filename))

	result := &core.AnalysisResult{}
	switch {
	case strings.Contains(name, "foto") || strings.Contains(name, "3x4"):
		result.FacePresent = true
		result.Text = "Nome da Pessoa"
		result.Labels = []core.Label{
			{Description: "Person", Score: 0.98},
			{Description: "Portrait", Score: 0.95},
		}
	case strings.Contains(name, "rg") || strings.Contains(name, "identidade"):
		result.Text = "REPÚBLICA FEDERATIVA DO BRASIL REGISTRO GERAL 123456789"
	case strings.Contains(name, "cpf"):
		result.Text = "RECEITA FEDERAL CPF 123.456.789-00"
	case strings.Contains(name, "crm"):
		result.Text = "CONSELHO REGIONAL DE MEDICINA CRM-ES 12345"
	case strings.Contains(name, "sus") || strings.Contains(name, "cns"):
		result.Text = "SISTEMA ÚNICO DE SAÚDE CNS 7000000000000"
	}

	return result, nil
}

// APICallCount is always zero, the stub makes no billable calls.
func (c *Client) APICallCount() int64 {
	return 0
}
