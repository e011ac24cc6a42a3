package bedrock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisResponse(t *testing.T) {
	raw := `{"labels":[{"description":"Document","score":0.97},{"description":"Paper","score":0.81}],"text":"REGISTRO GERAL 123456789","face_present":false}`

	resp, err := parseAnalysisResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.Labels, 2)
	assert.Equal(t, "Document", resp.Labels[0].Description)
	assert.Equal(t, 0.97, resp.Labels[0].Score)
	assert.Equal(t, "REGISTRO GERAL 123456789", resp.Text)
	assert.False(t, resp.FacePresent)
}

func TestParseAnalysisResponse_JSONWrappedInProse(t *testing.T) {
	raw := "Here is the analysis you asked for:\n" +
		`{"labels":[{"description":"Person","score":0.9}],"text":"Nome","face_present":true}` +
		"\nLet me know if you need anything else."

	resp, err := parseAnalysisResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.Labels, 1)
	assert.Equal(t, "Person", resp.Labels[0].Description)
	assert.True(t, resp.FacePresent)
}

func TestParseAnalysisResponse_NoJSON(t *testing.T) {
	_, err := parseAnalysisResponse("I cannot analyze this image.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse model response")
}

func TestParseAnalysisResponse_MalformedJSON(t *testing.T) {
	_, err := parseAnalysisResponse(`The result: {"labels": [}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse model response")
}

func TestParseAnalysisResponse_Empty(t *testing.T) {
	_, err := parseAnalysisResponse("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract JSON")
}

func TestIsAnthropicModel(t *testing.T) {
	tests := []struct {
		modelID string
		want    bool
	}{
		{"anthropic.claude-3-haiku-20240307-v1:0", true},
		{"anthropic.claude-3-sonnet-20240229-v1:0", true},
		{"amazon.titan-image-generator-v1", false},
		{"meta.llama3-8b-instruct-v1:0", false},
		{"", false},
	}

	for _, tt := range tests {
		c := &BedrockClient{modelID: tt.modelID}
		assert.Equal(t, tt.want, c.isAnthropicModel(), "modelID %q", tt.modelID)
	}
}
