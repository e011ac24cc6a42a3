package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "vision", cfg.GetAnalyzer().Provider)

	vision := cfg.GetVision()
	assert.Equal(t, int64(10), vision.MaxLabels)
	assert.Equal(t, int64(5), vision.MaxFaces)
	assert.Equal(t, 10, vision.FaceTextThreshold)
	assert.Equal(t, 10485760, vision.MaxImageSize)

	bedrock := cfg.GetBedrock()
	assert.Equal(t, "us-east-1", bedrock.Region)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", bedrock.ModelID)
	assert.Equal(t, 1000, bedrock.MaxTokens)
	assert.Equal(t, float32(0.1), bedrock.Temperature)
	assert.Equal(t, float32(0.9), bedrock.TopP)

	batch := cfg.GetBatch()
	assert.Equal(t, "emails_transformados.json", batch.InputFile)
	assert.Equal(t, "emails.json", batch.OutputFile)
	assert.Equal(t, 4, batch.MaxConcurrency)
	assert.False(t, batch.ManualReviewOnly)
	assert.True(t, batch.Report)

	gmail := cfg.GetGmail()
	assert.Equal(t, "DOC-MEDICOS", gmail.Label)
	assert.Equal(t, "anexos-email", gmail.OutputDir)
	assert.Equal(t, "emails_data.json", gmail.OutputFile)
	assert.Equal(t, int64(500), gmail.MaxResults)

	classifier := cfg.GetClassifier()
	assert.Equal(t, 50, classifier.LittleTextThreshold)
	assert.Len(t, classifier.UtilityCompanies, 7)
	assert.Contains(t, classifier.UtilityCompanies, "enel")
	assert.Contains(t, classifier.UtilityCompanies, "unimed vitória")

	assert.Equal(t, "memory", cfg.GetString("cache.type"))
	assert.True(t, cfg.GetBool("cache.enabled"))
}

func TestGetDuration(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	ttl, err := cfg.GetDuration("cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, 8760*time.Hour, ttl)

	cleanup, err := cfg.GetDuration("cache.cleanup_frequency")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cleanup)
}

func TestGetDuration_Invalid(t *testing.T) {
	v := NewEmptyViper()
	v.Set("cache.ttl", "sempre")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("cache.ttl")
	assert.Error(t, err)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("DOC_CLASSIFIER_ANALYZER_PROVIDER", "stub")
	t.Setenv("DOC_CLASSIFIER_BATCH_MAX_CONCURRENCY", "8")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "stub", cfg.GetAnalyzer().Provider)
	assert.Equal(t, 8, cfg.GetBatch().MaxConcurrency)
}

func TestNewFromViper_Overrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("analyzer.provider", "gemini")
	v.Set("gemini.api_key", "test-key")
	cfg := NewFromViper(v)

	assert.Equal(t, "gemini", cfg.GetAnalyzer().Provider)
	assert.Equal(t, "test-key", cfg.GetGemini().APIKey)

	// Values not overridden keep their defaults.
	assert.Equal(t, "gemini-1.5-flash", cfg.GetGemini().ModelName)
	assert.Equal(t, "us-east-1", cfg.GetBedrock().Region)
}
