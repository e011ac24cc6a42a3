package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

func classifiedCollection() *core.EmailCollection {
	return &core.EmailCollection{
		Metadata: core.CollectionMetadata{
			TotalEmails: 3,
			Stats: &core.ClassificationStats{
				TotalImages:      4,
				ClassifiedImages: 3,
				ManualReview:     1,
				APICalls:         2000,
				TagCounts: map[string]int{
					core.TagRG:            2,
					core.TagCPF:           1,
					core.TagFoto3x4:       1,
					core.TagRevisaoManual: 1,
				},
			},
		},
		Emails: []*core.Email{
			{Attachments: []*core.Attachment{
				{Filename: "rg.jpg", MimeType: "image/jpeg"},
				{Filename: "contrato.pdf", MimeType: "application/pdf"},
			}},
			{Attachments: []*core.Attachment{
				{Filename: "foto.jpg", MimeType: "image/jpeg"},
			}},
			{Attachments: []*core.Attachment{
				{Filename: "nota.pdf", MimeType: "application/pdf"},
			}},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, classifiedCollection())
	out := buf.String()

	assert.Contains(t, out, "=== Classification Report ===")
	assert.Contains(t, out, "Total emails processed: 3")
	assert.Contains(t, out, "Emails with images: 2")
	assert.Contains(t, out, "Images classified: 4")
	assert.Contains(t, out, "External analysis calls: 2000")
	assert.Contains(t, out, "Estimated analysis cost: $3.00")
	assert.Contains(t, out, "Total tags assigned: 5")
	assert.Contains(t, out, "Classification efficacy: 80.0%")
	assert.NotContains(t, out, "Warning:")
}

func TestRender_NoBillableCalls(t *testing.T) {
	collection := classifiedCollection()
	collection.Metadata.Stats.APICalls = 0

	var buf bytes.Buffer
	Render(&buf, collection)
	out := buf.String()

	assert.Contains(t, out, "No billable analysis calls were made")
	assert.NotContains(t, out, "Estimated analysis cost")
}

func TestRender_ManualReviewWarning(t *testing.T) {
	collection := classifiedCollection()
	collection.Metadata.Stats.TagCounts = map[string]int{
		core.TagRG:            1,
		core.TagRevisaoManual: 2,
	}

	var buf bytes.Buffer
	Render(&buf, collection)

	assert.Contains(t, buf.String(), "Warning: 2 attachments need manual review")
}

func TestRender_TagOrderIsDeterministic(t *testing.T) {
	collection := classifiedCollection()
	collection.Metadata.Stats.TagCounts = map[string]int{
		core.TagCNH:     2,
		core.TagCPF:     2,
		core.TagRG:      5,
		core.TagFoto3x4: 1,
	}

	var buf bytes.Buffer
	Render(&buf, collection)
	out := buf.String()

	// Descending by count, ties broken by tag name.
	rg := strings.Index(out, core.TagRG)
	cnh := strings.Index(out, core.TagCNH)
	cpf := strings.Index(out, core.TagCPF)
	foto := strings.Index(out, core.TagFoto3x4)
	assert.True(t, rg < cnh && cnh < cpf && cpf < foto,
		"unexpected tag order in:\n%s", out)
}

func TestRender_MostCommonTagsCapsAtFive(t *testing.T) {
	collection := classifiedCollection()
	collection.Metadata.Stats.TagCounts = map[string]int{
		core.TagRG:                  7,
		core.TagCPF:                 6,
		core.TagCNH:                 5,
		core.TagFoto3x4:             4,
		core.TagCartaoSUS:           3,
		core.TagComprovanteEndereco: 2,
	}

	var buf bytes.Buffer
	Render(&buf, collection)
	out := buf.String()

	assert.Contains(t, out, "=== Most Common Tags ===")
	assert.Contains(t, out, "5. "+core.TagCartaoSUS+": 3")
	assert.NotContains(t, out, "6. ")
}

func TestRender_NilStats(t *testing.T) {
	collection := &core.EmailCollection{
		Metadata: core.CollectionMetadata{TotalEmails: 1},
		Emails:   []*core.Email{},
	}

	var buf bytes.Buffer
	Render(&buf, collection)
	out := buf.String()

	assert.Contains(t, out, "Total emails processed: 1")
	assert.Contains(t, out, "No billable analysis calls were made")
	assert.Contains(t, out, "Total tags assigned: 0")
	assert.NotContains(t, out, "Classification efficacy")
	assert.NotContains(t, out, "=== Most Common Tags ===")
}
