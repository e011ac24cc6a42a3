package core

import (
	"strings"
	"time"
)

// Document tags assigned by the classifier. The values are stable
// identifiers that end up in the corpus JSON, so they keep their original
// casing and never carry accents.
const (
	TagRG                         = "RG"
	TagCPF                        = "CPF"
	TagCNH                        = "CNH"
	TagFoto3x4                    = "FOTO_3X4"
	TagComprovanteEndereco        = "COMPROVANTE_ENDERECO"
	TagCartaoSUS                  = "CARTAO_SUS"
	TagCRM                        = "CRM"
	TagTituloEleitor              = "TITULO_ELEITOR"
	TagDiplomaMedicina            = "DIPLOMA_MEDICINA"
	TagCertidaoCasamento          = "CERTIDAO_CASAMENTO"
	TagPIS                        = "PIS"
	TagCarteiraTrabalho           = "CARTEIRA_TRABALHO"
	TagCertificadoACLS            = "CERTIFICADO_ACLS"
	TagCertificadoATLS            = "CERTIFICADO_ATLS"
	TagCertificadoPALS            = "CERTIFICADO_PALS"
	TagCertificadoEspecialidade   = "CERTIFICADO_ESPECIALIDADE"
	TagCertificadoPosGraduacao    = "CERTIFICADO_POS_GRADUACAO"
	TagCertificadoCursoOutros     = "CERTIFICADO_CURSO_OUTROS"
	TagDeclaracaoResidenciaMedica = "DECLARACAO_RESIDENCIA_MEDICA"
	TagCurriculo                  = "CURRICULO"

	// TagRevisaoManual marks attachments the pipeline could not classify.
	// It is always assigned alone, never mixed with document tags.
	TagRevisaoManual = "REVISAO_MANUAL"
)

// Classification sources recorded on each attachment.
const (
	SourceFilename    = "FILENAME"
	SourceOCRKeywords = "OCR_KEYWORDS"
	SourceFallback    = "FALLBACK"
)

// Attachment is a single email attachment in the corpus. The JSON field
// names match the extraction format, which downstream scripts already read.
type Attachment struct {
	AttachmentID int    `json:"attachmentID"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	AnexoPath    string `json:"anexoPath"`
	Size         int64  `json:"size,omitempty"`

	// Classification output. Tags is overwritten on every run so the
	// pipeline stays idempotent.
	Tags                []string `json:"tag"`
	TagSource           string   `json:"tagSource,omitempty"`
	CachedResult        bool     `json:"cachedResult,omitempty"`
	ClassificationError string   `json:"classificationError,omitempty"`
}

// IsImage reports whether the attachment is eligible for classification.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(a.MimeType), "image/")
}

// NeedsManualReview reports whether the attachment carries only the
// manual-review tag.
func (a *Attachment) NeedsManualReview() bool {
	return len(a.Tags) == 1 && a.Tags[0] == TagRevisaoManual
}

// Email represents an extracted email message and its attachments.
type Email struct {
	EmailID     int           `json:"emailID"`
	From        string        `json:"from"`
	Subject     string        `json:"subject"`
	Body        string        `json:"body,omitempty"`
	MessageID   string        `json:"messageId,omitempty"`
	Date        string        `json:"date,omitempty"`
	Attachments []*Attachment `json:"attachments"`
}

// CollectionMetadata describes an extracted corpus and, after a
// classification run, its aggregate statistics.
type CollectionMetadata struct {
	TotalEmails int                  `json:"total_emails"`
	ProcessedAt string               `json:"processed_at,omitempty"`
	LabelUsed   string               `json:"label_used,omitempty"`
	RunID       string               `json:"run_id,omitempty"`
	Stats       *ClassificationStats `json:"classification_stats,omitempty"`
}

// EmailCollection is the unit of persistence: every pipeline run loads one,
// classifies its attachments in place and saves it back.
type EmailCollection struct {
	Metadata CollectionMetadata `json:"metadata"`
	Emails   []*Email           `json:"emails"`
}

// Label is a single visual concept detected in an image.
type Label struct {
	Description string
	Score       float32
}

// AnalysisResult holds the signals an analyzer extracted from image bytes.
// It is ephemeral: only the tags derived from it are persisted.
type AnalysisResult struct {
	Text        string
	Labels      []Label
	FacePresent bool
}

// HasLabel reports whether any detected label contains the given term.
// Matching is case-insensitive on the label description.
func (r *AnalysisResult) HasLabel(term string) bool {
	for _, l := range r.Labels {
		if strings.Contains(strings.ToLower(l.Description), strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// ClassificationResult is the terminal outcome for one attachment.
type ClassificationResult struct {
	Tags       []string
	Source     string
	Cached     bool
	Err        error
	AnalyzedAt time.Time
}

type CacheEntry struct {
	ContentKey string
	Tags       []string
	Source     string
	AnalyzedAt time.Time
	ExpiresAt  time.Time
}

// ClassificationStats summarizes a classified collection. It is always
// derived by a full scan over the attachment records, never mutated
// incrementally, so a stale value can simply be recomputed. APICalls is the
// exception: it comes from the analyzer, not the records, and is stamped by
// the pipeline after the run.
type ClassificationStats struct {
	TotalImages      int            `json:"total_images"`
	ClassifiedImages int            `json:"classified_images"`
	ManualReview     int            `json:"manual_review"`
	ResolvedLocally  int            `json:"resolved_locally"`
	ExternalCalls    int            `json:"external_calls"`
	APICalls         int64          `json:"api_calls"`
	TagCounts        map[string]int `json:"tag_counts"`
	ProcessedAt      string         `json:"processed_at"`
}

// ComputeStats derives collection statistics from the attachment records.
// Only image attachments that carry at least one tag are counted; non-image
// attachments and images skipped by a cancelled run are excluded.
func ComputeStats(collection *EmailCollection, now time.Time) *ClassificationStats {
	stats := &ClassificationStats{
		TagCounts:   make(map[string]int),
		ProcessedAt: now.Format(time.RFC3339),
	}
	for _, email := range collection.Emails {
		for _, att := range email.Attachments {
			if !att.IsImage() || len(att.Tags) == 0 {
				continue
			}
			stats.TotalImages++
			for _, tag := range att.Tags {
				stats.TagCounts[tag]++
			}
			if att.NeedsManualReview() {
				stats.ManualReview++
			} else {
				stats.ClassifiedImages++
			}
			if att.TagSource == SourceFilename || att.CachedResult {
				stats.ResolvedLocally++
			} else {
				stats.ExternalCalls++
			}
		}
	}
	return stats
}
