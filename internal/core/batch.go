package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BatchProcessor walks an email collection and classifies every image
// attachment. Attachments are independent, so they fan out to a bounded
// worker pool; the pool size doubles as the ceiling on concurrent analyzer
// calls.
type BatchProcessor struct {
	service          *DocumentClassifierService
	logger           *zap.Logger
	maxConcurrency   int
	manualReviewOnly bool
}

// NewBatchProcessor creates a new batch processor. With manualReviewOnly
// set, only attachments currently tagged for manual review are reprocessed;
// everything else keeps its existing tags.
func NewBatchProcessor(
	service *DocumentClassifierService,
	logger *zap.Logger,
	maxConcurrency int,
	manualReviewOnly bool,
) *BatchProcessor {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &BatchProcessor{
		service:          service,
		logger:           logger,
		maxConcurrency:   maxConcurrency,
		manualReviewOnly: manualReviewOnly,
	}
}

type batchJob struct {
	email      *Email
	attachment *Attachment
}

// Process classifies the collection in place and stores the derived
// statistics on its metadata. Emails and attachments are visited in input
// order. Cancelling the context stops new work; attachments already
// classified keep their results and the statistics still reflect them.
func (b *BatchProcessor) Process(ctx context.Context, collection *EmailCollection) *ClassificationStats {
	jobs := make(chan batchJob)
	var wg sync.WaitGroup

	wg.Add(b.maxConcurrency)
	for i := 0; i < b.maxConcurrency; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				b.classifyOne(ctx, job)
			}
		}()
	}

	queued := 0
feed:
	for _, email := range collection.Emails {
		for _, att := range email.Attachments {
			if !b.shouldProcess(att) {
				continue
			}
			select {
			case jobs <- batchJob{email: email, attachment: att}:
				queued++
			case <-ctx.Done():
				b.logger.Warn("Batch cancelled, no further attachments will be classified",
					zap.Int("queued", queued),
					zap.Error(ctx.Err()))
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	stats := ComputeStats(collection, time.Now())
	collection.Metadata.Stats = stats
	b.logger.Info("Batch classification finished",
		zap.Int("queued", queued),
		zap.Int("total_images", stats.TotalImages),
		zap.Int("classified_images", stats.ClassifiedImages),
		zap.Int("manual_review", stats.ManualReview),
		zap.Int("resolved_locally", stats.ResolvedLocally),
		zap.Int("external_calls", stats.ExternalCalls))
	return stats
}

// shouldProcess filters the state machine's input: only image attachments
// qualify, and in reprocess mode only those still awaiting manual review.
func (b *BatchProcessor) shouldProcess(att *Attachment) bool {
	if !att.IsImage() {
		return false
	}
	if b.manualReviewOnly {
		return att.NeedsManualReview()
	}
	return true
}

// classifyOne writes the terminal result onto the attachment record. Each
// attachment is queued exactly once, so workers never share a record.
func (b *BatchProcessor) classifyOne(ctx context.Context, job batchJob) {
	result := b.service.ClassifyAttachment(ctx, job.attachment)

	att := job.attachment
	att.Tags = append([]string(nil), result.Tags...)
	att.TagSource = result.Source
	att.CachedResult = result.Cached
	att.ClassificationError = ""
	if result.Err != nil {
		att.ClassificationError = result.Err.Error()
	}

	b.logger.Info("Attachment classified",
		zap.Int("email_id", job.email.EmailID),
		zap.Int("attachment_id", att.AttachmentID),
		zap.String("filename", att.Filename),
		zap.Strings("tags", att.Tags),
		zap.String("source", att.TagSource),
		zap.Bool("cached", att.CachedResult))
}
