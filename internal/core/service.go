package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DocumentClassifierService is the core service for document classification.
// Per attachment it runs the cheap filename check first, then the
// content-keyed cache, then the analyzer plus keyword rules. Every path ends
// in exactly one terminal result; failures degrade to manual review instead
// of propagating.
type DocumentClassifierService struct {
	analyzer     ImageAnalyzer
	classifier   *KeywordClassifier
	cache        CacheRepository
	logger       *zap.Logger
	basePath     string
	cacheEnabled bool
	cacheTTL     time.Duration

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewDocumentClassifierService creates a new document classifier service
func NewDocumentClassifierService(
	analyzer ImageAnalyzer,
	classifier *KeywordClassifier,
	cache CacheRepository,
	logger *zap.Logger,
	basePath string,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *DocumentClassifierService {
	return &DocumentClassifierService{
		analyzer:     analyzer,
		classifier:   classifier,
		cache:        cache,
		logger:       logger,
		basePath:     basePath,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		keyLocks:     make(map[string]*sync.Mutex),
	}
}

// ContentKey derives the cache key for attachment bytes.
func ContentKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ClassifyAttachment produces the terminal classification for one image
// attachment. It never returns an error: analyzer failures are recorded on
// the result and tagged for manual review so a batch always completes.
func (s *DocumentClassifierService) ClassifyAttachment(ctx context.Context, att *Attachment) *ClassificationResult {
	now := time.Now()

	// Filename check first: resolves without touching the bytes.
	if tag, ok := MatchFilename(att.Filename); ok {
		s.logger.Debug("Filename resolved attachment without analysis",
			zap.String("filename", att.Filename),
			zap.String("tag", tag))
		return &ClassificationResult{
			Tags:       []string{tag},
			Source:     SourceFilename,
			AnalyzedAt: now,
		}
	}

	content, err := s.readAttachment(att)
	if err != nil {
		s.logger.Warn("Attachment bytes unavailable",
			zap.String("filename", att.Filename),
			zap.Error(err))
		return s.manualReview(err, now)
	}

	key := ContentKey(content)

	// The cache check and the analysis behind it form a critical section
	// per content key: a concurrent duplicate waits here and then reuses
	// the first attachment's cached result.
	unlock := s.lockKey(key)
	defer unlock()

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for content key",
				zap.String("content_key", key),
				zap.Strings("tags", entry.Tags))
			return &ClassificationResult{
				Tags:       append([]string(nil), entry.Tags...),
				Source:     entry.Source,
				Cached:     true,
				AnalyzedAt: entry.AnalyzedAt,
			}
		}
	}

	analysis, err := s.analyzer.AnalyzeImage(ctx, content, att.Filename)
	if err != nil {
		s.logger.Warn("Image analysis failed",
			zap.String("filename", att.Filename),
			zap.String("content_key", key),
			zap.Error(err))
		return s.manualReview(err, now)
	}

	tags := s.classifier.Classify(analysis)
	source := SourceOCRKeywords
	if len(tags) == 0 {
		tags = []string{TagRevisaoManual}
		source = SourceFallback
	}

	// Error results never reach this point, so a transient failure is
	// retried on the next run instead of being pinned to manual review.
	if s.cacheEnabled {
		entry := &CacheEntry{
			ContentKey: key,
			Tags:       tags,
			Source:     source,
			AnalyzedAt: now,
			ExpiresAt:  now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return &ClassificationResult{
		Tags:       tags,
		Source:     source,
		AnalyzedAt: now,
	}
}

// readAttachment loads the attachment bytes from the content path. Read
// failures count as input errors: the file is missing or unreadable.
func (s *DocumentClassifierService) readAttachment(att *Attachment) ([]byte, error) {
	path := att.AnexoPath
	if s.basePath != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.basePath, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisInput, err)
	}
	return content, nil
}

func (s *DocumentClassifierService) manualReview(cause error, now time.Time) *ClassificationResult {
	return &ClassificationResult{
		Tags:       []string{TagRevisaoManual},
		Source:     SourceFallback,
		Err:        cause,
		AnalyzedAt: now,
	}
}

// lockKey serializes classification per content key. Locks live for the
// service lifetime, which is bounded by the distinct attachments of a run.
func (s *DocumentClassifierService) lockKey(key string) func() {
	s.mu.Lock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}
