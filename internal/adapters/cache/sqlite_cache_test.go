package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

func newTestSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c
}

func countRows(t *testing.T, c *SQLiteCache) int {
	t.Helper()
	var n int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM classification_cache`).Scan(&n))
	return n
}

func TestSQLiteCache_SetGet(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	// The storage layout keeps second precision, so use truncated times
	// to compare timestamps exactly.
	now := time.Now().UTC().Truncate(time.Second)
	entry := &core.CacheEntry{
		ContentKey: "abc123",
		Tags:       []string{core.TagRG, core.TagCPF},
		Source:     core.SourceOCRKeywords,
		AnalyzedAt: now,
		ExpiresAt:  now.Add(time.Hour),
	}
	require.NoError(t, c.Set(ctx, entry))

	got, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, entry.Tags, got.Tags)
	assert.Equal(t, entry.Source, got.Source)
	assert.True(t, got.AnalyzedAt.Equal(entry.AnalyzedAt))
	assert.True(t, got.ExpiresAt.Equal(entry.ExpiresAt))
}

func TestSQLiteCache_GetMissing(t *testing.T) {
	c := newTestSQLiteCache(t)

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCache_ExpiredEntryIsHidden(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testEntry("old", -time.Minute)))

	// Expired rows are filtered in the query itself, so the caller
	// sees a miss rather than ErrExpired.
	_, err := c.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, countRows(t, c))
}

func TestSQLiteCache_SetOverwritesExisting(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	first := testEntry("dup", time.Hour)
	require.NoError(t, c.Set(ctx, first))

	second := testEntry("dup", time.Hour)
	second.Tags = []string{core.TagRevisaoManual}
	second.Source = core.SourceFallback
	require.NoError(t, c.Set(ctx, second))

	got, err := c.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, []string{core.TagRevisaoManual}, got.Tags)
	assert.Equal(t, core.SourceFallback, got.Source)
	assert.Equal(t, 1, countRows(t, c))
}

func TestSQLiteCache_Delete(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testEntry("gone", time.Hour)))
	require.NoError(t, c.Delete(ctx, "gone"))

	_, err := c.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, countRows(t, c))
}

func TestSQLiteCache_CleanupDeletesExpiredRows(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testEntry("live", time.Hour)))
	require.NoError(t, c.Set(ctx, testEntry("dead", -time.Minute)))
	require.Equal(t, 2, countRows(t, c))

	require.NoError(t, c.Cleanup(ctx))

	assert.Equal(t, 1, countRows(t, c))
	_, err := c.Get(ctx, "live")
	assert.NoError(t, err)
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(path, zap.NewNop(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, testEntry("persist", time.Hour)))
	first.Stop()

	second, err := NewSQLiteCache(path, zap.NewNop(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(second.Stop)

	got, err := second.Get(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, []string{core.TagRG}, got.Tags)
}
