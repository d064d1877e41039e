package devblog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T) (*Indexer, *Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := setupTestStore(t)
	return NewIndexer(dir, s, nil, nil, nil), s, dir
}

func TestIndexerSync(t *testing.T) {
	ix, s, dir := newTestIndexer(t)
	writeFile(t, dir, "one.md", "---\ntitle: One\ndate: 2024-01-01\n---\nfirst")
	writeFile(t, dir, "two.md", "---\ntitle: Two\ndate: 2024-01-02\n---\nsecond")

	run, err := ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.Added)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	// Unchanged files are left alone.
	run, err = ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IndexRun{ID: run.ID, StartedAt: run.StartedAt, FinishedAt: run.FinishedAt, Unchanged: 2}, run)

	writeFile(t, dir, "two.md", "---\ntitle: Two, revised\ndate: 2024-01-02\n---\nsecond")
	require.NoError(t, os.Remove(filepath.Join(dir, "one.md")))
	writeFile(t, dir, "three.md", "---\ntitle: Three\n---\nthird")

	run, err = ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Added)
	assert.Equal(t, 1, run.Updated)
	assert.Equal(t, 1, run.Removed)

	got, err := s.GetPost("two")
	require.NoError(t, err)
	assert.Equal(t, "Two, revised", got.Title)
	_, err = s.GetPost("one")
	assert.ErrorIs(t, err, ErrNotFound)

	last, err := s.LastIndexRun()
	require.NoError(t, err)
	assert.Equal(t, run.ID, last.ID)
}

func TestIndexerSkipsBadAndDuplicateFiles(t *testing.T) {
	ix, s, dir := newTestIndexer(t)
	writeFile(t, dir, "a.md", "---\nslug: shared\ntitle: First\n---\nbody")
	writeFile(t, dir, "b.md", "---\nslug: shared\ntitle: Second\n---\nbody")
	writeFile(t, dir, "broken.md", "---\ntitle: never closed\n")

	run, err := ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Added)
	assert.Equal(t, 2, run.Skipped)

	got, err := s.GetPost("shared")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, "a.md", got.SourcePath)
}

func TestIndexerDetectsRename(t *testing.T) {
	ix, s, dir := newTestIndexer(t)
	writeFile(t, dir, "old.md", "---\nslug: post\n---\nbody")
	_, err := ix.Sync(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "old.md"), filepath.Join(dir, "new.md")))
	run, err := ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Updated)

	got, err := s.GetPost("post")
	require.NoError(t, err)
	assert.Equal(t, "new.md", got.SourcePath)
}

func TestIndexerMissingDirFails(t *testing.T) {
	s := setupTestStore(t)
	ix := NewIndexer(filepath.Join(t.TempDir(), "missing"), s, nil, nil, nil)

	run, err := ix.Sync(context.Background())
	assert.Error(t, err)
	assert.NotEmpty(t, run.Error)

	last, err := s.LastIndexRun()
	require.NoError(t, err)
	assert.Equal(t, run.Error, last.Error)
}

func TestIndexerCallbacksCacheAndMetrics(t *testing.T) {
	dir := t.TempDir()
	s := setupTestStore(t)
	cache := NewPostCache(s, 0)
	metrics := NewMetrics()
	ix := NewIndexer(dir, s, cache, metrics, nil)

	var runs []IndexRun
	ix.OnSync(func(r IndexRun) { runs = append(runs, r) })

	writeFile(t, dir, "one.md", "---\ntitle: One\n---\nbody")
	_, err := ix.Sync(context.Background())
	require.NoError(t, err)
	writeFile(t, dir, "two.md", "---\ntitle: Two\ndraft: true\n---\nbody")
	_, err = ix.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, 1, runs[1].Added)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.indexRuns.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.indexedPosts))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.postChanges.WithLabelValues("added")))
}

func TestIndexerKeepsPostsWithOddDates(t *testing.T) {
	ix, s, dir := newTestIndexer(t)
	writeFile(t, dir, "offset.md", "---\ntitle: Offset\ndate: \"2019-08-12 22:12:03 +0530\"\n---\nbody")
	writeFile(t, dir, "words.md", "---\ntitle: Words\ndate: sometime in 2019\n---\nbody")

	run, err := ix.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.Added)
	assert.Equal(t, 0, run.Skipped)

	got, err := s.GetPost("offset")
	require.NoError(t, err)
	assert.Equal(t, "2019-08-12", got.Date)
	got, err = s.GetPost("words")
	require.NoError(t, err)
	assert.Equal(t, "sometime in 2019", got.Date)
}

func TestIndexerKeepsGaugeWhenStoreFails(t *testing.T) {
	dir := t.TempDir()
	s := setupTestStore(t)
	metrics := NewMetrics()
	ix := NewIndexer(dir, s, nil, metrics, nil)

	writeFile(t, dir, "one.md", "---\ntitle: One\n---\nbody")
	_, err := ix.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.indexedPosts))

	require.NoError(t, s.Close())
	_, err = ix.Sync(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.indexedPosts), "a failed count leaves the last known value")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.indexRuns.WithLabelValues("error")))
}
