package devblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Indexer keeps the Store in step with the content directory.
type Indexer struct {
	dir     string
	store   *Store
	cache   *PostCache
	metrics *Metrics
	logger  *slog.Logger

	mu        sync.Mutex
	afterSync []func(IndexRun)
}

// NewIndexer creates an Indexer for dir. cache and metrics may be nil.
func NewIndexer(dir string, store *Store, cache *PostCache, metrics *Metrics, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{dir: dir, store: store, cache: cache, metrics: metrics, logger: logger}
}

// OnSync registers fn to run after every completed Sync.
func (ix *Indexer) OnSync(fn func(IndexRun)) {
	ix.mu.Lock()
	ix.afterSync = append(ix.afterSync, fn)
	ix.mu.Unlock()
}

// Sync loads the content directory and applies the difference to the
// index. Files that fail to parse are logged and skipped; only failures of
// the walk or the store fail the run. Calls are serialized.
func (ix *Indexer) Sync(ctx context.Context) (IndexRun, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	run := IndexRun{ID: uuid.NewString(), StartedAt: time.Now()}
	err := ix.apply(ctx, &run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Error = err.Error()
	}

	if recErr := ix.store.RecordIndexRun(run); recErr != nil {
		err = errors.Join(err, fmt.Errorf("record index run: %w", recErr))
	}
	if ix.cache != nil {
		ix.cache.Invalidate()
	}
	if ix.metrics != nil {
		ix.metrics.observeRun(run)
		if total, countErr := ix.store.CountPosts(ListQuery{IncludeDrafts: true}); countErr != nil {
			ix.logger.Warn("Failed to count indexed posts", "error", countErr)
		} else {
			ix.metrics.indexedPosts.Set(float64(total))
		}
	}

	attrs := []any{
		"run", run.ID,
		"added", run.Added,
		"updated", run.Updated,
		"removed", run.Removed,
		"unchanged", run.Unchanged,
		"skipped", run.Skipped,
		"duration", run.Duration(),
	}
	if err != nil {
		ix.logger.Error("Index run failed", append(attrs, "error", err)...)
		return run, err
	}
	ix.logger.Info("Index run complete", attrs...)
	for _, fn := range ix.afterSync {
		fn(run)
	}
	return run, nil
}

func (ix *Indexer) apply(ctx context.Context, run *IndexRun) error {
	posts, fileErrs, err := LoadDir(ix.dir)
	if err != nil {
		return err
	}
	for _, fe := range fileErrs {
		ix.logger.Warn("Skipping content file", "path", fe.Path, "error", fe.Err)
		run.Skipped++
	}

	indexed, err := ix.store.IndexedFiles()
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	seen := make(map[string]string, len(posts))
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if first, dup := seen[p.Slug]; dup {
			ix.logger.Warn("Duplicate slug, keeping first file", "slug", p.Slug, "kept", first, "skipped", p.SourcePath)
			run.Skipped++
			continue
		}
		seen[p.Slug] = p.SourcePath

		prev, ok := indexed[p.Slug]
		if ok && prev.Fingerprint == p.Fingerprint && prev.SourcePath == p.SourcePath {
			run.Unchanged++
			continue
		}
		if err := ix.store.UpsertPost(p); err != nil {
			return fmt.Errorf("upsert %s: %w", p.SourcePath, err)
		}
		if ok {
			run.Updated++
		} else {
			run.Added++
		}
	}

	for slug := range indexed {
		if _, ok := seen[slug]; ok {
			continue
		}
		if err := ix.store.DeletePost(slug); err != nil {
			return fmt.Errorf("delete %s: %w", slug, err)
		}
		run.Removed++
	}
	return nil
}
