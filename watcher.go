package devblog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// Watcher reindexes the content directory when files change. Bursts of
// events collapse into one run, and a change seen while a run is in
// progress causes exactly one follow-up run.
type Watcher struct {
	dir     string
	indexer *Indexer
	logger  *slog.Logger
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	request chan struct{}
}

// NewWatcher watches dir and its subdirectories.
func NewWatcher(dir string, indexer *Indexer, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		dir:     dir,
		indexer: indexer,
		logger:  logger,
		fsw:     fsw,
		request: make(chan struct{}, 1),
	}
	if err := w.addDirsRecursive(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	done := make(chan struct{})
	go w.worker(ctx, done)
	defer func() { <-done }()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("Content change detected", "path", ev.Name, "op", ev.Op.String())
	w.trigger()
}

// trigger (re)starts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case w.request <- struct{}{}:
		default:
		}
	})
}

// worker runs one Sync per request. The request channel holds at most one
// pending signal, which is what coalesces changes made during a run.
func (w *Watcher) worker(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.request:
			w.logger.Info("Change detected; reindexing content")
			if _, err := w.indexer.Sync(ctx); err != nil && ctx.Err() == nil {
				w.logger.Warn("reindex failed", "error", err)
			}
		}
	}
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden files and editor temp files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
