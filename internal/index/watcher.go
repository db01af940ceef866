package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/stenomix/internal/storage"
)

// Event kinds passed to an EventCallback.
const (
	EventCompiled = "compiled"
	EventRemoved  = "removed"
)

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, path string)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Root is the absolute directory of the sources.
	Root string
	// IsSource selects the files that are compiled.
	IsSource func(name string) bool
	// Debounce delays recompilation so that editors writing a file in
	// several steps trigger a single compile. Zero uses 100ms.
	Debounce time.Duration
}

// Watch starts an fsnotify watcher on the source root and recompiles
// changed documents until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// index entries whose files no longer exist on disk.
func Watch(ctx context.Context, db DictionaryIndex, store storage.Provider, ix Indexer, opts WatchOptions, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, opts.Root); err != nil {
		return err
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	logger.Info("watcher: started", slog.String("root", opts.Root))

	// pending collects paths written since the last flush.
	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	schedule := func(t **time.Timer, ch *<-chan time.Time, d time.Duration) {
		if *t == nil {
			*t = time.NewTimer(d)
			*ch = (*t).C
			return
		}
		(*t).Reset(d)
	}

	for {
		select {
		case <-ctx.Done():
			for _, t := range []*time.Timer{flushTimer, reconcileTimer} {
				if t != nil {
					t.Stop()
				}
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if err := Sync(db, store, ix, logger, cb); err != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
			}

		case <-flushCh:
			for rel := range pending {
				compileOne(store, ix, rel, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					// Sources may already sit in the new directory.
					schedule(&reconcileTimer, &reconcileCh, 2*debounce)
					continue
				}
			}

			if opts.IsSource != nil && !opts.IsSource(filepath.Base(absPath)) {
				continue
			}
			rel, relErr := filepath.Rel(opts.Root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[rel] = struct{}{}
				schedule(&flushTimer, &flushCh, debounce)

			case ev.Op&fsnotify.Remove != 0:
				delete(pending, rel)
				if delErr := ix.RemoveSource(rel); delErr != nil {
					logger.Warn("watcher: remove failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("path", rel))
				if cb != nil {
					cb(EventRemoved, rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a Create if it stays inside a watched dir.
				delete(pending, rel)
				schedule(&reconcileTimer, &reconcileCh, 2*debounce)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func compileOne(store storage.Provider, ix Indexer, rel string, logger *slog.Logger, cb EventCallback) {
	data, err := store.Read(rel)
	if err != nil {
		// Removed before the debounce fired; the Remove event handles it.
		logger.Debug("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if err := ix.IndexSource(rel, data); err != nil {
		logger.Warn("watcher: compile failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	logger.Debug("watcher: compiled", slog.String("path", rel))
	if cb != nil {
		cb(EventCompiled, rel)
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
