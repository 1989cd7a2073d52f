package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"salesboard/internal/sales"
)

// DatasetWatcher invalidates the store's cache when the dataset file
// changes on disk and notifies interested parties, typically the WebSocket
// hub. It watches the containing directory rather than the file itself so
// atomic rename-into-place saves are still observed.
type DatasetWatcher struct {
	store    *sales.Store
	logger   *slog.Logger
	onChange func()
	debounce time.Duration
}

// NewDatasetWatcher creates a watcher for the store's dataset file.
// onChange may be nil.
func NewDatasetWatcher(store *sales.Store, logger *slog.Logger, onChange func()) *DatasetWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetWatcher{
		store:    store,
		logger:   logger.With(slog.String("component", "dataset_watcher")),
		onChange: onChange,
		debounce: 250 * time.Millisecond,
	}
}

// Run watches until the context is cancelled. Editors tend to emit bursts
// of write events for one save, so changes are debounced before the cache
// is dropped.
func (w *DatasetWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := watcher.Add(dir); err != nil {
		return err
	}

	base := filepath.Base(w.store.Path())
	w.logger.InfoContext(ctx, "watching dataset",
		slog.String("dir", dir),
		slog.String("file", base))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.InfoContext(ctx, "dataset changed, cache invalidated",
				slog.String("path", w.store.Path()))
			w.store.Invalidate()
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.ErrorContext(ctx, "watch error", slog.String("error", err.Error()))
		}
	}
}
