package assets

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a Reloadable whenever its file is written or replaced.
type Watcher struct {
	source   *Reloadable
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	onReload func(error)
}

// NewWatcher watches the directory holding the story file, so editors that
// save by rename are picked up as well.
func NewWatcher(source *Reloadable, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(source.Path())
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		source:   source,
		watcher:  w,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// OnReload registers a callback run after each reload attempt. Call before Run.
func (w *Watcher) OnReload(fn func(error)) {
	w.onReload = fn
}

// Run blocks until ctx is done, reloading after each burst of changes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	target := filepath.Clean(w.source.Path())
	w.logger.Info("Watching story", "path", target)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Story changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			err := w.source.Reload()
			if w.onReload != nil {
				w.onReload(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}
