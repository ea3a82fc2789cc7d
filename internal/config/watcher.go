package config

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/iiroan/prism/internal/store"
)

const watchDebounce = 200 * time.Millisecond

// Dispatcher receives reloaded preferences.
type Dispatcher interface {
	Snapshot() store.Preferences
	Dispatch(ctx context.Context, intent store.Intent) error
}

// Watcher reloads a preferences file when another process edits it and
// hydrates the store with the result.
type Watcher struct {
	file    *PreferencesFile
	target  Dispatcher
	watcher *fsnotify.Watcher
	logger  *log.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory holding file. Editors and our own Save
// replace the file by rename, so the directory is the stable thing to watch.
func NewWatcher(file *PreferencesFile, target Dispatcher, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(file.Path())); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(file.Path()), err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{file: file, target: target, watcher: fw, logger: logger}, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	name := filepath.Clean(w.file.Path())
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule(ctx)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("preferences watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()
		w.reload(ctx)
	})
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	prefs, err := w.file.Load(ctx, w.target.Snapshot())
	if err != nil {
		w.logger.Warn("could not reload preferences", "path", w.file.Path(), "error", err)
		return
	}
	if err := w.target.Dispatch(ctx, store.Hydrate{Preferences: prefs}); err != nil {
		w.logger.Warn("ignoring invalid preferences file", "path", w.file.Path(), "error", err)
		return
	}
	w.logger.Debug("preferences reloaded", "path", w.file.Path())
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
