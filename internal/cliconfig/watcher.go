package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/modemprov/pkg/log"
)

// DefaultDebounceDelay is the delay after a config file change before it is reloaded.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher reloads the config file when it changes and reports the new file
// contents. Only settings that are safe to change at runtime should be
// applied by the callback.
type Watcher struct {
	path     string
	onChange func(FileConfig)
	logger   log.Logger
	delay    time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onChange func(FileConfig), logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		delay:    DefaultDebounceDelay,
	}
}

// Run watches the config file's directory until ctx is done. Editors often
// replace files instead of writing them, so the directory is watched rather
// than the file.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Debug("config watcher started", log.String("path", w.path))

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", log.String("path", w.path), log.Err(err))
		return
	}
	w.logger.Info("config reloaded", log.String("path", w.path))
	w.onChange(fc)
}
