package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ivanmoreno/mirador/internal/logging"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// result to a callback. Editors replace files rather than writing in
// place, so the parent directory is watched and events are filtered by
// name; rapid event bursts are debounced.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the config file at path. onReload is
// called with each successfully loaded config; load failures are logged
// and the previous config stays in effect.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logging.WithComponent("config-watch"),
	}
}

// Start begins watching. It is a no-op if already running.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.loop()
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fs watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			slog.String("path", w.path),
			slog.Any("error", err),
		)
		return
	}
	w.logger.Info("config reloaded", slog.String("path", w.path))
	w.onReload(cfg)
}
