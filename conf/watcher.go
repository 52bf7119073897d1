package conf

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/logger"
)

// ReloadCallback receives the freshly loaded config after a watched file
// changes.
type ReloadCallback func(*Config) error

// Watcher reloads configuration when its file changes on disk. Rapid
// editor write bursts are debounced so callbacks fire once per save.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ReloadCallback
	timer     *time.Timer
	closed    bool
}

// NewWatcher watches the given config file.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watching config file %s", path)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		debounce: 500 * time.Millisecond,
	}
	go w.loop()
	return w, nil
}

// OnReload registers a callback invoked after each successful reload.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("config watcher error", "path", w.path, "error", err)
		}
	}
}

// scheduleReload coalesces a burst of change events into one reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		logger.Warnw("config reload failed", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	callbacks := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			logger.Warnw("config reload callback failed", "path", w.path, "error", err)
		}
	}
	logger.Infow("configuration reloaded", "path", w.path)
}
