package am

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

// ConfigWatcher reloads the configuration when a config file changes.
// `edtf check --watch` uses it to pick up am.toml edits without a restart.
type ConfigWatcher struct {
	paths          []string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
}

// ReloadCallback is called with the freshly loaded config
type ReloadCallback func(*Config) error

var (
	globalWatcher   *ConfigWatcher
	globalWatcherMu sync.Mutex
	ownWrite        bool
)

// NewConfigWatcher watches every existing config layer.
func NewConfigWatcher(debounce time.Duration) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	cw := &ConfigWatcher{
		watcher:        w,
		debouncePeriod: debounce,
		done:           make(chan struct{}),
	}
	for _, layer := range configLayers() {
		if err := w.Add(layer.path); err == nil {
			cw.paths = append(cw.paths, layer.path)
		}
	}
	return cw, nil
}

// Paths returns the files being watched
func (cw *ConfigWatcher) Paths() []string {
	return cw.paths
}

// OnReload registers a callback to be called when config is reloaded
func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// markOwnWrite flags the next change event as coming from SetValue
func markOwnWrite() {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	if globalWatcher != nil {
		ownWrite = true
	}
}

func checkOwnWrite() bool {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	was := ownWrite
	ownWrite = false
	return was
}

// Start begins watching for config file changes
func (cw *ConfigWatcher) Start() {
	globalWatcherMu.Lock()
	globalWatcher = cw
	globalWatcherMu.Unlock()
	go cw.watchLoop()
}

func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			if checkOwnWrite() {
				logger.Debugw("Config watcher ignoring own write", logger.FieldFile, event.Name)
				continue
			}
			logger.AMInfow("Config file changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			cw.scheduleReload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

func (cw *ConfigWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debouncePeriod, func() {
		if err := cw.reload(); err != nil {
			logger.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

func (cw *ConfigWatcher) reload() error {
	Reset()
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cw.mu.RLock()
	callbacks := make([]ReloadCallback, len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(cfg); err != nil {
			logger.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching for config changes
func (cw *ConfigWatcher) Stop() error {
	globalWatcherMu.Lock()
	if globalWatcher == cw {
		globalWatcher = nil
	}
	globalWatcherMu.Unlock()

	cw.mu.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mu.Unlock()

	close(cw.done)
	return cw.watcher.Close()
}
