package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a config file on write, grounded on the teacher's
// fsnotify-backed ShaderWatcher (same watcher-goroutine-plus-done-channel
// shape, applied to a config file instead of shader sources).
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(*Config)
	done    chan struct{}

	mu  sync.Mutex
	cur *Config
}

// Watch starts watching path for writes, invoking onLoad with the freshly
// reloaded config each time the file changes. The config loaded at start
// time is available from Current() so callers don't have to call
// LoadFromPath twice.
func Watch(path string, onLoad func(*Config)) (*Watcher, error) {
	path = expandPath(path)

	cfg, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    path,
		onLoad:  onLoad,
		done:    make(chan struct{}),
		cur:     cfg,
	}
	go w.loop()
	return w, nil
}

// Current returns the most recently loaded config.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cur
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				cfg, err := LoadFromPath(w.path)
				if err != nil {
					continue
				}
				w.mu.Lock()
				w.cur = cfg
				w.mu.Unlock()
				if w.onLoad != nil {
					w.onLoad(cfg)
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
