package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// Watcher signals when manifest files below a directory change. Bursts of
// events within the debounce window produce one signal.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	watched   map[string]struct{}
	debounce  time.Duration
	logger    logr.Logger
	onChange  chan struct{}
	done      chan struct{}
}

// WatcherConfig holds watcher configuration options.
type WatcherConfig struct {
	Dir         string
	DebounceDur time.Duration
	Logger      logr.Logger
}

// NewWatcher creates a watcher for cfg.Dir. Call Start to begin watching.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	debounce := cfg.DebounceDur
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		watched:   make(map[string]struct{}),
		debounce:  debounce,
		logger:    cfg.Logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching dir and every directory below it and returns the
// change channel.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if _, err := w.addTree(w.dir); err != nil {
		return nil, err
	}
	go w.loop()
	return w.onChange, nil
}

// addTree watches root and its subdirectories. It reports whether any
// manifest file already exists below root.
func (w *Watcher) addTree(root string) (bool, error) {
	found := false
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			if isManifestFile(path) {
				found = true
			}
			return nil
		}
		if _, ok := w.watched[path]; ok {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		w.watched[path] = struct{}{}
		return nil
	})
	return found, err
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "manifest watcher error", "dir", w.dir)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// handleEvent keeps the watch list in step with the directory tree and
// reports whether event should trigger a change signal.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, ok := w.watched[event.Name]; ok {
			w.forgetTree(event.Name)
			return true
		}
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Files written before the watch was added produce no events.
			found, err := w.addTree(event.Name)
			if err != nil {
				w.logger.Error(err, "watching new manifest directory", "dir", event.Name)
			}
			return found
		}
	}
	return isRelevantEvent(event)
}

func (w *Watcher) forgetTree(root string) {
	prefix := root + string(filepath.Separator)
	for path := range w.watched {
		if path == root || strings.HasPrefix(path, prefix) {
			_ = w.fsWatcher.Remove(path)
			delete(w.watched, path)
		}
	}
}

func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return isManifestFile(event.Name)
}
