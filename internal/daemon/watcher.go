// photosync ⸻ internal/daemon/watcher.go
// file system monitoring for the drop directory

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"photosync/internal/util"
)

// processes a detected descriptor file
type FileHandler func(path string) error

// configures the watcher behavior
type WatchOptions struct {
	// descriptor extensions to react to
	Extensions []string

	// min file age before processing (avoid processing incomplete files)
	MinFileAge time.Duration
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Extensions: []string{".json", ".csv"},
		MinFileAge: 2 * time.Second,
	}
}

// Watcher monitors one drop directory for new descriptor files.
type Watcher struct {
	watcher     *fsnotify.Watcher
	dir         string
	options     WatchOptions
	handler     FileHandler
	logger      *util.Logger
	processed   map[string]time.Time
	processLock sync.Mutex
	done        chan struct{}
	running     bool
}

func NewWatcher(dir string, options WatchOptions, handler FileHandler, logger *util.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid watch directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:   fsWatcher,
		dir:       dir,
		options:   options,
		handler:   handler,
		logger:    logger,
		processed: make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// begins watching the drop directory
func (w *Watcher) Start() error {
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}
	w.logger.Debug("Watching directory: %s", w.dir)

	go w.processEvents()
	go w.periodicCleanup()

	w.running = true
	w.logger.Info("File watcher started")

	return nil
}

// terminates the watcher
func (w *Watcher) Stop() error {
	if !w.running {
		return nil
	}

	close(w.done)
	w.running = false

	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.wantsFile(event.Name) {
				continue
			}
			go w.handleAfterSettle(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warning("Watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) wantsFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.options.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// waits for the file to settle, then hands it to the handler exactly once
func (w *Watcher) handleAfterSettle(path string) {
	time.Sleep(w.options.MinFileAge)

	w.processLock.Lock()
	if last, seen := w.processed[path]; seen && time.Since(last) < w.options.MinFileAge*2 {
		w.processLock.Unlock()
		return
	}
	w.processed[path] = time.Now()
	w.processLock.Unlock()

	if _, err := os.Stat(path); err != nil {
		return // vanished before we got to it
	}

	if err := w.handler(path); err != nil {
		w.logger.Error("Handler failed for %s: %v", path, err)
	}
}

// drops stale entries so the dedup map doesn't grow forever
func (w *Watcher) periodicCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.processLock.Lock()
			cutoff := time.Now().Add(-time.Hour)
			for path, seen := range w.processed {
				if seen.Before(cutoff) {
					delete(w.processed, path)
				}
			}
			w.processLock.Unlock()
		case <-w.done:
			return
		}
	}
}
