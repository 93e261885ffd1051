package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/parser"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory tree and reports supported source files once
// they have stopped changing for the debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	exclude   []string
	debounce  time.Duration
	callback  func(path string)
	mu        sync.Mutex
	pending   map[string]time.Time
}

// NewWatcher creates a watcher for root. Paths matching an exclude glob
// (relative to root) are ignored.
func NewWatcher(root string, exclude []string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		exclude:   exclude,
		debounce:  debounce,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function to call when a file changes. Callbacks run
// one at a time.
func (w *Watcher) SetCallback(cb func(path string)) {
	w.callback = cb
}

// Start watches until ctx is canceled or the watcher is stopped.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", w.root, "debounce", w.debounce)

	// The debounce loop must also end when Stop closes the event channels.
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(path, true) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excluded(path string, dir bool) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if dir {
		rel += "/"
	}
	return analysis.Excluded(w.exclude, rel)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	path := event.Name
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				slog.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !parser.IsSupported(path) || w.excluded(path, false) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(min(100*time.Millisecond, w.debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.takeReady() {
				if w.callback != nil {
					w.callback(path)
				}
			}
		}
	}
}

// takeReady removes and returns files that have been stable for the
// debounce period.
func (w *Watcher) takeReady() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	return ready
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories currently being watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}
