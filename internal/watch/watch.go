// Package watch triggers checks when source files change. It debounces
// rapid save bursts per file, so editors that write multiple times in quick
// succession produce one check run.
package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/dotcommander/tscheck/internal/config"
	"github.com/dotcommander/tscheck/internal/discovery"
)

// Handler is invoked with the absolute path of a changed file after its
// debounce window closes.
type Handler func(path string)

// Watcher observes a project tree and calls a handler for matching changes.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	excluder *discovery.FileDiscovery
	handler  Handler

	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	timers map[string]*time.Timer
	done   chan struct{}
}

// New creates a watcher over root using the config's watch patterns,
// debounce window, and exclude rules.
func New(root string, cfg *config.Config, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	patterns := cfg.Watch.FilePatterns
	if len(patterns) == 0 {
		patterns = config.DefaultWatchPatterns
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w := &Watcher{
		root:     root,
		patterns: patterns,
		debounce: debounce,
		excluder: discovery.NewFileDiscovery(root, cfg.ExcludePatterns),
		handler:  handler,
		fsw:      fsw,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive registers root and every non-excluded subdirectory. fsnotify
// watches are not recursive on their own.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.excluder.Excluded(path) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Debug("watch add failed", "path", path, "error", err)
		}
		return nil
	})
}

// Run processes filesystem events until Stop is called. New directories are
// watched as they appear, so files created in fresh subtrees still trigger.
func (w *Watcher) Run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Debug("watch error", "error", err)
		}
	}
}

// Stop shuts the watcher down and cancels pending debounce timers.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if !w.excluder.Excluded(ev.Name) && !strings.HasPrefix(filepath.Base(ev.Name), ".") {
				_ = w.addRecursive(ev.Name)
			}
			return
		}
	}

	if !w.matches(ev.Name) || w.excluder.Excluded(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

// matches reports whether the file's basename matches any watch pattern.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// schedule resets the per-path debounce timer. Only the last event in a
// burst fires the handler.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.handler(path)
	})
}
