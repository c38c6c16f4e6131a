package fsdiscovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/codegraph/internal/config"
	"github.com/standardbeagle/codegraph/internal/diag"
)

// EventKind mirrors the fsnotify op that triggered a debounced callback.
type EventKind int

const (
	EventWrite EventKind = iota
	EventCreate
	EventRemove
	EventRename
)

// Watcher watches a project root for changes and delivers debounced,
// per-path events. One event per path is delivered per debounce window,
// even if fsnotify reports several raw events for it — the same
// last-write-wins collapsing the teacher's eventDebouncer performs.
type Watcher struct {
	fsw       *fsnotify.Watcher
	scanner   *Scanner
	root      string
	onEvent   func(path string, kind EventKind)
	debounce  time.Duration
	mu        sync.Mutex
	pending   map[string]EventKind
	timer     *time.Timer
	cancel    context.CancelFunc
}

// NewWatcher creates a Watcher rooted at the scanner's project directory.
// onEvent is invoked from the debounce goroutine, once per changed path,
// after the debounce window elapses with no further event on any watched
// path (all pending paths share one timer).
func NewWatcher(scanner *Scanner, cfg *config.Config, onEvent func(path string, kind EventKind)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		scanner:  scanner,
		root:     scanner.root,
		onEvent:  onEvent,
		debounce: time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond,
		pending:  make(map[string]EventKind),
	}, nil
}

// Start begins watching every directory under the project root and
// returns once the initial watch set is established. It runs its event
// loop in a background goroutine until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatches(w.root); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

// Stop halts the watch loop and releases the underlying fsnotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.fsw.Close()
}

func (w *Watcher) addWatches(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr == nil && rel != "." && strings.HasPrefix(filepath.Base(path), ".git") {
			return filepath.SkipDir
		}
		if relErr == nil && rel != "." && w.scanner.ignore.shouldIgnore(filepath.ToSlash(rel), true) {
			return filepath.SkipDir
		}
		if werr := w.fsw.Add(path); werr != nil {
			diag.Tracef("fsdiscovery: watch add failed for %s: %v", path, werr)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
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
			diag.Tracef("fsdiscovery: watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			w.fsw.Add(ev.Name)
		}
		return
	}
	if w.scanner.ignore.shouldIgnore(rel, false) {
		return
	}

	var kind EventKind
	switch {
	case ev.Op&fsnotify.Remove != 0:
		kind = EventRemove
	case ev.Op&fsnotify.Create != 0:
		kind = EventCreate
	case ev.Op&fsnotify.Rename != 0:
		kind = EventRename
	default:
		kind = EventWrite
	}

	w.addPending(rel, kind)
}

func (w *Watcher) addPending(path string, kind EventKind) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = kind
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.pending
	w.pending = make(map[string]EventKind)
	w.mu.Unlock()

	if w.onEvent == nil {
		return
	}
	for path, kind := range events {
		w.onEvent(path, kind)
	}
}
