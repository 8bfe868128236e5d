// Package watch reports modified shader files to the render thread. Files
// are watched through their directories so editors that replace files on
// save are still noticed.
package watch

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/logger"
)

// Watcher collects change notifications in the background. Changed is
// polled from the render thread.
type Watcher struct {
	fsnotify *fsnotify.Watcher

	mu      sync.Mutex
	files   map[string]bool // watched absolute paths
	dirs    map[string]bool
	pending map[string]bool
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a watcher with no files.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsnotify: fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching a file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("watcher closed")
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsnotify.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// Changed returns the watched files modified since the last call, sorted.
func (w *Watcher) Changed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsnotify.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(e.Name)
			w.mu.Lock()
			if w.files[name] {
				w.pending[name] = true
			}
			w.mu.Unlock()

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}
