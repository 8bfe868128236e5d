package ui

import (
	"errors"
	"sync"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/logger"
)

// FileDialog opens native file pickers off the render thread. The chosen
// path is collected with Take on the render thread.
type FileDialog struct {
	title   string
	filters [][]string // name followed by extensions

	mu      sync.Mutex
	open    bool
	pending string
}

// NewFileDialog creates a dialog for glTF files.
func NewFileDialog(title string) *FileDialog {
	return &FileDialog{
		title: title,
		filters: [][]string{
			{"glTF models", "gltf", "glb"},
			{"All Files", "*"},
		},
	}
}

// Open shows the dialog unless one is already showing.
func (d *FileDialog) Open() {
	d.mu.Lock()
	if d.open {
		d.mu.Unlock()
		return
	}
	d.open = true
	d.mu.Unlock()

	go func() {
		b := dialog.File().Title(d.title)
		for _, f := range d.filters {
			b = b.Filter(f[0], f[1:]...)
		}
		filename, err := b.Load()

		d.mu.Lock()
		defer d.mu.Unlock()
		d.open = false
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		d.pending = filename
	}()
}

// Take returns the path chosen since the last call, if any.
func (d *FileDialog) Take() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == "" {
		return "", false
	}
	p := d.pending
	d.pending = ""
	return p, true
}
