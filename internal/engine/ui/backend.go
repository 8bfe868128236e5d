// Package ui provides the ImGui window, the input bridge and the viewer
// panels' building blocks.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/logger"
)

// fallbackFonts are tried when no font is configured.
var fallbackFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
}

// Backend owns the SDL window, the GL context and the ImGui context. Create
// one and pass it to whoever needs it.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	title   string
}

// Options configures the window.
type Options struct {
	Title    string
	Width    int32
	Height   int32
	Font     string // TTF path, empty for the first fallback found
	FontSize float32
}

// NewBackend creates the window and its contexts.
func NewBackend(opts Options) (*Backend, error) {
	b := &Backend{title: opts.Title}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		b.loadFont(opts.Font, opts.FontSize)
	})

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(opts.Title, int(opts.Width), int(opts.Height))

	logger.Info("window created",
		zap.String("title", opts.Title),
		zap.Int32("width", opts.Width),
		zap.Int32("height", opts.Height),
	)
	return b, nil
}

func (b *Backend) loadFont(path string, size float32) {
	if size <= 0 {
		size = 16
	}
	if path == "" {
		for _, p := range fallbackFonts {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("font not found, using default", zap.String("path", path))
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	imgui.CurrentIO().Fonts().AddFontFromFileTTFV(path, size, fontCfg, nil)
	logger.Debug("font loaded", zap.String("path", path), zap.Float32("size", size))
}

// Run starts the main render loop. frame is called once per frame between
// the ImGui frame setup and its rendering.
func (b *Backend) Run(frame func()) {
	b.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.title = title
	b.backend.SetWindowTitle(title)
}

// Title returns the current window title.
func (b *Backend) Title() string { return b.title }

// WindowSize returns the current window size.
func (b *Backend) WindowSize() (int32, int32) {
	return b.backend.DisplaySize()
}

// Close asks the loop to stop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}
