// Package viewer runs the model viewer: it owns the scene, the GPU
// resources and the UI backend, and drives the per-frame lifecycle.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/assets"
	"github.com/Faultbox/humangl/internal/assets/shaders"
	"github.com/Faultbox/humangl/internal/engine/debug"
	"github.com/Faultbox/humangl/internal/engine/framebuffer"
	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/internal/engine/lighting"
	"github.com/Faultbox/humangl/internal/engine/renderer"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/engine/shader/preprocess"
	"github.com/Faultbox/humangl/internal/engine/shader/watch"
	"github.com/Faultbox/humangl/internal/engine/ui"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/internal/viewer/registry"
)

// Engine errors.
var (
	ErrDuplicateModel = errors.New("a model with the same id already exists")
	ErrNoWindow       = errors.New("engine has no window")
	ErrCameraDetached = errors.New("camera is not attached to an object")
)

// DefaultShader is the id of the shader models use unless told otherwise.
const DefaultShader = "pbr"

// Options configures a windowed engine.
type Options struct {
	Title         string
	MSAA          int32
	HotReload     bool
	AssetDirs     []string // searched before the embedded assets, last first
	ScreenshotDir string
}

// Engine ties the scene to the window. All methods must be called on the
// thread that owns the GL context.
type Engine struct {
	title string

	scene *scene.Scene
	ctx   *scene.Context
	clock *scene.Clock
	info  scene.FrameInfo // advanced by Step

	assets  *assets.Manager
	shaders *registry.Registry[*shaderEntry]
	models  *registry.Registry[*loadedModel]
	watched map[string][]string // shader file path to shader ids
	watcher *watch.Watcher

	// Nil in headless engines.
	backend     *ui.Backend
	renderer    *renderer.Renderer
	framebuffer *framebuffer.Framebuffer
	flat        *shader.Program
	lines       *renderer.Lines

	controls    ui.Controls
	input       *input.Input
	viewport    *ui.Viewport
	dialog      *ui.FileDialog
	screenshots *debug.ScreenshotCapture
	screenshot  bool // capture after the next render
}

func newEngine(title string) *Engine {
	e := &Engine{
		title:   title,
		scene:   scene.New(),
		ctx:     scene.NewContext(),
		clock:   scene.NewClock(),
		assets:  assets.NewManager(),
		shaders: registry.New[*shaderEntry](shader.ErrDuplicateShader),
		models:  registry.New[*loadedModel](ErrDuplicateModel),
		watched: make(map[string][]string),
		input:   input.New(),
	}
	e.assets.AddFS(shaders.FS)
	scene.Provide(e.ctx.Resources, e.input)
	scene.Provide[input.KeyState](e.ctx.Resources, e.input)
	return e
}

// NewHeadless creates an engine without a window or GL context. Models
// load and animate but nothing is drawn. Components still receive all four
// phases each frame, so render hooks must not touch GL when no renderer
// resource is provided.
func NewHeadless() *Engine {
	return newEngine("")
}

// New creates an engine drawing into backend's window. The backend's GL
// context must be current.
func New(backend *ui.Backend, opts Options) (*Engine, error) {
	e := newEngine(opts.Title)
	e.backend = backend
	e.viewport = ui.NewViewport("Viewport")
	e.dialog = ui.NewFileDialog("Open model")
	e.screenshots = debug.NewScreenshotCapture(opts.ScreenshotDir, "humangl")

	for _, dir := range opts.AssetDirs {
		if err := e.assets.AddDir(dir); err != nil {
			return nil, fmt.Errorf("asset dir: %w", err)
		}
	}

	var err error
	if e.renderer, err = renderer.New(); err != nil {
		return nil, err
	}

	w, h := backend.WindowSize()
	if e.framebuffer, err = framebuffer.New(w, h, opts.MSAA); err != nil {
		e.renderer.Close()
		return nil, err
	}

	vert, frag, err := preprocess.SplitSource(shaders.FlatShader)
	if err == nil {
		e.flat, err = shader.Compile(vert, frag)
	}
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	e.lines = e.renderer.NewLines(e.flat)

	if opts.HotReload {
		if e.watcher, err = watch.New(); err != nil {
			logger.Warn("shader hot reload disabled", zap.Error(err))
			e.watcher = nil
		}
	}

	scene.Provide(e.ctx.Resources, e.renderer)
	scene.Provide[lighting.Receiver](e.ctx.Resources, e.renderer)
	scene.Provide(e.ctx.Resources, e.viewport)
	scene.Provide(e.ctx.Resources, e.dialog)

	logger.Info("engine ready",
		zap.Int32("width", w),
		zap.Int32("height", h),
		zap.Int32("msaa", opts.MSAA),
		zap.Bool("hot_reload", e.watcher != nil),
	)
	return e, nil
}

// Scene returns the scene the engine drives.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Resources returns the registry handed to components.
func (e *Engine) Resources() *scene.Resources { return e.ctx.Resources }

// Assets returns the asset search path.
func (e *Engine) Assets() *assets.Manager { return e.assets }

// Lines returns the debug line drawer, nil when headless.
func (e *Engine) Lines() *renderer.Lines { return e.lines }

// Close releases every GPU resource and stops the watcher.
func (e *Engine) Close() error {
	var err error
	if e.watcher != nil {
		err = multierr.Append(err, e.watcher.Close())
		e.watcher = nil
	}
	e.models.Each(func(_ string, m *loadedModel) {
		if m.gpu != nil {
			m.gpu.Delete()
		}
	})
	e.shaders.Each(func(_ string, s *shaderEntry) {
		s.variants.Destroy()
	})
	if e.lines != nil {
		e.lines.Delete()
		e.lines = nil
	}
	if e.flat != nil {
		e.flat.Delete()
		e.flat = nil
	}
	if e.framebuffer != nil {
		e.framebuffer.Destroy()
		e.framebuffer = nil
	}
	if e.renderer != nil {
		e.renderer.Close()
		e.renderer = nil
	}
	e.assets.Close()
	return err
}
