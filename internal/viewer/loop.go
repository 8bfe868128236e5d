package viewer

import (
	"slices"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/camera"
	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/engine/shader/preprocess"
	"github.com/Faultbox/humangl/internal/logger"
)

// SetCamera makes c the active camera. Its object is added to the scene
// if needed, and a Controller on the same object becomes the orbit that
// panels refocus.
func (e *Engine) SetCamera(c *camera.Camera) error {
	o := c.Object()
	if o == nil {
		return ErrCameraDetached
	}
	if !slices.Contains(e.scene.Objects(), o) {
		e.scene.Add(o)
	}
	scene.Provide(e.ctx.Resources, c)
	if ctrl, ok := scene.GetComponent[*camera.Controller](o); ok {
		scene.Provide(e.ctx.Resources, ctrl)
	}
	return nil
}

// Step runs one frame delta after the previous one.
func (e *Engine) Step(delta time.Duration) {
	e.info = scene.FrameInfo{
		Count: e.info.Count + 1,
		Time:  e.info.Time + delta,
		Delta: delta,
	}
	e.frame(e.info)
}

// Run drives frames from the window loop until the window closes.
func (e *Engine) Run() error {
	if e.backend == nil {
		return ErrNoWindow
	}
	e.clock.Start()
	e.backend.Run(func() {
		e.frame(e.clock.Tick())
	})
	logger.Info("viewer stopped", zap.Uint64("frames", e.clock.Info().Count))
	return nil
}

func (e *Engine) frame(info scene.FrameInfo) {
	e.ctx.Frame = info

	if e.backend != nil {
		e.input.Sync(e.controls.Snapshot(e.viewport))
		e.handleShortcuts()
	} else {
		e.input.BeginFrame()
	}

	e.reloadChangedShaders()
	if e.dialog != nil {
		if path, ok := e.dialog.Take(); ok {
			e.openModel(path)
		}
	}

	if e.renderer == nil {
		// Nothing is drawn, but components still get every phase.
		e.scene.Frame(e.ctx)
		return
	}

	e.scene.RunPhase(e.ctx, scene.PhaseWillUpdate)
	e.scene.RunPhase(e.ctx, scene.PhaseUpdate)
	e.pushViewProjection()
	e.render()

	e.drawMenu()
	e.drawViewport()
	e.scene.RunPhase(e.ctx, scene.PhasePostRender)
}

// handleShortcuts reads the window-wide keys. They work wherever the
// cursor is, unlike the camera keys which need the viewport hovered.
func (e *Engine) handleShortcuts() {
	if e.controls.IsKeyPressed(input.KeyEscape) {
		e.backend.Close()
	}
	if e.controls.IsKeyPressed(input.KeyF12) {
		e.screenshot = true
	}
}

// pushViewProjection uploads the camera matrix to every compiled variant.
func (e *Engine) pushViewProjection() {
	cam, ok := scene.Lookup[*camera.Camera](e.ctx.Resources)
	if !ok {
		return
	}
	vp := cam.ViewProjection()
	e.shaders.Each(func(_ string, s *shaderEntry) {
		s.variants.Each(func(_ preprocess.Flags, p *shader.Program) {
			p.SetMat4("u_projectionView", vp)
		})
	})
}

func (e *Engine) render() {
	e.renderer.Reset()
	e.framebuffer.Bind()
	e.renderer.Clear()
	e.scene.RunPhase(e.ctx, scene.PhaseRender)
	e.framebuffer.Resolve()
	e.framebuffer.Unbind()

	if e.screenshot {
		e.screenshot = false
		path, err := e.screenshots.Capture(e.framebuffer.ReadPixels())
		if err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
}

func (e *Engine) drawMenu() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBool("Open model...") {
			e.dialog.Open()
		}
		if imgui.MenuItemBoolV("Screenshot", "F12", false, true) {
			e.screenshot = true
		}
		imgui.Separator()
		if imgui.MenuItemBoolV("Quit", "Esc", false, true) {
			e.backend.Close()
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

// drawViewport shows the last render and resizes the render target and the
// camera to the window for the next frame.
func (e *Engine) drawViewport() {
	w, h := e.viewport.Draw(e.framebuffer.ColorTexture())
	if w <= 0 || h <= 0 {
		return
	}
	e.framebuffer.Resize(w, h)
	if cam, ok := scene.Lookup[*camera.Camera](e.ctx.Resources); ok {
		cam.SetViewport(int(w), int(h))
	}
}
