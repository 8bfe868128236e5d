package components

import (
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/camera"
	"github.com/Faultbox/humangl/internal/engine/debug"
	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/internal/engine/picking"
	"github.com/Faultbox/humangl/internal/engine/renderer"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/pkg/math"
)

// SelectionColor is the color of the picked node's bounding box.
var SelectionColor = math.Vec4{X: 1, Y: 0.85, Z: 0.1, W: 1}

// Picker selects the node under a left click in the viewport and outlines
// it. It needs a MeshRenderer on the same object.
type Picker struct {
	scene.BaseComponent

	lines    *renderer.Lines
	selected picking.Hit
	has      bool
}

// NewPicker creates a picker. lines may be nil to skip the outline.
func NewPicker(lines *renderer.Lines) *Picker {
	return &Picker{lines: lines}
}

// Selected returns the last hit.
func (p *Picker) Selected() (picking.Hit, bool) { return p.selected, p.has }

// ClearSelection drops the current selection.
func (p *Picker) ClearSelection() { p.has = false }

func (p *Picker) meshRenderer() (*MeshRenderer, bool) {
	o := p.Object()
	if o == nil {
		return nil, false
	}
	return scene.GetComponent[*MeshRenderer](o)
}

// OnUpdate casts a ray for a click made this frame.
func (p *Picker) OnUpdate(ctx *scene.Context) {
	in, ok := scene.Lookup[*input.Input](ctx.Resources)
	if !ok {
		return
	}
	pos, clicked := in.Clicked(input.MouseLeft)
	if !clicked {
		return
	}
	cam, ok := scene.Lookup[*camera.Camera](ctx.Resources)
	if !ok {
		return
	}
	mr, ok := p.meshRenderer()
	if !ok || !mr.Displayed() {
		return
	}

	w, h := cam.Viewport()
	ray := picking.ScreenToRay(pos, math.Vec2{X: float32(w), Y: float32(h)}, cam.ViewProjection().Inverse())
	hit, ok := picking.PickNode(mr.Model(), mr.WorldTransforms(), ray)
	p.selected, p.has = hit, ok
	if ok {
		logger.Debug("node picked",
			zap.String("model", mr.Model().Name),
			zap.Int("node", hit.Node),
			zap.String("name", mr.Model().Nodes[hit.Node].Name),
			zap.Float32("distance", hit.Distance),
		)
	}
}

// OnRender outlines the selected node with its current transform.
func (p *Picker) OnRender(ctx *scene.Context) {
	if !p.has || p.lines == nil {
		return
	}
	mr, ok := p.meshRenderer()
	if !ok || !mr.Displayed() {
		return
	}
	cam, ok := scene.Lookup[*camera.Camera](ctx.Resources)
	if !ok {
		return
	}
	m := mr.Model()
	node := p.selected.Node
	if node < 0 || node >= len(m.Nodes) || m.Nodes[node].Mesh < 0 {
		return
	}
	worlds := mr.WorldTransforms()
	p.lines.Draw(debug.BBoxWireframe(m.Meshes[m.Nodes[node].Mesh].Bounds, worlds[node]), SelectionColor, cam.ViewProjection())
}
