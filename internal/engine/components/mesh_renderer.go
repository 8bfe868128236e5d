// Package components holds the viewer's scene components: model drawing,
// node picking and the per-object control panels.
package components

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/internal/engine/renderer"
	"github.com/Faultbox/humangl/internal/engine/renderer/glstate"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/pkg/math"
)

// Polygon modes accepted by SetPolygonMode.
const (
	PolygonFill  = glstate.Fill
	PolygonLine  = glstate.Line
	PolygonPoint = glstate.Point
)

// MeshRenderer draws an uploaded model through its node hierarchy, posed by
// the Animator on the same object when there is one.
type MeshRenderer struct {
	scene.BaseComponent

	gpu     *renderer.GPUModel
	shader  *shader.Variants
	scales  model.NodeScales
	mode    uint32
	visible bool
	root    float32
	logged  bool // a draw error was reported
}

// NewMeshRenderer compiles every variant the model needs up front so that
// per-frame uniform pushes reach all of them.
func NewMeshRenderer(gpu *renderer.GPUModel, variants *shader.Variants) (*MeshRenderer, error) {
	m := gpu.Model()
	for _, flags := range m.AllShaderFlags() {
		if _, err := variants.Enable(flags); err != nil {
			return nil, fmt.Errorf("mesh renderer for %s: %w", m.Name, err)
		}
	}
	return &MeshRenderer{
		gpu:     gpu,
		shader:  variants,
		mode:    PolygonFill,
		visible: true,
		root:    1,
	}, nil
}

// Model returns the drawn model.
func (mr *MeshRenderer) Model() *model.Model { return mr.gpu.Model() }

// Shader returns the variant set used for drawing.
func (mr *MeshRenderer) Shader() *shader.Variants { return mr.shader }

// SetDisplayed shows or hides the model.
func (mr *MeshRenderer) SetDisplayed(displayed bool) { mr.visible = displayed }

// Displayed reports whether the model is drawn.
func (mr *MeshRenderer) Displayed() bool { return mr.visible }

// SetPolygonMode selects fill, line or point rasterization.
func (mr *MeshRenderer) SetPolygonMode(mode uint32) {
	switch mode {
	case PolygonFill, PolygonLine, PolygonPoint:
		mr.mode = mode
	}
}

// PolygonMode returns the rasterization mode.
func (mr *MeshRenderer) PolygonMode() uint32 { return mr.mode }

// SetScaleMultiplier scales node and its subtree. Negative components
// clamp to zero.
func (mr *MeshRenderer) SetScaleMultiplier(node int, scale math.Vec3) {
	mr.scales.Set(node, scale)
}

// ScaleMultiplier returns the multiplier of node, one when unset.
func (mr *MeshRenderer) ScaleMultiplier(node int) math.Vec3 {
	return mr.scales.Get(node)
}

// ResetScaleMultipliers removes every multiplier.
func (mr *MeshRenderer) ResetScaleMultipliers() { mr.scales.Reset() }

// SetRootScale sets a uniform scale applied to the whole model.
func (mr *MeshRenderer) SetRootScale(s float32) {
	if s > 0 {
		mr.root = s
	}
}

// RootScale returns the uniform model scale.
func (mr *MeshRenderer) RootScale() float32 { return mr.root }

// RootTransform is the owner transform followed by the root scale.
func (mr *MeshRenderer) RootTransform() math.Mat4 {
	root := math.Scale(math.Vec3{X: mr.root, Y: mr.root, Z: mr.root})
	if o := mr.Object(); o != nil {
		return o.Transform.TRS().Mul(root)
	}
	return root
}

func (mr *MeshRenderer) pose() model.PoseSource {
	if o := mr.Object(); o != nil {
		if a, ok := scene.GetComponent[*animation.Animator](o); ok {
			return a
		}
	}
	return nil
}

// WorldTransforms returns the current world matrix of every node.
func (mr *MeshRenderer) WorldTransforms() []math.Mat4 {
	return model.WorldTransforms(mr.Model(), mr.pose(), &mr.scales, mr.RootTransform())
}

// OnRender draws every primitive of every mesh node.
func (mr *MeshRenderer) OnRender(ctx *scene.Context) {
	if !mr.visible {
		return
	}
	r := scene.MustLookup[*renderer.Renderer](ctx.Resources)
	m := mr.Model()

	r.SetPolygonMode(mr.mode)
	defer r.SetPolygonMode(PolygonFill)

	model.WalkNodes(m, mr.pose(), &mr.scales, mr.RootTransform(), func(node int, world math.Mat4) {
		mesh := m.Nodes[node].Mesh
		for p := range m.Meshes[mesh].Primitives {
			if err := r.DrawPrimitive(mr.gpu, mesh, p, mr.shader, world); err != nil && !mr.logged {
				logger.Error("draw failed",
					zap.String("model", m.Name),
					zap.Int("node", node),
					zap.Error(err),
				)
				mr.logged = true
			}
		}
	})
}
