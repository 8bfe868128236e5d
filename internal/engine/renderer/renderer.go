// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/renderer/glstate"
	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/pkg/math"
)

// DefaultClearColor is the sky blue behind the model.
var DefaultClearColor = math.Vec4{X: 0.4705882353, Y: 0.6549019608, Z: 1.0, W: 1.0}

// Texture units used by the material textures.
const (
	UnitBaseColor         = 0
	UnitMetallicRoughness = 1
	UnitNormal            = 2
	UnitEmissive          = 3
)

// Renderer handles all OpenGL rendering.
type Renderer struct {
	state      *glstate.Cache
	clearColor math.Vec4
	lightDir   math.Vec3
	culling    bool
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	r := &Renderer{
		state:      glstate.New(glTable()),
		clearColor: DefaultClearColor,
		lightDir:   math.Vec3{X: -0.4, Y: -1, Z: -0.6}.Normalize(),
	}
	r.Reset()
	return r, nil
}

func glTable() glstate.GL {
	return glstate.GL{
		UseProgram:      gl.UseProgram,
		BindVertexArray: gl.BindVertexArray,
		BindBuffer:      gl.BindBuffer,
		ActiveTexture:   func(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) },
		BindTexture:     gl.BindTexture,
		PolygonMode:     gl.PolygonMode,
	}
}

// Reset restores the fixed-function state the scene expects and forgets
// cached bindings. Call it after the UI has rendered.
func (r *Renderer) Reset() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	r.culling = true
	r.state.Invalidate()
}

// State returns the binding cache shared by everything that draws.
func (r *Renderer) State() *glstate.Cache { return r.state }

// SetClearColor changes the background color.
func (r *Renderer) SetClearColor(c math.Vec4) { r.clearColor = c }

// SetLightDirection sets the direction of the single directional light.
func (r *Renderer) SetLightDirection(d math.Vec3) { r.lightDir = d.Normalize() }

// Clear clears color and depth.
func (r *Renderer) Clear() {
	c := r.clearColor
	gl.ClearColor(c.X, c.Y, c.Z, c.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetPolygonMode switches between fill, line and point rasterization.
func (r *Renderer) SetPolygonMode(mode uint32) {
	r.state.SetPolygonMode(mode)
}

func (r *Renderer) setCulling(enabled bool) {
	if enabled == r.culling {
		return
	}
	if enabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	r.culling = enabled
}

// DrawPrimitive draws one primitive of an uploaded model with the variant
// of variants matching its flags. The variant must already be enabled.
func (r *Renderer) DrawPrimitive(gm *GPUModel, mesh, prim int, variants *shader.Variants, world math.Mat4) error {
	m := gm.model
	p := &m.Meshes[mesh].Primitives[prim]
	flags := m.ShaderFlags(p)
	prog, err := variants.Program(flags)
	if err != nil {
		return err
	}

	mat := m.Material(p)
	r.state.UseProgram(prog.ID())
	prog.SetMat4("u_transform", world)
	prog.SetVec4("u_baseColorFactor", mat.BaseColorFactor)
	prog.SetVec3("u_emissiveFactor", mat.EmissiveFactor)
	prog.SetVec3("u_lightDirection", r.lightDir)

	if mat.BaseColorTexture >= 0 {
		prog.SetInt("u_baseColorTexture", UnitBaseColor)
		r.state.BindTexture(UnitBaseColor, gm.texture(mat.BaseColorTexture))
	}
	if mat.MetallicRoughnessTexture >= 0 {
		prog.SetInt("u_metallicRoughnessMap", UnitMetallicRoughness)
		r.state.BindTexture(UnitMetallicRoughness, gm.texture(mat.MetallicRoughnessTexture))
	}
	if mat.NormalTexture >= 0 {
		prog.SetInt("u_normalMap", UnitNormal)
		prog.SetFloat("u_normalScale", mat.NormalScale)
		r.state.BindTexture(UnitNormal, gm.texture(mat.NormalTexture))
	}
	if mat.EmissiveTexture >= 0 {
		prog.SetInt("u_emissiveMap", UnitEmissive)
		r.state.BindTexture(UnitEmissive, gm.texture(mat.EmissiveTexture))
	}
	r.setCulling(!mat.DoubleSided)

	r.state.BindVertexArray(gm.vaos[mesh][prim])
	if p.Indices >= 0 {
		idx := &m.Accessors[p.Indices]
		gl.DrawElements(p.Mode, int32(idx.Count), idx.ComponentType, gl.PtrOffset(idx.ByteOffset))
	} else if count := gm.vertexCount(p); count > 0 {
		gl.DrawArrays(p.Mode, 0, int32(count))
	}
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.state.BindVertexArray(0)
	r.state.UseProgram(0)
}
