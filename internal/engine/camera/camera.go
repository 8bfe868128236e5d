// Package camera provides the perspective camera component and an orbit
// controller that drives it from keyboard and mouse input.
package camera

import (
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/pkg/math"
)

// Default projection settings.
const (
	DefaultFOV  = 60.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Camera projects the scene from its owner's transform.
type Camera struct {
	scene.BaseComponent

	FOV  float32 // vertical field of view, degrees
	Near float32
	Far  float32

	width, height int
}

// New creates a camera for a viewport of the given size.
func New(width, height int) *Camera {
	return &Camera{
		FOV:    DefaultFOV,
		Near:   DefaultNear,
		Far:    DefaultFar,
		width:  width,
		height: height,
	}
}

// SetViewport updates the aspect ratio source. Non-positive sizes are
// ignored so a collapsed window keeps the last projection.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
}

// Viewport returns the current viewport size.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// Aspect returns width / height, or 1 for an empty viewport.
func (c *Camera) Aspect() float32 {
	if c.height <= 0 {
		return 1
	}
	return float32(c.width) / float32(c.height)
}

// Projection returns the perspective matrix.
func (c *Camera) Projection() math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), c.Aspect(), c.Near, c.Far)
}

// View returns the view matrix looking down the owner's forward axis.
func (c *Camera) View() math.Mat4 {
	t := c.transform()
	return math.LookAt(t.Translation, t.Translation.Add(t.Forward()), t.Up())
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.Projection().Mul(c.View())
}

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 {
	return c.transform().Translation
}

func (c *Camera) transform() scene.Transform {
	if o := c.Object(); o != nil {
		return o.Transform
	}
	return scene.NewTransform()
}
