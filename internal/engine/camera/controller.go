package camera

import (
	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/pkg/math"
)

// Orbit limits.
const (
	MinDistance     = 1.0
	MaxDistance     = 20.0
	ResetDistance   = 5.0
	DefaultDistance = 10.0
	zoomSpeed       = 3.0
)

// Controller orbits its owner around a target point. W/S change pitch, A/D
// yaw, Q/E move away and closer, R resets the orbit. Mouse drags rotate and
// the wheel zooms when an *input.Input resource is present.
type Controller struct {
	scene.BaseComponent

	target   math.Vec3
	distance float32
	pitch    float32
	yaw      float32

	DragSensitivity float32
	ZoomSensitivity float32

	lastMouse math.Vec2
	dragging  bool
}

// NewController creates a controller looking at target from distance.
func NewController(target math.Vec3, distance float32) *Controller {
	return &Controller{
		target:          target,
		distance:        math.Clamp(distance, MinDistance, MaxDistance),
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// SetTarget refocuses the orbit and resets its angles.
func (c *Controller) SetTarget(target math.Vec3, distance float32) {
	c.target = target
	c.distance = math.Clamp(distance, MinDistance, MaxDistance)
	c.pitch, c.yaw = 0, 0
}

// Target returns the orbit center.
func (c *Controller) Target() math.Vec3 { return c.target }

// Distance returns the orbit radius.
func (c *Controller) Distance() float32 { return c.distance }

// Angles returns pitch and yaw in radians.
func (c *Controller) Angles() (pitch, yaw float32) { return c.pitch, c.yaw }

// OnUpdate applies input and writes the owner transform.
func (c *Controller) OnUpdate(ctx *scene.Context) {
	if keys, ok := scene.Lookup[input.KeyState](ctx.Resources); ok {
		c.HandleKeys(keys, ctx.Frame.DeltaSeconds())
	}
	if in, ok := scene.Lookup[*input.Input](ctx.Resources); ok {
		c.handleMouse(in)
	}
	c.Apply()
}

// HandleKeys moves the orbit for delta seconds of held keys.
func (c *Controller) HandleKeys(keys input.KeyState, delta float32) {
	if keys.IsKeyDown(input.KeyA) {
		c.yaw += delta
	}
	if keys.IsKeyDown(input.KeyD) {
		c.yaw -= delta
	}
	if keys.IsKeyDown(input.KeyW) {
		c.pitch += delta
	}
	if keys.IsKeyDown(input.KeyS) {
		c.pitch -= delta
	}
	if keys.IsKeyDown(input.KeyQ) {
		c.distance += delta * zoomSpeed
	}
	if keys.IsKeyDown(input.KeyE) {
		c.distance -= delta * zoomSpeed
	}
	if keys.IsKeyDown(input.KeyR) {
		c.pitch, c.yaw = 0, 0
		c.distance = ResetDistance
	}
	c.distance = math.Clamp(c.distance, MinDistance, MaxDistance)
}

// HandleDrag rotates the orbit by a cursor movement in pixels.
func (c *Controller) HandleDrag(dx, dy float32) {
	c.yaw -= dx * c.DragSensitivity
	c.pitch -= dy * c.DragSensitivity
}

// HandleZoom scales the distance by a wheel movement.
func (c *Controller) HandleZoom(delta float32) {
	c.distance -= delta * c.distance * c.ZoomSensitivity
	c.distance = math.Clamp(c.distance, MinDistance, MaxDistance)
}

func (c *Controller) handleMouse(in *input.Input) {
	if s := in.Scroll(); s != 0 {
		c.HandleZoom(s)
	}

	pos := in.Mouse()
	if _, clicked := in.Clicked(input.MouseRight); clicked {
		c.dragging = true
		c.lastMouse = pos
	}
	if !in.IsMouseDown(input.MouseRight) {
		c.dragging = false
		return
	}
	if c.dragging {
		d := pos.Sub(c.lastMouse)
		c.HandleDrag(d.X, d.Y)
		c.lastMouse = pos
	}
}

// Rotation returns the orbit orientation.
func (c *Controller) Rotation() math.Quat {
	return math.QuatFromEuler(c.pitch, c.yaw, 0)
}

// Position returns where the orbit places the camera.
func (c *Controller) Position() math.Vec3 {
	forward := c.Rotation().Rotate(math.Vec3{Z: -1})
	return c.target.Sub(forward.Scale(c.distance))
}

// Apply writes the orbit into the owner transform.
func (c *Controller) Apply() {
	o := c.Object()
	if o == nil {
		return
	}
	o.Transform.Translation = c.Position()
	o.Transform.Rotation = c.Rotation()
}
