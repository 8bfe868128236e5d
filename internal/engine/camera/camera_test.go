package camera

import (
	"testing"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/pkg/math"
)

const eps = 1e-4

func near(a, b float32) bool { return math32.Abs(a-b) < eps }

type heldKeys map[input.Key]bool

func (h heldKeys) IsKeyDown(k input.Key) bool    { return h[k] }
func (h heldKeys) IsKeyPressed(k input.Key) bool { return h[k] }

func TestControllerPlacesCameraBehindTarget(t *testing.T) {
	c := NewController(math.Vec3{X: 1, Y: 2, Z: 3}, 10)
	pos := c.Position()
	if !near(pos.X, 1) || !near(pos.Y, 2) || !near(pos.Z, 13) {
		t.Errorf("expected (1,2,13), got %v", pos)
	}
}

func TestControllerKeys(t *testing.T) {
	tests := []struct {
		name     string
		keys     heldKeys
		pitch    float32
		yaw      float32
		distance float32
	}{
		{"yaw left", heldKeys{input.KeyA: true}, 0, 0.5, 10},
		{"yaw right", heldKeys{input.KeyD: true}, 0, -0.5, 10},
		{"pitch up", heldKeys{input.KeyW: true}, 0.5, 0, 10},
		{"pitch down", heldKeys{input.KeyS: true}, -0.5, 0, 10},
		{"zoom out", heldKeys{input.KeyQ: true}, 0, 0, 11.5},
		{"zoom in", heldKeys{input.KeyE: true}, 0, 0, 8.5},
		{"reset", heldKeys{input.KeyR: true, input.KeyA: true}, 0, 0, ResetDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(math.Vec3{}, 10)
			c.HandleKeys(tt.keys, 0.5)
			pitch, yaw := c.Angles()
			if !near(pitch, tt.pitch) || !near(yaw, tt.yaw) || !near(c.Distance(), tt.distance) {
				t.Errorf("got pitch %f yaw %f distance %f", pitch, yaw, c.Distance())
			}
		})
	}
}

func TestControllerClampsDistance(t *testing.T) {
	c := NewController(math.Vec3{}, 19)
	c.HandleKeys(heldKeys{input.KeyQ: true}, 10)
	if c.Distance() != MaxDistance {
		t.Errorf("expected %v, got %f", MaxDistance, c.Distance())
	}
	c.HandleKeys(heldKeys{input.KeyE: true}, 100)
	if c.Distance() != MinDistance {
		t.Errorf("expected %v, got %f", MinDistance, c.Distance())
	}
	c.HandleZoom(-1000)
	if c.Distance() != MaxDistance {
		t.Errorf("expected zoom clamped to %v, got %f", MaxDistance, c.Distance())
	}
}

func TestCameraLooksAtTarget(t *testing.T) {
	obj := scene.NewObject("camera")
	cam, err := scene.AddComponent(obj, New(800, 600))
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := scene.AddComponent(obj, NewController(math.Vec3{Y: 1}, 4))
	if err != nil {
		t.Fatal(err)
	}

	ctx := scene.NewContext()
	ctx.Frame.Delta = 16 * time.Millisecond
	scene.Provide[input.KeyState](ctx.Resources, heldKeys{input.KeyA: true})
	ctrl.OnUpdate(ctx)

	// The target sits straight ahead on the view axis.
	p := cam.View().TransformPoint(math.Vec3{Y: 1})
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -4) {
		t.Errorf("expected target at (0,0,-4) in view space, got %v", p)
	}
}

func TestCameraAspect(t *testing.T) {
	c := New(800, 400)
	if c.Aspect() != 2 {
		t.Errorf("expected aspect 2, got %f", c.Aspect())
	}
	c.SetViewport(0, 100)
	if w, h := c.Viewport(); w != 800 || h != 400 {
		t.Errorf("expected viewport unchanged, got %dx%d", w, h)
	}
}

func TestControllerDrag(t *testing.T) {
	c := NewController(math.Vec3{}, 5)
	in := input.New()
	in.Push(input.Event{Type: input.EventMouseDown, Button: input.MouseRight, Mouse: math.Vec2{X: 100, Y: 100}})
	c.handleMouse(in)

	in.BeginFrame()
	in.Push(input.Event{Type: input.EventMouseMove, Mouse: math.Vec2{X: 120, Y: 100}})
	c.handleMouse(in)

	_, yaw := c.Angles()
	if !near(yaw, -20*c.DragSensitivity) {
		t.Errorf("expected yaw %f, got %f", -20*c.DragSensitivity, yaw)
	}
}
