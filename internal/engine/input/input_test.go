package input

import (
	"testing"

	"github.com/Faultbox/humangl/pkg/math"
)

func TestKeyHeldAcrossFrames(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: KeyW})

	if !in.IsKeyDown(KeyW) || !in.IsKeyPressed(KeyW) {
		t.Fatal("expected W down and pressed in the first frame")
	}

	in.BeginFrame()
	if !in.IsKeyDown(KeyW) {
		t.Error("expected W still held")
	}
	if in.IsKeyPressed(KeyW) {
		t.Error("expected no press in the second frame")
	}

	in.Push(Event{Type: EventKeyUp, Key: KeyW})
	if in.IsKeyDown(KeyW) {
		t.Error("expected W released")
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: Key(99)})
	if in.IsKeyDown(Key(99)) || in.IsKeyDown(KeyUnknown) {
		t.Error("unknown keys must never read as down")
	}
}

func TestMouse(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventMouseMove, Mouse: math.Vec2{X: 5, Y: 6}})
	in.Push(Event{Type: EventMouseDown, Button: MouseLeft, Mouse: math.Vec2{X: 10, Y: 20}})
	in.Push(Event{Type: EventScroll, Scroll: 1})
	in.Push(Event{Type: EventScroll, Scroll: 0.5})

	pos, ok := in.Clicked(MouseLeft)
	if !ok || pos != (math.Vec2{X: 10, Y: 20}) {
		t.Errorf("expected click at (10,20), got %v %v", pos, ok)
	}
	if _, ok := in.Clicked(MouseRight); ok {
		t.Error("unexpected right click")
	}
	if !in.IsMouseDown(MouseLeft) {
		t.Error("expected left button held")
	}
	if in.Mouse() != (math.Vec2{X: 10, Y: 20}) {
		t.Errorf("unexpected cursor %v", in.Mouse())
	}
	if in.Scroll() != 1.5 {
		t.Errorf("expected scroll 1.5, got %f", in.Scroll())
	}

	in.BeginFrame()
	if in.Scroll() != 0 || len(in.Events()) != 0 {
		t.Error("expected per-frame state cleared")
	}
	if !in.IsMouseDown(MouseLeft) {
		t.Error("expected button still held")
	}
}

func TestKeyString(t *testing.T) {
	tests := map[Key]string{KeyW: "W", KeyF12: "F12", KeyEscape: "Escape", KeyUnknown: "Unknown"}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d: expected %q, got %q", k, want, got)
		}
	}
}

func TestSync(t *testing.T) {
	in := New()

	in.Sync(Snapshot{
		Keys:    map[Key]bool{KeyA: true},
		Mouse:   math.Vec2{X: 10, Y: 20},
		Hovered: true,
		Scroll:  1,
	})
	if !in.IsKeyPressed(KeyA) || !in.IsKeyDown(KeyA) {
		t.Error("expected A pressed on the first snapshot")
	}
	if got := in.Scroll(); got != 1 {
		t.Errorf("Scroll() = %v, want 1", got)
	}

	in.Sync(Snapshot{
		Keys:    map[Key]bool{KeyA: true},
		Mouse:   math.Vec2{X: 10, Y: 20},
		Hovered: true,
	})
	if in.IsKeyPressed(KeyA) {
		t.Error("held key must not be pressed again")
	}
	if len(in.Events()) != 0 {
		t.Errorf("unchanged snapshot produced %d events", len(in.Events()))
	}

	in.Sync(Snapshot{Mouse: math.Vec2{X: 10, Y: 20}, Hovered: true})
	if in.IsKeyDown(KeyA) {
		t.Error("expected A released")
	}
}

func TestSyncIgnoresPressesOutsideView(t *testing.T) {
	in := New()

	var s Snapshot
	s.Buttons[MouseLeft] = true
	s.Scroll = 2
	in.Sync(s)
	if in.IsMouseDown(MouseLeft) {
		t.Error("press outside the view must be dropped")
	}
	if in.Scroll() != 0 {
		t.Error("scroll outside the view must be dropped")
	}

	s.Hovered = true
	s.Scroll = 0
	in.Sync(s)
	if _, ok := in.Clicked(MouseLeft); !ok {
		t.Error("expected click once the cursor is over the view")
	}

	// Release outside the view still reaches the held state.
	in.Sync(Snapshot{})
	if in.IsMouseDown(MouseLeft) {
		t.Error("expected release outside the view")
	}
}
