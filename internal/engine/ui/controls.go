package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/humangl/internal/engine/input"
	"github.com/Faultbox/humangl/pkg/math"
)

var imguiKeys = map[input.Key]imgui.Key{
	input.KeyW:      imgui.KeyW,
	input.KeyA:      imgui.KeyA,
	input.KeyS:      imgui.KeyS,
	input.KeyD:      imgui.KeyD,
	input.KeyQ:      imgui.KeyQ,
	input.KeyE:      imgui.KeyE,
	input.KeyR:      imgui.KeyR,
	input.KeyF12:    imgui.KeyF12,
	input.KeyEscape: imgui.KeyEscape,
}

var imguiButtons = [...]imgui.MouseButton{
	input.MouseLeft:   imgui.MouseButtonLeft,
	input.MouseRight:  imgui.MouseButtonRight,
	input.MouseMiddle: imgui.MouseButtonMiddle,
}

// Controls reads the keyboard and mouse through ImGui.
type Controls struct{}

// IsKeyDown checks if a key is currently held down.
func (Controls) IsKeyDown(key input.Key) bool {
	k, ok := imguiKeys[key]
	return ok && imgui.IsKeyDown(k)
}

// IsKeyPressed checks if a key was pressed this frame.
func (Controls) IsKeyPressed(key input.Key) bool {
	k, ok := imguiKeys[key]
	return ok && imgui.IsKeyChordPressed(imgui.KeyChord(k))
}

// Snapshot samples the device state. Mouse coordinates are made relative to
// view, and keys are reported up while a text field has focus.
func (c Controls) Snapshot(view *Viewport) input.Snapshot {
	io := imgui.CurrentIO()
	s := input.Snapshot{Keys: make(map[input.Key]bool, len(imguiKeys))}

	if !io.WantTextInput() {
		for k := range imguiKeys {
			s.Keys[k] = c.IsKeyDown(k)
		}
	}

	for b, ib := range imguiButtons {
		s.Buttons[b] = imgui.IsMouseDown(ib)
	}

	mouse := imgui.MousePos()
	s.Mouse = math.Vec2{X: mouse.X, Y: mouse.Y}
	if view != nil {
		s.Mouse = view.Local(s.Mouse)
		s.Hovered = view.Hovered()
	}
	s.Scroll = io.MouseWheel()
	return s
}
