package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/humangl/pkg/math"
)

// Viewport is the window that shows the off-screen 3D render. It remembers
// where the image was drawn so input can be mapped into it next frame.
type Viewport struct {
	title   string
	pos     math.Vec2
	size    math.Vec2
	hovered bool
}

// NewViewport creates a viewport window with the given title.
func NewViewport(title string) *Viewport {
	return &Viewport{title: title}
}

// Draw shows texture scaled to the window's content region. It returns the
// content size so the caller can resize the render target.
func (v *Viewport) Draw(texture uint32) (width, height int32) {
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	defer imgui.PopStyleVar()

	flags := imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoCollapse
	if imgui.BeginV(v.title, nil, flags) {
		avail := imgui.ContentRegionAvail()
		origin := imgui.CursorScreenPos()
		v.pos = math.Vec2{X: origin.X, Y: origin.Y}
		v.size = math.Vec2{X: avail.X, Y: avail.Y}

		if texture != 0 && avail.X > 0 && avail.Y > 0 {
			// Flip V for OpenGL.
			texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
			imgui.ImageV(*texRef,
				avail,
				imgui.NewVec2(0, 1),
				imgui.NewVec2(1, 0))
			v.hovered = imgui.IsItemHovered()
		} else {
			v.hovered = false
		}
	} else {
		v.hovered = false
	}
	imgui.End()

	return int32(v.size.X), int32(v.size.Y)
}

// Local converts a screen position into viewport pixels.
func (v *Viewport) Local(screen math.Vec2) math.Vec2 {
	return screen.Sub(v.pos)
}

// Size returns the last drawn size in pixels.
func (v *Viewport) Size() math.Vec2 { return v.size }

// Hovered reports whether the cursor was over the image last frame.
func (v *Viewport) Hovered() bool { return v.hovered }
