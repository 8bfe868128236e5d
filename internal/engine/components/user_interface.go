package components

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/internal/engine/camera"
	"github.com/Faultbox/humangl/internal/engine/lighting"
	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/pkg/math"
)

// Block is one section of a UserInterface panel.
type Block interface {
	Title() string
	Draw(ctx *scene.Context, o *scene.Object)
}

// UserInterface draws a panel of blocks for its object during postRender.
type UserInterface struct {
	scene.BaseComponent

	title  string
	blocks []Block
}

// NewUserInterface creates a panel. The title defaults to the object name.
func NewUserInterface(title string, blocks ...Block) *UserInterface {
	return &UserInterface{title: title, blocks: blocks}
}

// AddBlock appends a block.
func (ui *UserInterface) AddBlock(b Block) { ui.blocks = append(ui.blocks, b) }

// OnPostRender draws the panel.
func (ui *UserInterface) OnPostRender(ctx *scene.Context) {
	o := ui.Object()
	if o == nil {
		return
	}
	title := ui.title
	if title == "" {
		title = o.Name
	}

	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 0), imgui.CondFirstUseEver)
	if imgui.BeginV(title+"##"+o.ID.String(), nil, imgui.WindowFlagsNone) {
		for _, b := range ui.blocks {
			if imgui.TreeNodeExStrV(b.Title(), imgui.TreeNodeFlagsDefaultOpen) {
				b.Draw(ctx, o)
				imgui.TreePop()
			}
		}
	}
	imgui.End()
}

// AnimationBlock selects and controls the object's animation.
type AnimationBlock struct{}

func (AnimationBlock) Title() string { return "Animation" }

func (AnimationBlock) Draw(_ *scene.Context, o *scene.Object) {
	a, ok := scene.GetComponent[*animation.Animator](o)
	if !ok {
		imgui.TextDisabled("No animator")
		return
	}

	names := a.AnimationNames()
	current := a.CurrentAnimation()
	preview := "-"
	if current >= 0 && current < len(names) {
		preview = names[current]
	}

	if imgui.BeginCombo("Clip", preview) {
		for i := -1; i < len(names); i++ {
			label := "-"
			if i >= 0 {
				label = names[i]
			}
			if imgui.SelectableBoolV(fmt.Sprintf("%s##%d", label, i), i == current, 0, imgui.NewVec2(0, 0)) {
				if err := a.SetAnimation(i); err != nil {
					logger.Warn("set animation", zap.Error(err))
				}
			}
		}
		imgui.EndCombo()
	}

	speed := a.Speed()
	if imgui.SliderFloatV("Speed", &speed, 0, 3, "%.2fx", imgui.SliderFlagsNone) {
		a.SetSpeed(max(speed, 0))
	}
	paused := a.Paused()
	if imgui.Checkbox("Paused", &paused) {
		a.SetPaused(paused)
	}
	imgui.Text(fmt.Sprintf("Time: %.2f / %.2f s", a.SampleTime(), a.Duration()))
}

// Part names a group of nodes scaled together.
type Part struct {
	Name  string
	Nodes []int
}

// PartsBlock edits per-node scale multipliers by named part.
type PartsBlock struct {
	parts []Part
}

// NewPartsBlock creates a parts table. A leading "All" part covering the
// model roots is added when the model is known at draw time.
func NewPartsBlock(parts ...Part) *PartsBlock {
	return &PartsBlock{parts: parts}
}

func (*PartsBlock) Title() string { return "Parts" }

func (b *PartsBlock) Draw(_ *scene.Context, o *scene.Object) {
	mr, ok := scene.GetComponent[*MeshRenderer](o)
	if !ok {
		imgui.TextDisabled("No mesh renderer")
		return
	}
	m := mr.Model()

	parts := append([]Part{{Name: "All", Nodes: m.Roots}}, b.parts...)
	if imgui.BeginTable("parts", 2) {
		for i, p := range parts {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(p.Name)
			imgui.TableNextColumn()
			if len(p.Nodes) == 0 {
				imgui.TextDisabled("-")
				continue
			}
			value := mr.ScaleMultiplier(p.Nodes[0]).X
			imgui.SetNextItemWidth(-1)
			if imgui.SliderFloatV(fmt.Sprintf("##part%d", i), &value, 0, 3, "%.2f", imgui.SliderFlagsNone) {
				value = max(value, 0)
				for _, n := range p.Nodes {
					if n >= 0 && n < len(m.Nodes) {
						mr.SetScaleMultiplier(n, math.Vec3{X: value, Y: value, Z: value})
					}
				}
			}
		}
		imgui.EndTable()
	}
	if imgui.Button("Reset scales") {
		mr.ResetScaleMultipliers()
	}
}

// CameraBlock points the orbit camera at the object.
type CameraBlock struct{}

func (CameraBlock) Title() string { return "Camera" }

func (CameraBlock) Draw(ctx *scene.Context, o *scene.Object) {
	ctrl, ok := scene.Lookup[*camera.Controller](ctx.Resources)
	if !ok {
		imgui.TextDisabled("No camera controller")
		return
	}
	pitch, yaw := ctrl.Angles()
	imgui.Text(fmt.Sprintf("Distance: %.1f  Pitch: %.0f  Yaw: %.0f",
		ctrl.Distance(), math.Degrees(pitch), math.Degrees(yaw)))

	if imgui.ButtonV("Focus", imgui.NewVec2(-1, 0)) {
		FocusCamera(ctrl, o)
	}
}

// FocusCamera centers ctrl on the object's model bounds, or on its origin
// when it has no mesh.
func FocusCamera(ctrl *camera.Controller, o *scene.Object) {
	target := o.Transform.Translation
	distance := ctrl.Distance()
	if mr, ok := scene.GetComponent[*MeshRenderer](o); ok {
		b := model.SceneBounds(mr.Model(), mr.RootTransform())
		if !b.IsEmpty() {
			target = b.Center()
			distance = b.Size().Length() * 1.2
		}
	}
	ctrl.SetTarget(target, math.Clamp(distance, camera.MinDistance, camera.MaxDistance))
}

// DisplayBlock toggles visibility and the polygon mode.
type DisplayBlock struct{}

func (DisplayBlock) Title() string { return "Display" }

func (DisplayBlock) Draw(_ *scene.Context, o *scene.Object) {
	mr, ok := scene.GetComponent[*MeshRenderer](o)
	if !ok {
		imgui.TextDisabled("No mesh renderer")
		return
	}

	displayed := mr.Displayed()
	if imgui.Checkbox("Displayed", &displayed) {
		mr.SetDisplayed(displayed)
	}

	mode := mr.PolygonMode()
	if imgui.RadioButtonBool("Fill", mode == PolygonFill) {
		mr.SetPolygonMode(PolygonFill)
	}
	imgui.SameLine()
	if imgui.RadioButtonBool("Line", mode == PolygonLine) {
		mr.SetPolygonMode(PolygonLine)
	}
	imgui.SameLine()
	if imgui.RadioButtonBool("Point", mode == PolygonPoint) {
		mr.SetPolygonMode(PolygonPoint)
	}

	if p, ok := scene.GetComponent[*Picker](o); ok {
		imgui.Separator()
		if hit, ok := p.Selected(); ok {
			name := mr.Model().Nodes[hit.Node].Name
			if name == "" {
				name = fmt.Sprintf("node %d", hit.Node)
			}
			imgui.Text("Selected: " + name)
			imgui.SameLine()
			if imgui.Button("Clear") {
				p.ClearSelection()
			}
		} else {
			imgui.TextDisabled("Click the model to select a node")
		}
	}
}

// LightBlock edits the sun on the object.
type LightBlock struct{}

func (LightBlock) Title() string { return "Light" }

func (LightBlock) Draw(_ *scene.Context, o *scene.Object) {
	sun, ok := scene.GetComponent[*lighting.Sun](o)
	if !ok {
		imgui.TextDisabled("No sun")
		return
	}
	imgui.SliderFloatV("Azimuth", &sun.Azimuth, 0, 360, "%.0f deg", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Elevation", &sun.Elevation, -90, 90, "%.0f deg", imgui.SliderFlagsNone)
}
