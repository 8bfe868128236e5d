package animation

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/pkg/math"
)

// ErrAnimationOutOfRange is returned by SetAnimation for an index that is
// neither -1 nor a valid animation.
var ErrAnimationOutOfRange = errors.New("animation index out of range")

// Source provides the animations an Animator can play, typically a model.
type Source interface {
	Animations() []*Animation
}

// AnimatedTransform is the pose override of one node. A channel whose Has
// flag is false keeps the node's authored value.
type AnimatedTransform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3

	HasTranslation bool
	HasRotation    bool
	HasScale       bool
}

// Animator plays one animation of its source at a time and caches the
// resulting pose per node. It is idle while the current index is -1.
type Animator struct {
	scene.BaseComponent

	source  Source
	current int
	changed bool

	time       float64 // seconds since the current animation started
	sampleTime float32 // time wrapped into the clip
	speed      float32
	paused     bool

	pose map[int]AnimatedTransform
}

// NewAnimator creates an idle animator.
func NewAnimator(source Source) *Animator {
	return &Animator{
		source:  source,
		current: -1,
		speed:   1,
		pose:    make(map[int]AnimatedTransform),
	}
}

// SetAnimation selects the animation to play, or -1 to stop. The clock and
// pose are reset on the next update. An invalid index leaves the animator
// untouched.
func (a *Animator) SetAnimation(index int) error {
	n := len(a.source.Animations())
	if index < -1 || index >= n {
		return fmt.Errorf("%w: %d (have %d)", ErrAnimationOutOfRange, index, n)
	}
	a.current = index
	a.changed = true
	return nil
}

// CurrentAnimation returns the selected index, -1 when idle.
func (a *Animator) CurrentAnimation() int { return a.current }

// AnimationNames lists the source's animations in order.
func (a *Animator) AnimationNames() []string {
	anims := a.source.Animations()
	names := make([]string, len(anims))
	for i, anim := range anims {
		names[i] = anim.Name()
		if names[i] == "" {
			names[i] = fmt.Sprintf("animation %d", i)
		}
	}
	return names
}

// Time returns the unwrapped playback time in seconds.
func (a *Animator) Time() float32 { return float32(a.time) }

// SampleTime returns the time the pose was last sampled at.
func (a *Animator) SampleTime() float32 { return a.sampleTime }

// Speed returns the playback rate.
func (a *Animator) Speed() float32 { return a.speed }

// SetSpeed sets the playback rate; 1 is real time.
func (a *Animator) SetSpeed(speed float32) { a.speed = speed }

// Paused reports whether playback is frozen.
func (a *Animator) Paused() bool { return a.paused }

// SetPaused freezes or resumes playback.
func (a *Animator) SetPaused(paused bool) { a.paused = paused }

// Duration returns the current clip length, 0 when idle.
func (a *Animator) Duration() float32 {
	if a.current < 0 {
		return 0
	}
	return a.source.Animations()[a.current].Duration()
}

// NodeTransform returns the pose override of node. Nodes the current
// animation does not drive, and every node while idle, get the zero value.
func (a *Animator) NodeTransform(node int) AnimatedTransform {
	if a.current < 0 {
		return AnimatedTransform{}
	}
	return a.pose[node]
}

// OnUpdate advances playback by the frame delta and samples the pose.
func (a *Animator) OnUpdate(ctx *scene.Context) {
	a.Advance(ctx.Frame.DeltaSeconds())
}

// Advance moves playback forward by delta seconds and resamples the pose.
func (a *Animator) Advance(delta float32) {
	if a.changed {
		a.time = 0
		clear(a.pose)
		a.changed = false
	}
	if a.current < 0 {
		return
	}
	if !a.paused {
		a.time += float64(delta) * float64(a.speed)
	}

	anim := a.source.Animations()[a.current]
	d := anim.Duration()
	a.sampleTime = math.Mod(float32(stdmath.Mod(a.time, float64(d))), d)

	for _, node := range anim.Nodes() {
		an := anim.AnimatedNode(node)
		var tr AnimatedTransform
		if an.Translation >= 0 {
			s := anim.Sampler(an.Translation)
			s.Update(a.sampleTime)
			tr.Translation, tr.HasTranslation = s.Vec3(), true
		}
		if an.Rotation >= 0 {
			s := anim.Sampler(an.Rotation)
			s.Update(a.sampleTime)
			tr.Rotation, tr.HasRotation = s.Quat(), true
		}
		if an.Scale >= 0 {
			s := anim.Sampler(an.Scale)
			s.Update(a.sampleTime)
			tr.Scale, tr.HasScale = s.Vec3(), true
		}
		a.pose[node] = tr
	}
}
