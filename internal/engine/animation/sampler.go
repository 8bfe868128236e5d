package animation

import (
	"fmt"
	"sort"

	"github.com/Faultbox/humangl/pkg/math"
)

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "LINEAR"
	case Step:
		return "STEP"
	case CubicSpline:
		return "CUBICSPLINE"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// Sampler is one channel's keyframe track. Update positions it at a time;
// the value accessors then interpolate between the bracketing keyframes.
type Sampler struct {
	input  KeyframeView // keyframe times, strictly ordered
	output KeyframeView // values, or (in-tangent, value, out-tangent) triples for CubicSpline
	interp Interpolation

	prev, next int
	fraction   float32
	interval   float32 // next time - prev time, used by CubicSpline
	updated    bool
}

// NewSampler validates a track. input must be a scalar view of
// non-decreasing times; output must hold one value per keyframe, or three
// for CubicSpline.
func NewSampler(input, output KeyframeView, interp Interpolation) (*Sampler, error) {
	if input.Kind() != Scalar {
		return nil, fmt.Errorf("sampler input must be scalar, got %d components", input.Kind())
	}
	want := input.Count()
	if interp == CubicSpline {
		want *= 3
	}
	if output.Count() != want {
		return nil, fmt.Errorf("sampler %s: %d keyframes need %d output values, got %d",
			interp, input.Count(), want, output.Count())
	}
	for i := 1; i < input.Count(); i++ {
		if input.Float(i) < input.Float(i-1) {
			return nil, fmt.Errorf("sampler keyframe times decrease at index %d", i)
		}
	}
	return &Sampler{input: input, output: output, interp: interp}, nil
}

// Interpolation returns the sampler's mode.
func (s *Sampler) Interpolation() Interpolation { return s.interp }

// OutputKind returns the element kind of the sampled values.
func (s *Sampler) OutputKind() ElementKind { return s.output.Kind() }

// Count returns the number of keyframes.
func (s *Sampler) Count() int { return s.input.Count() }

// FirstTime returns the first keyframe time.
func (s *Sampler) FirstTime() float32 { return s.input.Float(0) }

// LastTime returns the last keyframe time.
func (s *Sampler) LastTime() float32 { return s.input.Float(s.input.Count() - 1) }

// Update locates t between two keyframes. Times before the first keyframe
// clamp to it, times at or after the last clamp to the last.
func (s *Sampler) Update(t float32) {
	n := s.input.Count()
	upper := sort.Search(n, func(i int) bool { return s.input.Float(i) > t })

	switch upper {
	case 0:
		s.prev, s.next, s.fraction, s.interval = 0, 0, 0, 0
	case n:
		s.prev, s.next, s.fraction, s.interval = n-1, n-1, 1, 0
	default:
		s.prev, s.next = upper-1, upper
		t0, t1 := s.input.Float(s.prev), s.input.Float(s.next)
		s.interval = t1 - t0
		if s.interval > 0 {
			s.fraction = (t - t0) / s.interval
		} else {
			s.fraction = 0
		}
		if s.interp == Step {
			s.fraction = 0
		}
	}
	s.updated = true
}

// Keyframes returns the bracketing indices and fraction from the last Update.
func (s *Sampler) Keyframes() (prev, next int, fraction float32) {
	s.mustBeUpdated()
	return s.prev, s.next, s.fraction
}

func (s *Sampler) mustBeUpdated() {
	if !s.updated {
		panic("animation: sampler value read before Update")
	}
}

// Vec3 returns the interpolated 3-component value.
func (s *Sampler) Vec3() math.Vec3 {
	s.mustBeUpdated()
	if s.interp == CubicSpline {
		v := s.cubic()
		return v.Vec3()
	}
	return s.output.Vec3(s.prev).Lerp(s.output.Vec3(s.next), s.fraction)
}

// Vec4 returns the interpolated 4-component value.
func (s *Sampler) Vec4() math.Vec4 {
	s.mustBeUpdated()
	if s.interp == CubicSpline {
		return s.cubic()
	}
	return s.output.Vec4(s.prev).Lerp(s.output.Vec4(s.next), s.fraction)
}

// Quat returns the interpolated rotation using slerp.
func (s *Sampler) Quat() math.Quat {
	s.mustBeUpdated()
	if s.interp == CubicSpline {
		return math.Quat(s.cubic()).Normalize()
	}
	return s.output.Quat(s.prev).Slerp(s.output.Quat(s.next), s.fraction)
}

// cubic evaluates the Hermite spline between prev and next.
func (s *Sampler) cubic() math.Vec4 {
	value := func(k, part int) math.Vec4 {
		i := 3*k + part
		if s.output.Kind() == Vec3 {
			return s.output.Vec3(i).Vec4(0)
		}
		return s.output.Vec4(i)
	}

	v0 := value(s.prev, 1)
	if s.prev == s.next {
		return v0
	}
	b0 := value(s.prev, 2).Scale(s.interval) // out-tangent
	a1 := value(s.next, 0).Scale(s.interval) // in-tangent
	v1 := value(s.next, 1)

	t := s.fraction
	t2 := t * t
	t3 := t2 * t
	return v0.Scale(2*t3 - 3*t2 + 1).
		Add(b0.Scale(t3 - 2*t2 + t)).
		Add(v1.Scale(-2*t3 + 3*t2)).
		Add(a1.Scale(t3 - t2))
}
