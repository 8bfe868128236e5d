package animation

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/humangl/pkg/math"
)

var (
	v0 = math.Vec3{X: 1, Y: 2, Z: 3}
	v1 = math.Vec3{X: 5, Y: -2, Z: 0}
	v2 = math.Vec3{X: 0, Y: 10, Z: 10}
)

func TestSamplerClampsBeforeFirstKeyframe(t *testing.T) {
	s := linearVec3(t, []float32{0.5, 1, 2}, v0, v1, v2)

	for _, tm := range []float32{-3, 0, 0.5} {
		s.Update(tm)
		assert.Equal(t, v0, s.Vec3(), "t=%v", tm)
	}
	s.Update(-1)
	prev, next, f := s.Keyframes()
	assert.Equal(t, []any{0, 0, float32(0)}, []any{prev, next, f})
}

func TestSamplerClampsAtOrAfterLastKeyframe(t *testing.T) {
	s := linearVec3(t, []float32{0.5, 1, 2}, v0, v1, v2)

	for _, tm := range []float32{2, 2.0001, 100} {
		s.Update(tm)
		assert.Equal(t, v2, s.Vec3(), "t=%v", tm)
	}
	prev, next, f := s.Keyframes()
	assert.Equal(t, []any{2, 2, float32(1)}, []any{prev, next, f})
}

func TestSamplerLinearBetweenKeyframes(t *testing.T) {
	times := []float32{0.5, 1, 2}
	s := linearVec3(t, times, v0, v1, v2)

	tests := []struct {
		t      float32
		a, b   math.Vec3
		t0, t1 float32
	}{
		{0.6, v0, v1, 0.5, 1},
		{0.75, v0, v1, 0.5, 1},
		{1, v1, v2, 1, 2},
		{1.3, v1, v2, 1, 2},
		{1.999, v1, v2, 1, 2},
	}
	for _, tt := range tests {
		s.Update(tt.t)
		f := (tt.t - tt.t0) / (tt.t1 - tt.t0)
		want := tt.a.Add(tt.b.Sub(tt.a).Scale(f))
		assert.True(t, s.Vec3().ApproxEqual(want, 1e-5), "t=%v: got %v want %v", tt.t, s.Vec3(), want)
	}
}

func TestSamplerDuplicateTimestamps(t *testing.T) {
	s := linearVec3(t, []float32{0, 1, 1, 2}, v0, v1, v2, v0)

	s.Update(1)
	prev, next, f := s.Keyframes()
	assert.Equal(t, 2, prev)
	assert.Equal(t, 3, next)
	assert.Equal(t, float32(0), f)
	assert.Equal(t, v2, s.Vec3())
	assert.False(t, stdmath.IsNaN(float64(s.Vec3().X)))
}

func TestSamplerZeroLengthInterval(t *testing.T) {
	// Keys sharing a time must never yield a NaN fraction.
	s := linearVec3(t, []float32{1, 1}, v0, v1)
	s.Update(0.5)
	assert.Equal(t, v0, s.Vec3())
	s.Update(1)
	assert.Equal(t, v1, s.Vec3())
}

func TestSamplerStep(t *testing.T) {
	s, err := NewSampler(scalarView(t, 0, 1, 2), vec3View(t, v0, v1, v2), Step)
	require.NoError(t, err)

	s.Update(0.99)
	assert.Equal(t, v0, s.Vec3())
	s.Update(1.5)
	assert.Equal(t, v1, s.Vec3())
	s.Update(2)
	assert.Equal(t, v2, s.Vec3())
}

func TestSamplerSingleKeyframe(t *testing.T) {
	s := linearVec3(t, []float32{0.25}, v1)
	for _, tm := range []float32{0, 0.25, 9} {
		s.Update(tm)
		assert.Equal(t, v1, s.Vec3())
	}
	assert.Equal(t, float32(0.25), s.LastTime())
	assert.Equal(t, float32(0.25), s.FirstTime())
}

func TestSamplerReadBeforeUpdatePanics(t *testing.T) {
	s := linearVec3(t, []float32{0, 1}, v0, v1)
	assert.Panics(t, func() { s.Vec3() })
	assert.Panics(t, func() { s.Quat() })
	assert.Panics(t, func() { s.Keyframes() })
}

func TestSamplerQuatSlerp(t *testing.T) {
	q0 := math.QuatIdentity()
	q1 := math.QuatFromAxisAngle(math.Vec3{Y: 1}, stdmath.Pi/2)
	s, err := NewSampler(scalarView(t, 0, 1), quatView(t, q0, q1), Linear)
	require.NoError(t, err)

	s.Update(0)
	assert.True(t, s.Quat().ApproxEqual(q0, 1e-6))
	s.Update(1)
	assert.True(t, s.Quat().ApproxEqual(q1, 1e-6))

	s.Update(0.5)
	want := math.QuatFromAxisAngle(math.Vec3{Y: 1}, stdmath.Pi/4)
	assert.True(t, s.Quat().ApproxEqual(want, 1e-5), "got %v want %v", s.Quat(), want)
}

func TestSamplerQuatTakesShorterArc(t *testing.T) {
	q0 := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.1)
	q1 := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.5).Neg()
	s, err := NewSampler(scalarView(t, 0, 1), quatView(t, q0, q1), Linear)
	require.NoError(t, err)

	s.Update(0.5)
	want := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.3)
	assert.True(t, s.Quat().SameRotation(want, 1e-5), "got %v", s.Quat())
	assert.GreaterOrEqual(t, s.Quat().Dot(q0), float32(0))
}

func TestSamplerCubicSpline(t *testing.T) {
	zero := math.Vec3{}
	// (in-tangent, value, out-tangent) per keyframe, all tangents zero.
	out := vec3View(t,
		zero, math.Vec3{X: 0}, zero,
		zero, math.Vec3{X: 10}, zero,
	)
	s, err := NewSampler(scalarView(t, 0, 2), out, CubicSpline)
	require.NoError(t, err)

	s.Update(0)
	assert.Equal(t, math.Vec3{X: 0}, s.Vec3())
	s.Update(2)
	assert.Equal(t, math.Vec3{X: 10}, s.Vec3())

	// Zero tangents reduce the Hermite curve to smoothstep.
	s.Update(0.5)
	f := float32(0.25)
	assert.InDelta(t, 10*(3*f*f-2*f*f*f), s.Vec3().X, 1e-5)
}

func TestSamplerCubicSplineTangents(t *testing.T) {
	// A straight line with slope 1 is reproduced exactly.
	one := math.Vec3{X: 1}
	out := vec3View(t,
		one, math.Vec3{X: 0}, one,
		one, math.Vec3{X: 4}, one,
	)
	s, err := NewSampler(scalarView(t, 0, 4), out, CubicSpline)
	require.NoError(t, err)

	for _, tm := range []float32{0.5, 1, 2.5, 3.9} {
		s.Update(tm)
		assert.InDelta(t, tm, s.Vec3().X, 1e-5)
	}
}

func TestNewSamplerValidation(t *testing.T) {
	_, err := NewSampler(scalarView(t, 0, 1), vec3View(t, v0), Linear)
	assert.Error(t, err, "output count mismatch")

	_, err = NewSampler(scalarView(t, 0, 1), vec3View(t, v0, v1), CubicSpline)
	assert.Error(t, err, "cubic spline needs triples")

	_, err = NewSampler(scalarView(t, 1, 0.5), vec3View(t, v0, v1), Linear)
	assert.Error(t, err, "decreasing times")

	_, err = NewSampler(vec3View(t, v0, v1), vec3View(t, v0, v1), Linear)
	assert.Error(t, err, "non-scalar input")
}
