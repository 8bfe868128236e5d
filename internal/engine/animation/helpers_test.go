package animation

import (
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/humangl/pkg/math"
)

func floatBytes(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], stdmath.Float32bits(v))
	}
	return buf
}

func scalarView(t *testing.T, vals ...float32) KeyframeView {
	t.Helper()
	v, err := NewKeyframeView(floatBytes(vals...), 0, 0, len(vals), Scalar, Float32)
	require.NoError(t, err)
	return v
}

func vec3View(t *testing.T, vals ...math.Vec3) KeyframeView {
	t.Helper()
	flat := make([]float32, 0, 3*len(vals))
	for _, v := range vals {
		flat = append(flat, v.X, v.Y, v.Z)
	}
	v, err := NewKeyframeView(floatBytes(flat...), 0, 0, len(vals), Vec3, Float32)
	require.NoError(t, err)
	return v
}

func quatView(t *testing.T, vals ...math.Quat) KeyframeView {
	t.Helper()
	flat := make([]float32, 0, 4*len(vals))
	for _, q := range vals {
		flat = append(flat, q.X, q.Y, q.Z, q.W)
	}
	v, err := NewKeyframeView(floatBytes(flat...), 0, 0, len(vals), Vec4, Float32)
	require.NoError(t, err)
	return v
}

func linearVec3(t *testing.T, times []float32, vals ...math.Vec3) *Sampler {
	t.Helper()
	s, err := NewSampler(scalarView(t, times...), vec3View(t, vals...), Linear)
	require.NoError(t, err)
	return s
}

// clips is a Source backed by a plain slice.
type clips []*Animation

func (c clips) Animations() []*Animation { return c }
