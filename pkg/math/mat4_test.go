package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0].X != 1 || m[1].Y != 1 || m[2].Z != 1 || m[3].W != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[0].Y != 0 || m[1].X != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I should equal M, got %v", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	// Translation lives in column 3
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translate: got %v, want (5, 10, 15)", m.Translation())
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(Vec3{2, 2, 2}), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !result.ApproxEqual(Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestTRSOrder(t *testing.T) {
	m := TRS(Vec3{1, 0, 0}, QuatIdentity(), Vec3{2, 2, 2})
	// Scale applies before translation.
	if got := m.TransformPoint(Vec3{1, 0, 0}); !got.ApproxEqual(Vec3{3, 0, 0}, 1e-6) {
		t.Errorf("TRS point: got %v, want (3, 0, 0)", got)
	}
}

func TestInverse(t *testing.T) {
	m := TRS(Vec3{3, -2, 7}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.7), Vec3{2, 3, 4})
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", got)
	}

	var singular Mat4
	if singular.Inverse() != Identity() {
		t.Error("singular matrix inverse should fall back to identity")
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	tr := m.Transpose()
	if tr.Row(3) != (Vec4{1, 2, 3, 1}) {
		t.Errorf("Transpose row 3: got %v", tr.Row(3))
	}
}

func TestFloatsRoundTrip(t *testing.T) {
	m := TRS(Vec3{1, 2, 3}, QuatFromAxisAngle(Vec3{1, 0, 0}, 0.3), Vec3{1, 2, 1})
	if Mat4FromFloats(m.Floats()) != m {
		t.Error("Mat4FromFloats(Floats()) should return the same matrix")
	}
}

// The remaining tests cross-check against mathgl, which uses the same
// column-major layout.

func fromMGL(m mgl32.Mat4) Mat4 {
	return Mat4FromFloats([16]float32(m))
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	fov := Radians(60)
	got := Perspective(fov, 16.0/9.0, 0.1, 100)
	want := fromMGL(mgl32.Perspective(fov, 16.0/9.0, 0.1, 100))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Perspective:\n got %v\nwant %v", got, want)
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	got := LookAt(Vec3{3, 4, 5}, Vec3{0, 1, 0}, Vec3{0, 1, 0})
	want := fromMGL(mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("LookAt:\n got %v\nwant %v", got, want)
	}
}

func TestTRSMatchesMathgl(t *testing.T) {
	axis := Vec3{1, 2, 3}.Normalize()
	got := TRS(Vec3{1, -2, 3}, QuatFromAxisAngle(axis, 1.1), Vec3{2, 0.5, 1.5})

	mq := mgl32.QuatRotate(1.1, mgl32.Vec3{axis.X, axis.Y, axis.Z})
	want := fromMGL(mgl32.Translate3D(1, -2, 3).Mul4(mq.Mat4()).Mul4(mgl32.Scale3D(2, 0.5, 1.5)))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("TRS:\n got %v\nwant %v", got, want)
	}
}

func TestInverseMatchesMathgl(t *testing.T) {
	m := TRS(Vec3{4, 5, 6}, QuatFromAxisAngle(Vec3{0, 0, 1}, 0.4), Vec3{1, 2, 3})
	want := fromMGL(mgl32.Mat4(m.Floats()).Inv())
	if !m.Inverse().ApproxEqual(want, 1e-4) {
		t.Errorf("Inverse:\n got %v\nwant %v", m.Inverse(), want)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
