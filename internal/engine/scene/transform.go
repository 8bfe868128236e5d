package scene

import "github.com/Faultbox/humangl/pkg/math"

// Transform is an object's local placement.
type Transform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3One,
	}
}

// TRS returns the model matrix T * R * S.
func (t Transform) TRS() math.Mat4 {
	return math.TRS(t.Translation, t.Rotation, t.Scale)
}

// Forward is the local -Z axis in world space.
func (t Transform) Forward() math.Vec3 {
	return t.Rotation.Rotate(math.Vec3{Z: -1})
}

// Right is the local +X axis in world space.
func (t Transform) Right() math.Vec3 {
	return t.Rotation.Rotate(math.Vec3{X: 1})
}

// Up is the local +Y axis in world space.
func (t Transform) Up() math.Vec3 {
	return t.Rotation.Rotate(math.Vec3{Y: 1})
}
