package math

import "github.com/chewxy/math32"

// slerpLerpThreshold is the dot product above which Slerp falls back to a
// normalized lerp, since sin(theta) approaches zero.
const slerpLerpThreshold = 1 - 0.0005

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sin(angle/2), math32.Cos(angle/2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler builds a rotation that applies roll (Z), then pitch (X),
// then yaw (Y). Angles are in radians.
func QuatFromEuler(pitch, yaw, roll float32) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, pitch)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, yaw)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, roll)
	return qy.Mul(qx).Mul(qz)
}

// Add returns the component-wise sum.
func (q Quat) Add(other Quat) Quat {
	return Quat{q.X + other.X, q.Y + other.Y, q.Z + other.Z, q.W + other.W}
}

// Scale multiplies every component by s.
func (q Quat) Scale(s float32) Quat {
	return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

// Neg returns -q, which encodes the same rotation.
func (q Quat) Neg() Quat {
	return Quat{-q.X, -q.Y, -q.Z, -q.W}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Length returns the quaternion norm.
func (q Quat) Length() float32 {
	return math32.Sqrt(q.Dot(q))
}

// Normalize returns a unit quaternion. Degenerate input yields identity.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l < 0.0001 {
		return QuatIdentity()
	}
	return q.Scale(1 / l)
}

// Mul multiplies two quaternions (q applied after other).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Lerp interpolates component-wise without normalizing.
func (q Quat) Lerp(other Quat, f float32) Quat {
	return Quat{
		X: q.X + f*(other.X-q.X),
		Y: q.Y + f*(other.Y-q.Y),
		Z: q.Z + f*(other.Z-q.Z),
		W: q.W + f*(other.W-q.W),
	}
}

// Slerp performs spherical linear interpolation along the shorter arc.
// Nearly parallel inputs fall back to Lerp followed by Normalize.
func (q Quat) Slerp(other Quat, f float32) Quat {
	dot := q.Dot(other)
	if dot < 0 {
		other = other.Neg()
		dot = -dot
	}

	if dot > slerpLerpThreshold {
		return q.Lerp(other, f).Normalize()
	}

	theta := math32.Acos(dot)
	sinTheta := math32.Sin(theta)
	a := math32.Sin((1-f)*theta) / sinTheta
	b := math32.Sin(f*theta) / sinTheta
	return q.Scale(a).Add(other.Scale(b))
}

// Mat4 converts the quaternion to a rotation matrix. The quaternion is
// normalized first.
func (q Quat) Mat4() Mat4 {
	q = q.Normalize()

	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// ApproxEqual reports whether every component differs by at most eps.
func (q Quat) ApproxEqual(other Quat, eps float32) bool {
	return Vec4(q).ApproxEqual(Vec4(other), eps)
}

// SameRotation reports whether q and other encode the same rotation within eps,
// treating q and -q as equal.
func (q Quat) SameRotation(other Quat, eps float32) bool {
	return q.ApproxEqual(other, eps) || q.ApproxEqual(other.Neg(), eps)
}
