package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix stored as four column vectors (OpenGL layout).
// m[c] is column c; m[3] holds the translation.
type Mat4 [4]Vec4

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mat4FromFloats builds a matrix from 16 column-major values.
func Mat4FromFloats(f [16]float32) Mat4 {
	return Mat4{
		{f[0], f[1], f[2], f[3]},
		{f[4], f[5], f[6], f[7]},
		{f[8], f[9], f[10], f[11]},
		{f[12], f[13], f[14], f[15]},
	}
}

// Floats flattens the matrix in column-major order for uniform uploads.
func (m Mat4) Floats() [16]float32 {
	return [16]float32{
		m[0].X, m[0].Y, m[0].Z, m[0].W,
		m[1].X, m[1].Y, m[1].Z, m[1].W,
		m[2].X, m[2].Y, m[2].Z, m[2].W,
		m[3].X, m[3].Y, m[3].Z, m[3].W,
	}
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, (far + near) * nf, -1},
		{0, 0, 2 * far * near * nf, 0},
	}
}

// Ortho returns an orthographic projection matrix.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1 / (right - left)
	tb := 1 / (top - bottom)
	fn := 1 / (far - near)

	return Mat4{
		{2 * rl, 0, 0, 0},
		{0, 2 * tb, 0, 0},
		{0, 0, -2 * fn, 0},
		{-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1},
	}
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		{s.X, u.X, -f.X, 0},
		{s.Y, u.Y, -f.Y, 0},
		{s.Z, u.Z, -f.Z, 0},
		{-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1},
	}
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[3] = Vec4{v.X, v.Y, v.Z, 1}
	return m
}

// Scale returns a scale matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		{v.X, 0, 0, 0},
		{0, v.Y, 0, 0},
		{0, 0, v.Z, 0},
		{0, 0, 0, 1},
	}
}

// RotateX returns a rotation matrix around the X axis. angle is in radians.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateY returns a rotation matrix around the Y axis. angle is in radians.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ returns a rotation matrix around the Z axis. angle is in radians.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	return Mat4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// TRS composes translation, rotation and scale as T * R * S.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	return Translate(t).Mul(r.Mat4()).Mul(Scale(s))
}

// Row returns row r as a vector.
func (m Mat4) Row(r int) Vec4 {
	return Vec4{m.at(0, r), m.at(1, r), m.at(2, r), m.at(3, r)}
}

func (m Mat4) at(col, row int) float32 {
	switch row {
	case 0:
		return m[col].X
	case 1:
		return m[col].Y
	case 2:
		return m[col].Z
	default:
		return m[col].W
	}
}

// MulVec4 multiplies the matrix by a column vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z)).Add(m[3].Scale(v.W))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4{
		m.MulVec4(other[0]),
		m.MulVec4(other[1]),
		m.MulVec4(other[2]),
		m.MulVec4(other[3]),
	}
}

// TransformPoint transforms a point (w=1), applying the perspective divide
// when w is not 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	r := m.MulVec4(p.Vec4(1))
	if r.W != 0 && r.W != 1 {
		return r.Vec3().Scale(1 / r.W)
	}
	return r.Vec3()
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return m.MulVec4(d.Vec4(0)).Vec3()
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return m[3].Vec3()
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	return Mat4{m.Row(0), m.Row(1), m.Row(2), m.Row(3)}
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	a := m.Floats()

	c00 := a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	c01 := -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	c02 := a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	c03 := -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]

	c10 := -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	c11 := a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	c12 := -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	c13 := a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]

	c20 := a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	c21 := -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	c22 := a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	c23 := -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]

	c30 := -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	c31 := a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	c32 := -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	c33 := a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*c00 + a[4]*c01 + a[8]*c02 + a[12]*c03
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	return Mat4{
		{c00 * inv, c01 * inv, c02 * inv, c03 * inv},
		{c10 * inv, c11 * inv, c12 * inv, c13 * inv},
		{c20 * inv, c21 * inv, c22 * inv, c23 * inv},
		{c30 * inv, c31 * inv, c32 * inv, c33 * inv},
	}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for c := range m {
		if !m[c].ApproxEqual(other[c], eps) {
			return false
		}
	}
	return true
}
