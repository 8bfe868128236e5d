package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector, used for screen-space positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

// Contains reports whether p lies in the rectangle starting at v with the given size.
func (v Vec2) Contains(size, p Vec2) bool {
	return p.X >= v.X && p.Y >= v.Y && p.X < v.X+size.X && p.Y < v.Y+size.Y
}
