package math

import "github.com/chewxy/math32"

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// Mod returns x modulo y in [0, y). A zero period yields 0.
func Mod(x, y float32) float32 {
	if y == 0 {
		return 0
	}
	r := math32.Mod(x, y)
	if r < 0 {
		r += y
	}
	return r
}
