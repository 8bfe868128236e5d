// Package lighting provides the directional light that shades models.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/pkg/math"
)

// Receiver is whatever shades with the light, normally the renderer. The
// engine provides it as a scene resource.
type Receiver interface {
	SetLightDirection(d math.Vec3)
}

// SunDirection converts an azimuth around Y (0-360) and an elevation above
// the horizon (0-90), both in degrees, into the unit vector pointing
// towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := math.Radians(azimuth)
	el := math.Radians(elevation)
	return math.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
}

// Sun is a directional light component. Angles are in degrees.
type Sun struct {
	scene.BaseComponent

	Azimuth   float32
	Elevation float32
}

// NewSun creates a sun at the given angles.
func NewSun(azimuth, elevation float32) *Sun {
	return &Sun{Azimuth: azimuth, Elevation: elevation}
}

// Direction returns the direction the light travels, away from the sun.
func (s *Sun) Direction() math.Vec3 {
	return SunDirection(s.Azimuth, math.Clamp(s.Elevation, -90, 90)).Scale(-1)
}

// OnUpdate hands the direction to the Receiver resource, if any, before
// anything renders.
func (s *Sun) OnUpdate(ctx *scene.Context) {
	if r, ok := scene.Lookup[Receiver](ctx.Resources); ok {
		r.SetLightDirection(s.Direction())
	}
}
