// Package picking provides ray casting against node bounding boxes.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay unprojects a cursor position in viewport pixels, origin top
// left, through the inverse of projection * view.
func ScreenToRay(screen, viewport math.Vec2, invViewProj math.Mat4) Ray {
	ndcX := 2*screen.X/viewport.X - 1
	ndcY := 1 - 2*screen.Y/viewport.Y

	nearPoint := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	farPoint := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: nearPoint, Direction: farPoint.Sub(nearPoint).Normalize()}
}

// IntersectAABB returns the distance to the entry point of the box, or the
// exit point when the ray starts inside.
func (r Ray) IntersectAABB(box model.Bounds) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the result of a successful pick.
type Hit struct {
	Node     int
	Distance float32
	Bounds   model.Bounds // world space
}

// PickNode returns the nearest mesh node whose world bounding box the ray
// crosses. worlds holds one world matrix per node.
func PickNode(m *model.Model, worlds []math.Mat4, ray Ray) (Hit, bool) {
	best := Hit{Node: -1, Distance: math32.MaxFloat32}
	for i, n := range m.Nodes {
		if n.Mesh < 0 || i >= len(worlds) {
			continue
		}
		box := m.Meshes[n.Mesh].Bounds.Transform(worlds[i])
		if box.IsEmpty() {
			continue
		}
		if t, ok := ray.IntersectAABB(box); ok && t < best.Distance {
			best = Hit{Node: i, Distance: t, Bounds: box}
		}
	}
	return best, best.Node >= 0
}
