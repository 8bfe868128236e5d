package debug

import (
	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// boxEdges indexes model.Bounds.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // z = min
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // z = max
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BBoxWireframe returns line vertices, xyz per vertex, for b transformed by
// world. The box stays oriented with the node instead of being re-fitted.
func BBoxWireframe(b model.Bounds, world math.Mat4) []float32 {
	if b.IsEmpty() {
		return nil
	}
	corners := b.Corners()
	for i := range corners {
		corners[i] = world.TransformPoint(corners[i])
	}

	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for _, e := range boxEdges {
		a, c := corners[e[0]], corners[e[1]]
		out = append(out, a.X, a.Y, a.Z, c.X, c.Y, c.Z)
	}
	return out
}
