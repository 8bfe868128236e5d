package model

import "github.com/Faultbox/humangl/pkg/math"

// NodeScales holds per-node scale multipliers. Components are clamped to be
// non-negative. The zero value is ready to use.
type NodeScales struct {
	scales map[int]math.Vec3
}

// Set stores the multiplier of node.
func (s *NodeScales) Set(node int, scale math.Vec3) {
	if s.scales == nil {
		s.scales = make(map[int]math.Vec3)
	}
	s.scales[node] = math.Vec3{
		X: max(scale.X, 0),
		Y: max(scale.Y, 0),
		Z: max(scale.Z, 0),
	}
}

// Clear removes the multiplier of node.
func (s *NodeScales) Clear(node int) {
	delete(s.scales, node)
}

// Reset removes every multiplier.
func (s *NodeScales) Reset() {
	clear(s.scales)
}

// ScaleMultiplier implements ScaleSource.
func (s *NodeScales) ScaleMultiplier(node int) (math.Vec3, bool) {
	v, ok := s.scales[node]
	return v, ok
}

// Get returns the multiplier of node, one when unset.
func (s *NodeScales) Get(node int) math.Vec3 {
	if v, ok := s.scales[node]; ok {
		return v
	}
	return math.Vec3One
}
