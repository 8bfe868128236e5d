package model

import (
	"fmt"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/pkg/math"
)

// PoseSource supplies per-node animation overrides. *animation.Animator
// implements it.
type PoseSource interface {
	NodeTransform(node int) animation.AnimatedTransform
}

// ScaleSource supplies an extra per-node scale applied after the node's own
// transform. It is inherited by the node's children.
type ScaleSource interface {
	ScaleMultiplier(node int) (math.Vec3, bool)
}

// LocalTransform returns the node's transform relative to its parent. A
// baked matrix wins; otherwise each TRS channel comes from the pose when it
// animates that channel, then from the authored value, then identity.
func LocalTransform(n *Node, pose animation.AnimatedTransform) math.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}

	t := math.Vec3{}
	switch {
	case pose.HasTranslation:
		t = pose.Translation
	case n.Translation != nil:
		t = *n.Translation
	}

	r := math.QuatIdentity()
	switch {
	case pose.HasRotation:
		r = pose.Rotation
	case n.Rotation != nil:
		r = *n.Rotation
	}

	s := math.Vec3One
	switch {
	case pose.HasScale:
		s = pose.Scale
	case n.Scale != nil:
		s = *n.Scale
	}

	return math.TRS(t, r, s)
}

// WalkNodes composes world transforms depth-first from the model roots,
// children in the order they are listed, and calls visit for every node with a mesh.
// pose and mult may be nil. A node index outside the model panics.
func WalkNodes(m *Model, pose PoseSource, mult ScaleSource, root math.Mat4, visit func(node int, world math.Mat4)) {
	for _, r := range m.Roots {
		walk(m, r, pose, mult, root, func(node int, world math.Mat4) {
			if m.Nodes[node].Mesh >= 0 {
				visit(node, world)
			}
		})
	}
}

// WorldTransforms returns the world matrix of every node reachable from the
// roots. Unreachable nodes keep the identity.
func WorldTransforms(m *Model, pose PoseSource, mult ScaleSource, root math.Mat4) []math.Mat4 {
	out := make([]math.Mat4, len(m.Nodes))
	for i := range out {
		out[i] = math.Identity()
	}
	for _, r := range m.Roots {
		walk(m, r, pose, mult, root, func(node int, world math.Mat4) {
			out[node] = world
		})
	}
	return out
}

func walk(m *Model, node int, pose PoseSource, mult ScaleSource, parent math.Mat4, visit func(int, math.Mat4)) {
	if node < 0 || node >= len(m.Nodes) {
		panic(fmt.Sprintf("model: node index %d out of range [0,%d)", node, len(m.Nodes)))
	}
	n := &m.Nodes[node]

	var animated animation.AnimatedTransform
	if pose != nil {
		animated = pose.NodeTransform(node)
	}
	acc := parent.Mul(LocalTransform(n, animated))

	if mult != nil {
		if s, ok := mult.ScaleMultiplier(node); ok {
			acc = acc.Mul(math.Scale(s))
		}
	}

	visit(node, acc)

	for _, child := range n.Children {
		walk(m, child, pose, mult, acc, visit)
	}
}

// validateHierarchy rejects child indices outside the node list, nodes with
// more than one parent and cycles.
func validateHierarchy(nodes []Node) error {
	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
			if c == i {
				return fmt.Errorf("node %d: %w", i, ErrCyclicHierarchy)
			}
			if parent[c] >= 0 {
				return fmt.Errorf("node %d: child %d already has parent %d", i, c, parent[c])
			}
			parent[c] = i
		}
	}

	// Follow parent links; with a single parent per node any cycle shows up
	// as a walk longer than the node count.
	for i := range nodes {
		steps := 0
		for p := parent[i]; p >= 0; p = parent[p] {
			steps++
			if steps > len(nodes) {
				return fmt.Errorf("node %d: %w", i, ErrCyclicHierarchy)
			}
		}
	}
	return nil
}

// rootNodes returns every node without a parent, in index order.
func rootNodes(nodes []Node) []int {
	hasParent := make([]bool, len(nodes))
	for _, n := range nodes {
		for _, c := range n.Children {
			hasParent[c] = true
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}
