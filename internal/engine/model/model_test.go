package model

import (
	"encoding/binary"
	"encoding/json"
	stdmath "math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/internal/engine/shader/preprocess"
	"github.com/Faultbox/humangl/pkg/math"
)

const eps = 1e-5

func vec3(x, y, z float32) *math.Vec3 { return &math.Vec3{X: x, Y: y, Z: z} }

// staticPose returns the same override for one node.
type staticPose struct {
	node int
	tr   animation.AnimatedTransform
}

func (p staticPose) NodeTransform(node int) animation.AnimatedTransform {
	if node == p.node {
		return p.tr
	}
	return animation.AnimatedTransform{}
}

type scales map[int]math.Vec3

func (s scales) ScaleMultiplier(node int) (math.Vec3, bool) {
	v, ok := s[node]
	return v, ok
}

// chain builds root(0) -> child(1) -> grandchild(2), each with a mesh.
func chain() *Model {
	return &Model{
		Nodes: []Node{
			{Name: "root", Translation: vec3(0, 1, 0), Mesh: 0, Children: []int{1}},
			{Name: "child", Translation: vec3(1, 0, 0), Scale: vec3(2, 2, 2), Mesh: 0, Children: []int{2}},
			{Name: "leaf", Translation: vec3(0, 0, 1), Mesh: 0},
		},
		Roots:  []int{0},
		Meshes: []Mesh{{Name: "cube", Bounds: Bounds{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}}},
	}
}

func TestWalkNodesComposesParentFirst(t *testing.T) {
	m := chain()

	var order []int
	worlds := map[int]math.Mat4{}
	WalkNodes(m, nil, nil, math.Identity(), func(node int, world math.Mat4) {
		order = append(order, node)
		worlds[node] = world
	})

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.True(t, worlds[0].ApproxEqual(math.Translate(math.Vec3{Y: 1}), eps))

	// The leaf offset is scaled by its parent's scale of 2.
	leaf := worlds[2].TransformPoint(math.Vec3{})
	assert.InDelta(t, 1, leaf.X, eps)
	assert.InDelta(t, 1, leaf.Y, eps)
	assert.InDelta(t, 2, leaf.Z, eps)
}

func TestWalkNodesPoseOverridesOnlyAnimatedChannels(t *testing.T) {
	m := &Model{
		Nodes: []Node{
			{Translation: vec3(1, 0, 0), Scale: vec3(2, 2, 2), Mesh: 0},
		},
		Roots:  []int{0},
		Meshes: []Mesh{{}},
	}
	parent := math.Translate(math.Vec3{X: 3})
	pose := staticPose{node: 0, tr: animation.AnimatedTransform{
		Translation:    math.Vec3{Y: 5},
		HasTranslation: true,
	}}

	var got math.Mat4
	WalkNodes(m, pose, nil, parent, func(_ int, world math.Mat4) { got = world })

	want := parent.Mul(math.Translate(math.Vec3{Y: 5})).Mul(math.Scale(math.Vec3{X: 2, Y: 2, Z: 2}))
	assert.True(t, got.ApproxEqual(want, eps))
}

func TestWalkNodesMatrixWinsOverPose(t *testing.T) {
	baked := math.RotateZ(0.5)
	m := &Model{
		Nodes:  []Node{{Matrix: &baked, Translation: vec3(9, 9, 9), Mesh: 0}},
		Roots:  []int{0},
		Meshes: []Mesh{{}},
	}
	pose := staticPose{node: 0, tr: animation.AnimatedTransform{Translation: math.Vec3{X: 4}, HasTranslation: true}}

	var got math.Mat4
	WalkNodes(m, pose, nil, math.Identity(), func(_ int, world math.Mat4) { got = world })
	assert.True(t, got.ApproxEqual(baked, eps))
}

func TestWalkNodesScaleMultiplierPropagates(t *testing.T) {
	m := chain()
	mult := scales{1: {X: 3, Y: 3, Z: 3}}

	worlds := WorldTransforms(m, nil, mult, math.Identity())

	// Child: T(0,1,0) * T(1,0,0) * S(2) * S(3).
	want := math.Translate(math.Vec3{Y: 1}).
		Mul(math.Translate(math.Vec3{X: 1})).
		Mul(math.Scale(math.Vec3{X: 2, Y: 2, Z: 2})).
		Mul(math.Scale(math.Vec3{X: 3, Y: 3, Z: 3}))
	assert.True(t, worlds[1].ApproxEqual(want, eps))

	// The leaf inherits the multiplier: its unit offset becomes 6.
	leaf := worlds[2].TransformPoint(math.Vec3{})
	assert.InDelta(t, 6, leaf.Z, eps)
}

func TestWalkNodesSkipsNodesWithoutMesh(t *testing.T) {
	m := chain()
	m.Nodes[1].Mesh = -1

	var visited []int
	WalkNodes(m, nil, nil, math.Identity(), func(node int, _ math.Mat4) {
		visited = append(visited, node)
	})
	assert.Equal(t, []int{0, 2}, visited)
}

func TestWalkNodesChildrenInListedOrder(t *testing.T) {
	m := &Model{
		Nodes: []Node{
			{Mesh: 0, Children: []int{2, 1}},
			{Mesh: 0, Children: []int{3}},
			{Mesh: 0},
			{Mesh: 0},
		},
		Roots:  []int{0},
		Meshes: []Mesh{{}},
	}
	var visited []int
	WalkNodes(m, nil, nil, math.Identity(), func(node int, _ math.Mat4) {
		visited = append(visited, node)
	})
	// Children are visited in the order they are listed, depth-first.
	assert.Equal(t, []int{0, 2, 1, 3}, visited)
}

func TestWalkNodesBadIndexPanics(t *testing.T) {
	m := chain()
	m.Roots = []int{7}
	assert.Panics(t, func() {
		WalkNodes(m, nil, nil, math.Identity(), func(int, math.Mat4) {})
	})
}

func TestValidateHierarchy(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		ok    bool
	}{
		{"tree", chain().Nodes, true},
		{"child out of range", []Node{{Children: []int{4}}}, false},
		{"self parent", []Node{{Children: []int{0}}}, false},
		{"cycle", []Node{{Children: []int{1}}, {Children: []int{0}}}, false},
		{"two parents", []Node{{Children: []int{2}}, {Children: []int{2}}, {}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHierarchy(tt.nodes)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
	assert.ErrorIs(t, validateHierarchy([]Node{{Children: []int{1}}, {Children: []int{0}}}), ErrCyclicHierarchy)
}

func TestRootNodes(t *testing.T) {
	nodes := []Node{{Children: []int{2}}, {}, {}}
	assert.Equal(t, []int{0, 1}, rootNodes(nodes))
}

func TestSceneBounds(t *testing.T) {
	m := chain()
	b := SceneBounds(m, math.Identity())
	require.False(t, b.IsEmpty())
	// The child box is scaled by 2 and the leaf sits one scaled unit ahead.
	assert.InDelta(t, 4, b.Max.Z, eps)
	assert.InDelta(t, -2, b.Min.Z, eps)
}

func TestBoundsTransform(t *testing.T) {
	b := Bounds{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	moved := b.Transform(math.Translate(math.Vec3{X: 10}))
	assert.InDelta(t, 9, moved.Min.X, eps)
	assert.InDelta(t, 11, moved.Max.X, eps)
	assert.Equal(t, math.Vec3{X: 10}, moved.Center())

	assert.True(t, EmptyBounds().IsEmpty())
	assert.Equal(t, b, EmptyBounds().Union(b))
}

func putFloats(buf []byte, vals ...float32) []byte {
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v))
	}
	return buf
}

// animatedModel stores times [0, 1] and translations (0,0,0), (0,2,0) in one
// buffer.
func animatedModel() *Model {
	var buf []byte
	buf = putFloats(buf, 0, 1)
	buf = putFloats(buf, 0, 0, 0, 0, 2, 0)
	return &Model{
		Nodes:   []Node{{Mesh: -1}},
		Roots:   []int{0},
		Buffers: [][]byte{buf},
		BufferViews: []BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 8},
			{Buffer: 0, ByteOffset: 8, ByteLength: 24},
		},
		Accessors: []Accessor{
			{BufferView: 0, ComponentType: ComponentFloat, Components: 1, Count: 2},
			{BufferView: 1, ComponentType: ComponentFloat, Components: 3, Count: 2},
		},
	}
}

func TestBuildAnimation(t *testing.T) {
	m := animatedModel()
	anim, err := m.BuildAnimation("lift",
		[]SamplerRef{{Input: 0, Output: 1, Interpolation: animation.Linear}},
		[]animation.Channel{{Node: 0, Path: animation.Translation, Sampler: 0}},
	)
	require.NoError(t, err)
	assert.Equal(t, "lift", anim.Name())
	assert.InDelta(t, 1, anim.Duration(), eps)

	s := anim.Sampler(0)
	s.Update(0.5)
	assert.InDelta(t, 1, s.Vec3().Y, eps)
}

func TestBuildAnimationErrors(t *testing.T) {
	m := animatedModel()
	lin := func(in, out int) []SamplerRef {
		return []SamplerRef{{Input: in, Output: out, Interpolation: animation.Linear}}
	}
	ch := []animation.Channel{{Node: 0, Path: animation.Translation, Sampler: 0}}

	_, err := m.BuildAnimation("a", lin(0, 9), ch)
	assert.ErrorIs(t, err, ErrUnknownAccessor)

	m.Accessors = append(m.Accessors, Accessor{BufferView: -1, ComponentType: ComponentFloat, Components: 3, Count: 2})
	_, err = m.BuildAnimation("a", lin(0, 2), ch)
	assert.ErrorIs(t, err, ErrMissingBufferView)

	m.Accessors = append(m.Accessors, Accessor{BufferView: 0, ComponentType: ComponentUnsignedShort, Normalized: true, Components: 1, Count: 2})
	_, err = m.BuildAnimation("a", lin(3, 1), ch)
	assert.ErrorIs(t, err, ErrKeyframeTimes)

	// Stride smaller than the element is rejected by the view.
	m.BufferViews[1].ByteStride = 4
	_, err = m.BuildAnimation("a", lin(0, 1), ch)
	assert.ErrorIs(t, err, animation.ErrInvalidView)
	m.BufferViews[1].ByteStride = 0

	_, err = m.BuildAnimation("a", lin(0, 1), []animation.Channel{{Node: 5, Path: animation.Translation}})
	assert.Error(t, err)
}

func TestShaderFlags(t *testing.T) {
	m := &Model{
		Accessors: []Accessor{
			{Components: 3}, {Components: 3}, {Components: 4}, {Components: 4},
		},
		Materials: []Material{func() Material {
			mat := DefaultMaterial()
			mat.BaseColorTexture = 0
			mat.NormalTexture = 1
			return mat
		}()},
	}
	p := Primitive{
		Attributes: map[string]int{AttrPosition: 0, AttrNormal: 1, AttrColor0: 2, AttrTangent: 3},
		Material:   0,
		Indices:    -1,
	}
	want := preprocess.HasNormals | preprocess.HasTangents | preprocess.HasVec4Colors |
		preprocess.HasBaseColorMap | preprocess.HasNormalMap
	assert.Equal(t, want, m.ShaderFlags(&p))

	p.Attributes[AttrColor0] = 1
	p.Material = -1
	assert.Equal(t, preprocess.HasNormals|preprocess.HasTangents|preprocess.HasVec3Colors, m.ShaderFlags(&p))
}

func TestFromDocumentNodesAndRoots(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{
				Name:     "hips",
				Children: []int{1},
				Matrix:   gltf.DefaultMatrix,
				Rotation: gltf.DefaultRotation,
				Scale:    gltf.DefaultScale,
			},
			{
				Name:        "spine",
				Matrix:      gltf.DefaultMatrix,
				Translation: [3]float64{0, 1, 0},
				Rotation:    [4]float64{0, 0.7071068, 0, 0.7071068},
				Scale:       gltf.DefaultScale,
			},
			{
				Name:     "prop",
				Matrix:   [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 0, 0, 1},
				Rotation: gltf.DefaultRotation,
				Scale:    gltf.DefaultScale,
			},
		},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
	}

	m, err := FromDocument(doc, "golem", ".")
	require.NoError(t, err)

	require.Len(t, m.Nodes, 3)
	assert.Equal(t, []int{0}, m.Roots)

	hips := m.Nodes[0]
	assert.Nil(t, hips.Matrix)
	assert.Nil(t, hips.Translation)
	assert.Nil(t, hips.Rotation)
	assert.Nil(t, hips.Scale)
	assert.Equal(t, -1, hips.Mesh)

	spine := m.Nodes[1]
	require.NotNil(t, spine.Translation)
	assert.Equal(t, math.Vec3{Y: 1}, *spine.Translation)
	require.NotNil(t, spine.Rotation)
	assert.InDelta(t, 0.7071068, spine.Rotation.W, eps)

	prop := m.Nodes[2]
	require.NotNil(t, prop.Matrix)
	assert.Equal(t, math.Vec3{X: 5}, prop.Matrix.Translation())
}

func TestFromDocumentKeepsZeroScale(t *testing.T) {
	src := `{
		"asset": {"version": "2.0"},
		"nodes": [
			{"name": "hidden", "scale": [0, 0, 0], "translation": [1, 2, 3], "children": [1]},
			{"name": "child", "translation": [0, 1, 0]}
		]
	}`
	var doc gltf.Document
	require.NoError(t, json.Unmarshal([]byte(src), &doc))

	m, err := FromDocument(&doc, "hidden", ".")
	require.NoError(t, err)
	require.NotNil(t, m.Nodes[0].Scale)
	assert.Equal(t, math.Vec3{}, *m.Nodes[0].Scale)
	assert.Nil(t, m.Nodes[1].Scale, "default scale is left out")

	worlds := WorldTransforms(m, nil, nil, math.Identity())
	for _, node := range []int{0, 1} {
		w := worlds[node]
		assert.Equal(t, math.Vec4{}, w[0], "node %d", node)
		assert.Equal(t, math.Vec4{}, w[1], "node %d", node)
		assert.Equal(t, math.Vec4{}, w[2], "node %d", node)
		assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, w.Translation(), "node %d", node)
	}
}

func TestFromDocumentRejectsCycles(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Children: []int{1}, Matrix: gltf.DefaultMatrix, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale},
			{Children: []int{0}, Matrix: gltf.DefaultMatrix, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale},
		},
	}
	_, err := FromDocument(doc, "loop", ".")
	assert.ErrorIs(t, err, ErrCyclicHierarchy)
}

func TestNodeScales(t *testing.T) {
	var s NodeScales
	_, ok := s.ScaleMultiplier(1)
	assert.False(t, ok)
	assert.Equal(t, math.Vec3One, s.Get(1))

	s.Set(1, math.Vec3{X: 2, Y: -1, Z: 0.5})
	v, ok := s.ScaleMultiplier(1)
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 2, Y: 0, Z: 0.5}, v, "negative components clamp to zero")

	s.Clear(1)
	_, ok = s.ScaleMultiplier(1)
	assert.False(t, ok)

	s.Set(2, math.Vec3One)
	s.Reset()
	_, ok = s.ScaleMultiplier(2)
	assert.False(t, ok)
}
