package model

import (
	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/pkg/math"
)

// Accessor component types, using the glTF (and OpenGL) enum values.
const (
	ComponentByte          uint32 = 5120
	ComponentUnsignedByte  uint32 = 5121
	ComponentShort         uint32 = 5122
	ComponentUnsignedShort uint32 = 5123
	ComponentUnsignedInt   uint32 = 5125
	ComponentFloat         uint32 = 5126
)

// Primitive topologies, using the glTF (and OpenGL) enum values.
const (
	ModePoints        uint32 = 0
	ModeLines         uint32 = 1
	ModeLineLoop      uint32 = 2
	ModeLineStrip     uint32 = 3
	ModeTriangles     uint32 = 4
	ModeTriangleStrip uint32 = 5
	ModeTriangleFan   uint32 = 6
)

// Buffer view targets.
const (
	TargetArrayBuffer        uint32 = 34962
	TargetElementArrayBuffer uint32 = 34963
)

// Attribute semantics used by the renderer.
const (
	AttrPosition  = "POSITION"
	AttrNormal    = "NORMAL"
	AttrTangent   = "TANGENT"
	AttrTexCoord0 = "TEXCOORD_0"
	AttrTexCoord1 = "TEXCOORD_1"
	AttrColor0    = "COLOR_0"
	AttrJoints0   = "JOINTS_0"
	AttrWeights0  = "WEIGHTS_0"
)

// Model is a loaded glTF asset. Buffers are kept resident so keyframe views
// and GPU uploads can borrow from them.
type Model struct {
	Name string
	Dir  string // directory external URIs are resolved against

	Nodes       []Node
	Roots       []int
	Meshes      []Mesh
	Materials   []Material
	Textures    []Texture
	Images      []Image
	Samplers    []TextureSampler
	Accessors   []Accessor
	BufferViews []BufferView
	Buffers     [][]byte

	animations []*animation.Animation
}

// Animations returns the model's animation clips.
func (m *Model) Animations() []*animation.Animation { return m.animations }

// Node is one element of the transform hierarchy. A node has either a baked
// Matrix or optional TRS components; nil components are identity.
type Node struct {
	Name        string
	Matrix      *math.Mat4
	Translation *math.Vec3
	Rotation    *math.Quat
	Scale       *math.Vec3
	Mesh        int // -1 when the node has no mesh
	Children    []int
}

// Mesh groups the primitives drawn for one node.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Bounds     Bounds
}

// Primitive is one draw call.
type Primitive struct {
	Attributes map[string]int // semantic -> accessor index
	Indices    int            // accessor index, -1 for non-indexed
	Material   int            // -1 for the default material
	Mode       uint32
}

// Attribute returns the accessor index for a semantic.
func (p *Primitive) Attribute(name string) (int, bool) {
	idx, ok := p.Attributes[name]
	return idx, ok
}

// Material holds the metallic-roughness parameters the shaders read.
type Material struct {
	Name                     string
	BaseColorFactor          math.Vec4
	BaseColorTexture         int // texture index, -1 when absent
	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture int
	NormalTexture            int
	NormalScale              float32
	EmissiveTexture          int
	EmissiveFactor           math.Vec3
	DoubleSided              bool
}

// DefaultMaterial is used by primitives without a material.
func DefaultMaterial() Material {
	return Material{
		BaseColorFactor:          math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		BaseColorTexture:         -1,
		MetallicFactor:           1,
		RoughnessFactor:          1,
		MetallicRoughnessTexture: -1,
		NormalTexture:            -1,
		NormalScale:              1,
		EmissiveTexture:          -1,
	}
}

// Texture pairs an image with a sampler. Either may be -1.
type Texture struct {
	Image   int
	Sampler int
}

// Image is a texture source, stored either in a buffer view or behind a URI.
type Image struct {
	Name       string
	MimeType   string
	URI        string
	BufferView int // -1 when the image is referenced by URI
}

// TextureSampler holds filtering and wrapping using GL enum values; zero
// means the renderer default.
type TextureSampler struct {
	MagFilter int32
	MinFilter int32
	WrapS     int32
	WrapT     int32
}

// Accessor describes a typed view into a buffer view.
type Accessor struct {
	BufferView    int // -1 for accessors without data
	ByteOffset    int
	ComponentType uint32
	Components    int
	Count         int
	Normalized    bool
	Min, Max      []float32
}

// ElementSize is the tightly packed size of one element in bytes.
func (a *Accessor) ElementSize() int {
	return a.Components * componentSize(a.ComponentType)
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	ByteStride int
	Target     uint32
}

func componentSize(ct uint32) int {
	switch ct {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	}
	return 0
}
