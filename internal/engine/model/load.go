// Package model loads glTF 2.0 assets into a renderer-friendly form and
// composes node transforms through the hierarchy.
package model

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/pkg/math"
)

// Load errors.
var (
	ErrUnknownAccessor      = errors.New("unknown accessor")
	ErrMissingBufferView    = errors.New("accessor has no buffer view")
	ErrMissingBuffer        = errors.New("missing buffer")
	ErrKeyframeTimes        = errors.New("keyframe times must be float")
	ErrUnsupportedKeyframes = errors.New("unsupported keyframe layout")
	ErrCyclicHierarchy      = errors.New("cyclic node hierarchy")
	ErrNoImageData          = errors.New("image has no data")
)

// Load reads a .gltf or .glb file.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := FromDocument(doc, name, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// FromDocument converts a decoded glTF document. dir is used to resolve
// external image URIs.
func FromDocument(doc *gltf.Document, name, dir string) (*Model, error) {
	m := &Model{Name: name, Dir: dir}

	for _, b := range doc.Buffers {
		m.Buffers = append(m.Buffers, b.Data)
	}
	for _, bv := range doc.BufferViews {
		m.BufferViews = append(m.BufferViews, BufferView{
			Buffer:     bv.Buffer,
			ByteOffset: bv.ByteOffset,
			ByteLength: bv.ByteLength,
			ByteStride: bv.ByteStride,
			Target:     TargetArrayBuffer,
		})
	}
	for i, a := range doc.Accessors {
		acc, err := convertAccessor(a)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", i, err)
		}
		m.Accessors = append(m.Accessors, acc)
	}

	m.Samplers = convertSamplers(doc.Samplers)
	for _, t := range doc.Textures {
		m.Textures = append(m.Textures, Texture{Image: optIndex(t.Source), Sampler: optIndex(t.Sampler)})
	}
	for _, img := range doc.Images {
		m.Images = append(m.Images, Image{
			Name:       img.Name,
			MimeType:   img.MimeType,
			URI:        img.URI,
			BufferView: optIndex(img.BufferView),
		})
	}
	for _, mat := range doc.Materials {
		m.Materials = append(m.Materials, convertMaterial(mat))
	}

	for i, mesh := range doc.Meshes {
		converted, err := m.convertMesh(doc, mesh)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		m.Meshes = append(m.Meshes, converted)
	}

	for _, n := range doc.Nodes {
		m.Nodes = append(m.Nodes, convertNode(n))
	}
	for i, n := range m.Nodes {
		if n.Mesh >= len(m.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", i, n.Mesh)
		}
	}
	if err := validateHierarchy(m.Nodes); err != nil {
		return nil, err
	}
	m.Roots = sceneRoots(doc, m.Nodes)

	for i, a := range doc.Animations {
		anim, err := m.convertAnimation(i, a)
		if err != nil {
			return nil, err
		}
		m.animations = append(m.animations, anim)
	}

	return m, nil
}

// ImageData returns the encoded bytes of an image from its buffer view, a
// data URI or a file next to the model.
func (m *Model) ImageData(index int) ([]byte, error) {
	img := &m.Images[index]
	if img.BufferView >= 0 {
		data, _, err := m.viewBytes(img.BufferView)
		return data, err
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image %d: %w", index, ErrNoImageData)
	}
	if strings.HasPrefix(img.URI, "data:") {
		gi := gltf.Image{URI: img.URI}
		return gi.MarshalData()
	}
	p, err := url.PathUnescape(img.URI)
	if err != nil {
		p = img.URI
	}
	return os.ReadFile(filepath.Join(m.Dir, filepath.FromSlash(p)))
}

func convertAccessor(a *gltf.Accessor) (Accessor, error) {
	acc := Accessor{
		BufferView: optIndex(a.BufferView),
		ByteOffset: a.ByteOffset,
		Components: a.Type.Components(),
		Count:      a.Count,
		Normalized: a.Normalized,
		Min:        toFloat32s(a.Min),
		Max:        toFloat32s(a.Max),
	}
	switch a.ComponentType {
	case gltf.ComponentByte:
		acc.ComponentType = ComponentByte
	case gltf.ComponentUbyte:
		acc.ComponentType = ComponentUnsignedByte
	case gltf.ComponentShort:
		acc.ComponentType = ComponentShort
	case gltf.ComponentUshort:
		acc.ComponentType = ComponentUnsignedShort
	case gltf.ComponentUint:
		acc.ComponentType = ComponentUnsignedInt
	case gltf.ComponentFloat:
		acc.ComponentType = ComponentFloat
	default:
		return Accessor{}, fmt.Errorf("unsupported component type %v", a.ComponentType)
	}
	return acc, nil
}

func convertSamplers(samplers []*gltf.Sampler) []TextureSampler {
	out := make([]TextureSampler, 0, len(samplers))
	for _, s := range samplers {
		var ts TextureSampler
		switch s.MagFilter {
		case gltf.MagNearest:
			ts.MagFilter = 9728
		case gltf.MagLinear:
			ts.MagFilter = 9729
		}
		switch s.MinFilter {
		case gltf.MinNearest:
			ts.MinFilter = 9728
		case gltf.MinLinear:
			ts.MinFilter = 9729
		case gltf.MinNearestMipMapNearest:
			ts.MinFilter = 9984
		case gltf.MinLinearMipMapNearest:
			ts.MinFilter = 9985
		case gltf.MinNearestMipMapLinear:
			ts.MinFilter = 9986
		case gltf.MinLinearMipMapLinear:
			ts.MinFilter = 9987
		}
		ts.WrapS = wrapMode(s.WrapS)
		ts.WrapT = wrapMode(s.WrapT)
		out = append(out, ts)
	}
	return out
}

func wrapMode(w gltf.WrappingMode) int32 {
	switch w {
	case gltf.WrapClampToEdge:
		return 33071
	case gltf.WrapMirroredRepeat:
		return 33648
	}
	return 10497
}

func convertMaterial(mat *gltf.Material) Material {
	out := DefaultMaterial()
	out.Name = mat.Name
	out.DoubleSided = mat.DoubleSided
	out.EmissiveFactor = math.Vec3{
		X: float32(mat.EmissiveFactor[0]),
		Y: float32(mat.EmissiveFactor[1]),
		Z: float32(mat.EmissiveFactor[2]),
	}

	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			out.BaseColorFactor = math.Vec4{X: float32(f[0]), Y: float32(f[1]), Z: float32(f[2]), W: float32(f[3])}
		}
		if pbr.BaseColorTexture != nil {
			out.BaseColorTexture = pbr.BaseColorTexture.Index
		}
		if pbr.MetallicFactor != nil {
			out.MetallicFactor = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			out.RoughnessFactor = float32(*pbr.RoughnessFactor)
		}
		if pbr.MetallicRoughnessTexture != nil {
			out.MetallicRoughnessTexture = pbr.MetallicRoughnessTexture.Index
		}
	}
	if nt := mat.NormalTexture; nt != nil {
		out.NormalTexture = optIndex(nt.Index)
		if nt.Scale != nil {
			out.NormalScale = float32(*nt.Scale)
		}
	}
	if mat.EmissiveTexture != nil {
		out.EmissiveTexture = mat.EmissiveTexture.Index
	}
	return out
}

func (m *Model) convertMesh(doc *gltf.Document, mesh *gltf.Mesh) (Mesh, error) {
	out := Mesh{Name: mesh.Name, Bounds: EmptyBounds()}
	for pi, p := range mesh.Primitives {
		prim := Primitive{
			Attributes: make(map[string]int, len(p.Attributes)),
			Indices:    optIndex(p.Indices),
			Material:   optIndex(p.Material),
			Mode:       primitiveMode(p.Mode),
		}
		for semantic, idx := range p.Attributes {
			if idx < 0 || idx >= len(m.Accessors) {
				return Mesh{}, fmt.Errorf("primitive %d attribute %s: accessor %d: %w", pi, semantic, idx, ErrUnknownAccessor)
			}
			prim.Attributes[semantic] = idx
		}
		if prim.Indices >= 0 {
			if prim.Indices >= len(m.Accessors) {
				return Mesh{}, fmt.Errorf("primitive %d indices: accessor %d: %w", pi, prim.Indices, ErrUnknownAccessor)
			}
			if bv := m.Accessors[prim.Indices].BufferView; bv >= 0 && bv < len(m.BufferViews) {
				m.BufferViews[bv].Target = TargetElementArrayBuffer
			}
		}
		if prim.Material >= len(m.Materials) {
			return Mesh{}, fmt.Errorf("primitive %d: material %d out of range", pi, prim.Material)
		}

		if pos, ok := p.Attributes[gltf.POSITION]; ok {
			out.Bounds = out.Bounds.Union(positionBounds(doc, pos, &m.Accessors[pos]))
		}
		out.Primitives = append(out.Primitives, prim)
	}
	return out, nil
}

// positionBounds prefers the accessor min/max, which glTF requires for
// POSITION, and falls back to reading the vertices.
func positionBounds(doc *gltf.Document, index int, acc *Accessor) Bounds {
	if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
		return Bounds{
			Min: math.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
			Max: math.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
		}
	}
	b := EmptyBounds()
	positions, err := modeler.ReadPosition(doc, doc.Accessors[index], nil)
	if err != nil {
		return b
	}
	for _, p := range positions {
		b = b.Extend(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	return b
}

func primitiveMode(mode gltf.PrimitiveMode) uint32 {
	switch mode {
	case gltf.PrimitivePoints:
		return ModePoints
	case gltf.PrimitiveLines:
		return ModeLines
	case gltf.PrimitiveLineLoop:
		return ModeLineLoop
	case gltf.PrimitiveLineStrip:
		return ModeLineStrip
	case gltf.PrimitiveTriangleStrip:
		return ModeTriangleStrip
	case gltf.PrimitiveTriangleFan:
		return ModeTriangleFan
	}
	return ModeTriangles
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// convertNode keeps only components that differ from identity; a zero
// matrix or rotation is treated as absent. A zero scale is authored and
// kept, it hides the node's subtree.
func convertNode(n *gltf.Node) Node {
	out := Node{
		Name:     n.Name,
		Mesh:     optIndex(n.Mesh),
		Children: append([]int(nil), n.Children...),
	}

	if n.Matrix != identityMatrix && n.Matrix != ([16]float64{}) {
		var f [16]float32
		for i, v := range n.Matrix {
			f[i] = float32(v)
		}
		mat := math.Mat4FromFloats(f)
		out.Matrix = &mat
		return out
	}

	if t := n.Translation; t != ([3]float64{}) {
		out.Translation = &math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
	}
	if r := n.Rotation; r != ([4]float64{}) && r != ([4]float64{0, 0, 0, 1}) {
		q := math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
		out.Rotation = &q
	}
	if s := n.Scale; s != ([3]float64{1, 1, 1}) {
		out.Scale = &math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
	}
	return out
}

// sceneRoots picks the default scene, then scene 0, then every parentless
// node.
func sceneRoots(doc *gltf.Document, nodes []Node) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		var roots []int
		for _, n := range doc.Scenes[idx].Nodes {
			if n >= 0 && n < len(nodes) {
				roots = append(roots, n)
			}
		}
		return roots
	}
	return rootNodes(nodes)
}

func (m *Model) convertAnimation(index int, a *gltf.Animation) (*animation.Animation, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation %d", index)
	}

	refs := make([]SamplerRef, len(a.Samplers))
	for i, s := range a.Samplers {
		refs[i] = SamplerRef{Input: s.Input, Output: s.Output, Interpolation: interpolation(s.Interpolation)}
	}

	var channels []animation.Channel
	for _, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		var path animation.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = animation.Translation
		case gltf.TRSRotation:
			path = animation.Rotation
		case gltf.TRSScale:
			path = animation.Scale
		default:
			// Morph target weights are not rendered.
			continue
		}
		channels = append(channels, animation.Channel{
			Node:    *ch.Target.Node,
			Path:    path,
			Sampler: ch.Sampler,
		})
	}

	return m.BuildAnimation(name, refs, channels)
}

func interpolation(i gltf.Interpolation) animation.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return animation.Step
	case gltf.InterpolationCubicSpline:
		return animation.CubicSpline
	}
	return animation.Linear
}

func optIndex(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func toFloat32s(v []float64) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
