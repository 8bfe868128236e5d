package model

import "github.com/Faultbox/humangl/internal/engine/shader/preprocess"

// ShaderFlags returns the shader variant a primitive needs, derived from its
// vertex attributes and material textures.
func (m *Model) ShaderFlags(p *Primitive) preprocess.Flags {
	flags := preprocess.None
	for semantic, acc := range p.Attributes {
		switch semantic {
		case AttrNormal:
			flags |= preprocess.HasNormals
		case AttrTangent:
			flags |= preprocess.HasTangents
		case AttrColor0:
			switch m.Accessors[acc].Components {
			case 3:
				flags |= preprocess.HasVec3Colors
			case 4:
				flags |= preprocess.HasVec4Colors
			}
		}
	}

	if p.Material >= 0 {
		mat := &m.Materials[p.Material]
		if mat.BaseColorTexture >= 0 {
			flags |= preprocess.HasBaseColorMap
		}
		if mat.NormalTexture >= 0 {
			flags |= preprocess.HasNormalMap
		}
		if mat.MetallicRoughnessTexture >= 0 {
			flags |= preprocess.HasMetalRoughnessMap
		}
		if mat.EmissiveTexture >= 0 {
			flags |= preprocess.HasEmissiveMap
		}
	}
	return flags
}

// Material returns the primitive's material or the default one.
func (m *Model) Material(p *Primitive) Material {
	if p.Material < 0 {
		return DefaultMaterial()
	}
	return m.Materials[p.Material]
}

// AllShaderFlags returns every distinct variant used by the model's
// primitives.
func (m *Model) AllShaderFlags() []preprocess.Flags {
	seen := make(map[preprocess.Flags]bool)
	var out []preprocess.Flags
	for i := range m.Meshes {
		for j := range m.Meshes[i].Primitives {
			f := m.ShaderFlags(&m.Meshes[i].Primitives[j])
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}
