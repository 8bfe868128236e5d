package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/engine/texture"
	"github.com/Faultbox/humangl/internal/logger"
)

// ErrBufferRange is returned when a buffer view reaches past its buffer.
var ErrBufferRange = errors.New("buffer view out of range")

// GPUModel holds the GL objects of one uploaded model.
type GPUModel struct {
	model    *model.Model
	buffers  []uint32   // per buffer view
	textures []uint32   // per model texture
	vaos     [][]uint32 // per mesh, per primitive
	white    uint32
	r        *Renderer
}

// Model returns the source model.
func (gm *GPUModel) Model() *model.Model { return gm.model }

func (gm *GPUModel) texture(i int) uint32 {
	if i < 0 || i >= len(gm.textures) {
		return gm.white
	}
	return gm.textures[i]
}

func (gm *GPUModel) vertexCount(p *model.Primitive) int {
	acc, ok := p.Attribute(model.AttrPosition)
	if !ok {
		return 0
	}
	return gm.model.Accessors[acc].Count
}

// Upload creates buffers, textures and vertex arrays for m.
func (r *Renderer) Upload(m *model.Model) (*GPUModel, error) {
	gm := &GPUModel{model: m, r: r}
	if err := gm.uploadBuffers(); err != nil {
		gm.Delete()
		return nil, fmt.Errorf("uploading %s: %w", m.Name, err)
	}
	gm.uploadTextures()
	gm.buildVertexArrays()

	// Uploads bind objects outside the cache.
	r.state.Invalidate()

	logger.Debug("model uploaded",
		zap.String("model", m.Name),
		zap.Int("buffers", len(gm.buffers)),
		zap.Int("textures", len(gm.textures)),
		zap.Int("meshes", len(gm.vaos)),
	)
	return gm, nil
}

func (gm *GPUModel) uploadBuffers() error {
	m := gm.model
	gm.buffers = make([]uint32, len(m.BufferViews))
	if len(gm.buffers) == 0 {
		return nil
	}
	gl.GenBuffers(int32(len(gm.buffers)), &gm.buffers[0])

	for i, bv := range m.BufferViews {
		if bv.Buffer < 0 || bv.Buffer >= len(m.Buffers) {
			return fmt.Errorf("buffer view %d: %w", i, ErrBufferRange)
		}
		buf := m.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if bv.ByteOffset < 0 || end > len(buf) {
			return fmt.Errorf("buffer view %d [%d:%d] of %d bytes: %w", i, bv.ByteOffset, end, len(buf), ErrBufferRange)
		}
		if bv.ByteLength == 0 {
			continue
		}
		// The data store is target agnostic; element buffers are attached
		// to their vertex arrays later.
		gl.BindBuffer(gl.ARRAY_BUFFER, gm.buffers[i])
		gl.BufferData(gl.ARRAY_BUFFER, bv.ByteLength, gl.Ptr(buf[bv.ByteOffset:end]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (gm *GPUModel) uploadTextures() {
	m := gm.model
	gm.white = texture.Upload(texture.White(), model.TextureSampler{}, false)

	srgb := make(map[int]bool)
	for _, mat := range m.Materials {
		if mat.BaseColorTexture >= 0 {
			srgb[mat.BaseColorTexture] = true
		}
		if mat.EmissiveTexture >= 0 {
			srgb[mat.EmissiveTexture] = true
		}
	}

	gm.textures = make([]uint32, len(m.Textures))
	for i, tex := range m.Textures {
		sampler := model.TextureSampler{}
		if tex.Sampler >= 0 && tex.Sampler < len(m.Samplers) {
			sampler = m.Samplers[tex.Sampler]
		}
		img, err := gm.decodeImage(tex.Image)
		if err != nil {
			logger.Warn("texture decode failed, using placeholder",
				zap.String("model", m.Name),
				zap.Int("texture", i),
				zap.Error(err),
			)
			gm.textures[i] = gm.white
			continue
		}
		gm.textures[i] = texture.Upload(img, sampler, srgb[i])
	}
}

func (gm *GPUModel) decodeImage(index int) (*image.RGBA, error) {
	if index < 0 {
		return nil, model.ErrNoImageData
	}
	data, err := gm.model.ImageData(index)
	if err != nil {
		return nil, err
	}
	return texture.Decode(data)
}

func (gm *GPUModel) buildVertexArrays() {
	m := gm.model
	gm.vaos = make([][]uint32, len(m.Meshes))
	for mi := range m.Meshes {
		prims := m.Meshes[mi].Primitives
		gm.vaos[mi] = make([]uint32, len(prims))
		if len(prims) == 0 {
			continue
		}
		gl.GenVertexArrays(int32(len(prims)), &gm.vaos[mi][0])
		for pi := range prims {
			gm.setupVertexArray(gm.vaos[mi][pi], &prims[pi])
		}
	}
	gl.BindVertexArray(0)
}

func (gm *GPUModel) setupVertexArray(vao uint32, p *model.Primitive) {
	m := gm.model
	gl.BindVertexArray(vao)

	for semantic, ai := range p.Attributes {
		loc, ok := shader.AttributeLocations[semantic]
		if !ok {
			continue
		}
		acc := &m.Accessors[ai]
		if acc.BufferView < 0 {
			logger.Debug("skipping attribute without buffer view",
				zap.String("model", m.Name),
				zap.String("attribute", semantic),
			)
			continue
		}
		stride := int32(m.BufferViews[acc.BufferView].ByteStride)
		gl.BindBuffer(gl.ARRAY_BUFFER, gm.buffers[acc.BufferView])
		gl.EnableVertexAttribArray(loc)
		if semantic == model.AttrJoints0 && !acc.Normalized && acc.ComponentType != model.ComponentFloat {
			gl.VertexAttribIPointer(loc, int32(acc.Components), acc.ComponentType, stride, gl.PtrOffset(acc.ByteOffset))
			continue
		}
		gl.VertexAttribPointerWithOffset(loc, int32(acc.Components), acc.ComponentType, acc.Normalized, stride, uintptr(acc.ByteOffset))
	}

	if p.Indices >= 0 {
		if bv := m.Accessors[p.Indices].BufferView; bv >= 0 {
			gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.buffers[bv])
		}
	}
}

// Delete releases every GL object of the model.
func (gm *GPUModel) Delete() {
	for _, vaos := range gm.vaos {
		if len(vaos) > 0 {
			gl.DeleteVertexArrays(int32(len(vaos)), &vaos[0])
		}
	}
	gm.vaos = nil

	if len(gm.buffers) > 0 {
		gl.DeleteBuffers(int32(len(gm.buffers)), &gm.buffers[0])
	}
	gm.buffers = nil

	unique := make(map[uint32]bool)
	var ids []uint32
	for _, id := range append(gm.textures, gm.white) {
		if id != 0 && !unique[id] {
			unique[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		gm.r.state.Forget(id)
	}
	texture.Delete(ids...)
	gm.textures = nil
	gm.white = 0

	gm.r.state.Invalidate()
}
