package texture

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/humangl/internal/engine/model"
)

// Upload creates a 2D texture from img. Base color maps are stored as sRGB;
// data maps such as normals stay linear. Zero sampler fields use repeat
// wrapping and trilinear filtering.
func Upload(img *image.RGBA, sampler model.TextureSampler, srgb bool) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	internal := int32(gl.RGBA8)
	if srgb {
		internal = gl.SRGB8_ALPHA8
	}
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	minFilter := orDefault(sampler.MinFilter, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, orDefault(sampler.MagFilter, gl.LINEAR))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, orDefault(sampler.WrapS, gl.REPEAT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, orDefault(sampler.WrapT, gl.REPEAT))
	if usesMipmaps(minFilter) {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

// Delete releases textures.
func Delete(ids ...uint32) {
	if len(ids) == 0 {
		return
	}
	gl.DeleteTextures(int32(len(ids)), &ids[0])
}

func orDefault(v, def int32) int32 {
	if v == 0 {
		return def
	}
	return v
}

func usesMipmaps(minFilter int32) bool {
	switch minFilter {
	case gl.NEAREST_MIPMAP_NEAREST, gl.LINEAR_MIPMAP_NEAREST,
		gl.NEAREST_MIPMAP_LINEAR, gl.LINEAR_MIPMAP_LINEAR:
		return true
	}
	return false
}
