// Package framebuffer provides the off-screen target the 3D view renders
// into before the UI displays it.
package framebuffer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/humangl/internal/engine/texture"
)

// Framebuffer is a color texture plus depth target. With samples > 1 the
// scene renders into multisampled renderbuffers and Resolve copies the
// result into the texture.
type Framebuffer struct {
	fbo          uint32
	colorTexture uint32
	depthRBO     uint32

	msFBO      uint32
	msColorRBO uint32
	msDepthRBO uint32

	width   int32
	height  int32
	samples int32
}

// New creates a framebuffer. Sizes below one pixel are raised to one.
func New(width, height, samples int32) (*Framebuffer, error) {
	fb := &Framebuffer{
		width:   max(width, 1),
		height:  max(height, 1),
		samples: samples,
	}
	if err := fb.create(); err != nil {
		fb.Destroy()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) create() error {
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(1, &fb.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	if fb.samples > 1 {
		gl.GenFramebuffers(1, &fb.msFBO)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.msFBO)
		gl.GenRenderbuffers(1, &fb.msColorRBO)
		gl.GenRenderbuffers(1, &fb.msDepthRBO)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.msColorRBO)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.msDepthRBO)
	}

	fb.allocate()

	for _, id := range fb.targets() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, id)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
			return fmt.Errorf("framebuffer %d incomplete: 0x%x", id, status)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

// allocate (re)creates storage at the current size.
func (fb *Framebuffer) allocate() {
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, fb.width, fb.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)

	if fb.samples > 1 {
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.msColorRBO)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.RGBA8, fb.width, fb.height)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.msDepthRBO)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (fb *Framebuffer) targets() []uint32 {
	if fb.samples > 1 {
		return []uint32{fb.fbo, fb.msFBO}
	}
	return []uint32{fb.fbo}
}

// drawTarget is the framebuffer the scene renders into.
func (fb *Framebuffer) drawTarget() uint32 {
	if fb.samples > 1 {
		return fb.msFBO
	}
	return fb.fbo
}

// Bind makes this framebuffer the render target and sets the viewport.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.drawTarget())
	gl.Viewport(0, 0, fb.width, fb.height)
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resolve copies the multisampled image into the color texture. It is a
// no-op without multisampling.
func (fb *Framebuffer) Resolve() {
	if fb.samples <= 1 {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.msFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.fbo)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ColorTexture returns the texture holding the resolved image.
func (fb *Framebuffer) ColorTexture() uint32 {
	return fb.colorTexture
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates storage when the size changed.
func (fb *Framebuffer) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width, fb.height = width, height
	fb.allocate()
}

// ReadPixels reads the resolved color texture into an image with the first
// row at the top.
func (fb *Framebuffer) ReadPixels() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.width), int(fb.height)))

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	texture.FlipVertical(img)
	return img
}

// Destroy releases all GL objects.
func (fb *Framebuffer) Destroy() {
	for _, id := range []*uint32{&fb.fbo, &fb.msFBO} {
		if *id != 0 {
			gl.DeleteFramebuffers(1, id)
			*id = 0
		}
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
	for _, id := range []*uint32{&fb.depthRBO, &fb.msColorRBO, &fb.msDepthRBO} {
		if *id != 0 {
			gl.DeleteRenderbuffers(1, id)
			*id = 0
		}
	}
}
