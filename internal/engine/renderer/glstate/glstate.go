// Package glstate caches OpenGL bindings so redundant binds are skipped.
// The GL entry points are injected, which keeps the cache usable without a
// context.
package glstate

// GL enum values the cache needs.
const (
	ArrayBuffer        uint32 = 0x8892
	ElementArrayBuffer uint32 = 0x8893
	Texture2D          uint32 = 0x0DE1
	FrontAndBack       uint32 = 0x0408
	Point              uint32 = 0x1B00
	Line               uint32 = 0x1B01
	Fill               uint32 = 0x1B02
)

// MaxTextureUnits is the number of units tracked.
const MaxTextureUnits = 16

// GL is the subset of OpenGL the cache calls through.
type GL struct {
	UseProgram      func(program uint32)
	BindVertexArray func(vao uint32)
	BindBuffer      func(target, buffer uint32)
	ActiveTexture   func(unit uint32) // unit index, not GL_TEXTURE0 + unit
	BindTexture     func(target, texture uint32)
	PolygonMode     func(face, mode uint32)
}

// Cache remembers the last value bound for each slot. It is owned by the
// render thread.
type Cache struct {
	gl GL

	known         bool
	program       uint32
	vao           uint32
	arrayBuffer   uint32
	elementBuffer uint32
	activeUnit    uint32
	textures      [MaxTextureUnits]uint32
	polygonMode   uint32
}

// New creates a cache with unknown state; the first call to each method
// always reaches GL.
func New(gl GL) *Cache {
	c := &Cache{gl: gl}
	c.Invalidate()
	return c
}

// Invalidate forgets every cached binding. Call it after code outside the
// cache, such as the UI renderer, touched GL state.
func (c *Cache) Invalidate() {
	const unknown = ^uint32(0)
	c.program = unknown
	c.vao = unknown
	c.arrayBuffer = unknown
	c.elementBuffer = unknown
	c.activeUnit = unknown
	for i := range c.textures {
		c.textures[i] = unknown
	}
	c.polygonMode = unknown
}

// UseProgram binds a shader program.
func (c *Cache) UseProgram(program uint32) {
	if c.program == program {
		return
	}
	c.program = program
	c.gl.UseProgram(program)
}

// Program returns the cached program.
func (c *Cache) Program() uint32 { return c.program }

// BindVertexArray binds a VAO. The element buffer binding is part of VAO
// state, so it becomes unknown.
func (c *Cache) BindVertexArray(vao uint32) {
	if c.vao == vao {
		return
	}
	c.vao = vao
	c.elementBuffer = ^uint32(0)
	c.gl.BindVertexArray(vao)
}

// BindArrayBuffer binds a vertex buffer.
func (c *Cache) BindArrayBuffer(buffer uint32) {
	if c.arrayBuffer == buffer {
		return
	}
	c.arrayBuffer = buffer
	c.gl.BindBuffer(ArrayBuffer, buffer)
}

// BindElementBuffer binds an index buffer to the current VAO.
func (c *Cache) BindElementBuffer(buffer uint32) {
	if c.elementBuffer == buffer {
		return
	}
	c.elementBuffer = buffer
	c.gl.BindBuffer(ElementArrayBuffer, buffer)
}

// BindTexture binds a 2D texture on a unit, switching the active unit only
// when needed.
func (c *Cache) BindTexture(unit, texture uint32) {
	if unit >= MaxTextureUnits {
		c.activate(unit)
		c.gl.BindTexture(Texture2D, texture)
		return
	}
	if c.textures[unit] == texture {
		return
	}
	c.activate(unit)
	c.textures[unit] = texture
	c.gl.BindTexture(Texture2D, texture)
}

func (c *Cache) activate(unit uint32) {
	if c.activeUnit == unit {
		return
	}
	c.activeUnit = unit
	c.gl.ActiveTexture(unit)
}

// SetPolygonMode sets the rasterization mode for both faces.
func (c *Cache) SetPolygonMode(mode uint32) {
	if c.polygonMode == mode {
		return
	}
	c.polygonMode = mode
	c.gl.PolygonMode(FrontAndBack, mode)
}

// Forget drops any cached reference to a deleted object so a recycled name
// is bound again.
func (c *Cache) Forget(name uint32) {
	const unknown = ^uint32(0)
	if c.program == name {
		c.program = unknown
	}
	if c.vao == name {
		c.vao = unknown
	}
	if c.arrayBuffer == name {
		c.arrayBuffer = unknown
	}
	if c.elementBuffer == name {
		c.elementBuffer = unknown
	}
	for i := range c.textures {
		if c.textures[i] == name {
			c.textures[i] = unknown
		}
	}
}
