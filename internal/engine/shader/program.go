package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/humangl/internal/engine/renderer/glstate"
	"github.com/Faultbox/humangl/pkg/math"
)

// Program is a linked program with cached uniform locations and values.
// Setters upload only when the value changed, so they may be called every
// frame, and they do not require the program to be bound.
type Program struct {
	id        uint32
	locations map[string]int32
	values    *glstate.UniformCache
}

func newProgram(id uint32) *Program {
	return &Program{
		id:        id,
		locations: make(map[string]int32),
		values:    glstate.NewUniformCache(),
	}
}

// Compile builds a program from sources.
func Compile(vert, frag string) (*Program, error) {
	id, err := CompileProgram(vert, frag)
	if err != nil {
		return nil, err
	}
	return newProgram(id), nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Uniform returns the location of a uniform, -1 when inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// Attribute returns the location of a vertex input by glTF semantic.
func (p *Program) Attribute(semantic string) (uint32, bool) {
	loc, ok := AttributeLocations[semantic]
	return loc, ok
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	loc := p.Uniform(name)
	if p.values.Changed(loc, float32(v)) {
		gl.ProgramUniform1i(p.id, loc, v)
	}
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	loc := p.Uniform(name)
	if p.values.Changed(loc, v) {
		gl.ProgramUniform1f(p.id, loc, v)
	}
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v math.Vec3) {
	loc := p.Uniform(name)
	if p.values.Changed(loc, v.X, v.Y, v.Z) {
		gl.ProgramUniform3f(p.id, loc, v.X, v.Y, v.Z)
	}
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v math.Vec4) {
	loc := p.Uniform(name)
	if p.values.Changed(loc, v.X, v.Y, v.Z, v.W) {
		gl.ProgramUniform4f(p.id, loc, v.X, v.Y, v.Z, v.W)
	}
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	loc := p.Uniform(name)
	f := m.Floats()
	if p.values.Changed(loc, f[:]...) {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &f[0])
	}
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
	clear(p.locations)
	p.values.Reset()
}
