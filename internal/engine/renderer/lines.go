package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/pkg/math"
)

// Lines draws debug line lists with a single-color program. The program
// is expected to read a_position, u_transform, u_projectionView and
// u_color.
type Lines struct {
	r        *Renderer
	program  *shader.Program
	vao, vbo uint32
	capacity int
}

// NewLines creates a line drawer.
func (r *Renderer) NewLines(program *shader.Program) *Lines {
	l := &Lines{r: r, program: program}
	gl.GenVertexArrays(1, &l.vao)
	gl.GenBuffers(1, &l.vbo)

	r.state.BindVertexArray(l.vao)
	r.state.BindArrayBuffer(l.vbo)
	loc := shader.AttributeLocations["POSITION"]
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, 3*4, 0)
	r.state.BindVertexArray(0)
	return l
}

// Draw renders vertices, xyz per vertex, as GL_LINES on top of the scene.
func (l *Lines) Draw(vertices []float32, color math.Vec4, viewProj math.Mat4) {
	if len(vertices) < 6 {
		return
	}

	l.r.state.BindArrayBuffer(l.vbo)
	size := len(vertices) * 4
	if size > l.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		l.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(vertices))
	}

	p := l.program
	l.r.state.UseProgram(p.ID())
	p.SetMat4("u_transform", math.Identity())
	p.SetMat4("u_projectionView", viewProj)
	p.SetVec4("u_color", color)

	gl.Disable(gl.DEPTH_TEST)
	l.r.state.BindVertexArray(l.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.Enable(gl.DEPTH_TEST)
}

// Delete releases the GL objects.
func (l *Lines) Delete() {
	if l.vao != 0 {
		l.r.state.Forget(l.vao)
		gl.DeleteVertexArrays(1, &l.vao)
		l.vao = 0
	}
	if l.vbo != 0 {
		l.r.state.Forget(l.vbo)
		gl.DeleteBuffers(1, &l.vbo)
		l.vbo = 0
	}
}
