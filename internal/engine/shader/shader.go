// Package shader compiles GLSL programs and manages the per-feature variants
// of a shader.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex attribute locations shared by every program, keyed by glTF
// semantic. They are bound before linking so one VAO layout serves all
// variants.
var AttributeLocations = map[string]uint32{
	"POSITION":   0,
	"NORMAL":     1,
	"TANGENT":    2,
	"TEXCOORD_0": 3,
	"TEXCOORD_1": 4,
	"COLOR_0":    5,
	"JOINTS_0":   6,
	"WEIGHTS_0":  7,
}

// attributeNames maps semantics to the GLSL input names.
var attributeNames = map[string]string{
	"POSITION":   "a_position",
	"NORMAL":     "a_normal",
	"TANGENT":    "a_tangent",
	"TEXCOORD_0": "a_texcoord0",
	"TEXCOORD_1": "a_texcoord1",
	"COLOR_0":    "a_color0",
	"JOINTS_0":   "a_joints0",
	"WEIGHTS_0":  "a_weights0",
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	for semantic, loc := range AttributeLocations {
		gl.BindAttribLocation(program, loc, gl.Str(attributeNames[semantic]+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(
	id uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) string {
	var logLen int32
	getiv(id, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return "unknown error"
	}
	log := make([]byte, logLen)
	getLog(id, logLen, nil, &log[0])
	return strings.TrimRight(string(log), "\x00\n")
}
