// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	"embed"
)

// PBRVertexShader is the vertex shader for glTF primitives.
//
//go:embed pbr.vert
var PBRVertexShader string

// PBRFragmentShader is the fragment shader for glTF primitives.
//
//go:embed pbr.frag
var PBRFragmentShader string

// FlatShader is a single-color shader in the combined #shader format.
//
//go:embed legacy.shader
var FlatShader string

// FS holds every embedded shader file. It is the last search root of the
// asset manager.
//
//go:embed *.vert *.frag *.shader
var FS embed.FS
