package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectDefinesAfterVersion(t *testing.T) {
	src := "#version 410 core\nin vec3 a_position;\nvoid main() {}\n"

	got := InjectDefines(src, HasNormals|HasBaseColorMap)

	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "#version 410 core", lines[0])
	assert.Equal(t, "#define HAS_NORMALS", lines[1])
	assert.Equal(t, "#define HAS_BASECOLORMAP", lines[2])
	assert.Equal(t, "in vec3 a_position;", lines[3])
}

func TestInjectDefinesNoFlags(t *testing.T) {
	src := "#version 410 core\nvoid main() {}\n"
	assert.Equal(t, src, InjectDefines(src, None))
}

func TestInjectDefinesVersionNotFirst(t *testing.T) {
	src := "// header\n#version 410 core\nvoid main() {}"
	got := InjectDefines(src, HasVec4Colors)
	assert.Equal(t, "// header\n#version 410 core\n#define HAS_VEC4_COLORS\nvoid main() {}", got)
}

func TestInjectDefinesVersionLastLine(t *testing.T) {
	got := InjectDefines("#version 410 core", HasTangents)
	assert.Equal(t, "#version 410 core\n#define HAS_TANGENTS\n", got)
}

func TestInjectDefinesWithoutVersion(t *testing.T) {
	got := InjectDefines("void main() {}\n", HasNormalMap)
	assert.Equal(t, "#define HAS_NORMALMAP\nvoid main() {}\n", got)
}

func TestFlagsDefinesOrder(t *testing.T) {
	all := HasVec4Colors | HasVec3Colors | HasEmissiveMap | HasNormalMap |
		HasMetalRoughnessMap | HasBaseColorMap | HasTangents | HasNormals
	assert.Equal(t, []string{
		"HAS_NORMALS", "HAS_TANGENTS", "HAS_BASECOLORMAP", "HAS_METALROUGHNESSMAP",
		"HAS_NORMALMAP", "HAS_EMISSIVEMAP", "HAS_VEC3_COLORS", "HAS_VEC4_COLORS",
	}, all.Defines())
	assert.Equal(t, "NONE", None.String())
	assert.Equal(t, "HAS_NORMALS|HAS_NORMALMAP", (HasNormals | HasNormalMap).String())
}

func TestSplitSource(t *testing.T) {
	src := strings.Join([]string{
		"ignored preamble",
		"#shader vertex",
		"#version 410 core",
		"// a comment",
		"void main() { gl_Position = vec4(0); }",
		"#shader fragment",
		"#version 410 core",
		"out vec4 color;",
		"void main() { color = vec4(1); }",
	}, "\n")

	vert, frag, err := SplitSource(src)
	require.NoError(t, err)
	assert.Equal(t, "#version 410 core\nvoid main() { gl_Position = vec4(0); }\n", vert)
	assert.Equal(t, "#version 410 core\nout vec4 color;\nvoid main() { color = vec4(1); }\n", frag)
}

func TestSplitSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no fragment", "#shader vertex\nvoid main() {}\n"},
		{"no vertex", "#shader fragment\nvoid main() {}\n"},
		{"unknown stage", "#shader geometry\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SplitSource(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestSplitSourceMissingStageIsSentinel(t *testing.T) {
	_, _, err := SplitSource("#shader vertex\n")
	assert.ErrorIs(t, err, ErrMissingStage)
}
