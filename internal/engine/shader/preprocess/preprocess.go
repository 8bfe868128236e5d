// Package preprocess rewrites GLSL sources before compilation: it splits
// combined "#shader" files and injects feature defines for shader variants.
package preprocess

import (
	"errors"
	"fmt"
	"strings"
)

// Flags selects the optional inputs a shader variant is compiled for.
type Flags uint32

const (
	HasNormals Flags = 1 << iota
	HasTangents
	HasBaseColorMap
	HasMetalRoughnessMap
	HasNormalMap
	HasEmissiveMap
	HasVec3Colors
	HasVec4Colors
)

// None is the variant without any optional input.
const None Flags = 0

var defineNames = []struct {
	flag Flags
	name string
}{
	{HasNormals, "HAS_NORMALS"},
	{HasTangents, "HAS_TANGENTS"},
	{HasBaseColorMap, "HAS_BASECOLORMAP"},
	{HasMetalRoughnessMap, "HAS_METALROUGHNESSMAP"},
	{HasNormalMap, "HAS_NORMALMAP"},
	{HasEmissiveMap, "HAS_EMISSIVEMAP"},
	{HasVec3Colors, "HAS_VEC3_COLORS"},
	{HasVec4Colors, "HAS_VEC4_COLORS"},
}

// Defines returns the macro names enabled by f in a fixed order.
func (f Flags) Defines() []string {
	var out []string
	for _, d := range defineNames {
		if f&d.flag != 0 {
			out = append(out, d.name)
		}
	}
	return out
}

func (f Flags) String() string {
	if f == None {
		return "NONE"
	}
	return strings.Join(f.Defines(), "|")
}

// InjectDefines inserts one "#define" line per flag directly after the
// "#version" line. Sources without a version line get the defines at the
// top. With no flags the source is returned unchanged.
func InjectDefines(src string, flags Flags) string {
	defines := flags.Defines()
	if len(defines) == 0 {
		return src
	}

	var block strings.Builder
	for _, d := range defines {
		block.WriteString("#define ")
		block.WriteString(d)
		block.WriteByte('\n')
	}

	idx := versionLineEnd(src)
	if idx < 0 {
		return block.String() + src
	}
	if idx == len(src) {
		return src + "\n" + block.String()
	}
	return src[:idx] + block.String() + src[idx:]
}

// versionLineEnd returns the offset just past the newline ending the
// "#version" line, len(src) when it is the last line, or -1.
func versionLineEnd(src string) int {
	offset := 0
	for offset < len(src) {
		end := strings.IndexByte(src[offset:], '\n')
		line := src[offset:]
		if end >= 0 {
			line = src[offset : offset+end]
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			if end < 0 {
				return len(src)
			}
			return offset + end + 1
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return -1
}

// ErrMissingStage is returned by SplitSource when a stage marker is absent.
var ErrMissingStage = errors.New("missing shader stage")

// SplitSource separates a combined file using "#shader vertex" and
// "#shader fragment" marker lines. Lines before the first marker and
// comment-only lines are dropped.
func SplitSource(src string) (vert, frag string, err error) {
	const (
		none = iota
		vertex
		fragment
	)

	var out [3]strings.Builder
	seen := [3]bool{}
	stage := none

	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "#shader"); ok {
			switch strings.TrimSpace(rest) {
			case "vertex":
				stage = vertex
			case "fragment":
				stage = fragment
			default:
				return "", "", fmt.Errorf("line %d: unknown shader stage %q", i+1, strings.TrimSpace(rest))
			}
			seen[stage] = true
			continue
		}
		if stage != none {
			out[stage].WriteString(strings.TrimRight(line, "\r"))
			out[stage].WriteByte('\n')
		}
	}

	if !seen[vertex] {
		return "", "", fmt.Errorf("vertex: %w", ErrMissingStage)
	}
	if !seen[fragment] {
		return "", "", fmt.Errorf("fragment: %w", ErrMissingStage)
	}
	return out[vertex].String(), out[fragment].String(), nil
}
