package shader

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/Faultbox/humangl/internal/engine/shader/preprocess"
)

// Registry errors.
var (
	ErrVariantNotEnabled = errors.New("shader variant not enabled")
	ErrDuplicateShader   = errors.New("a shader with the same id already exists")
)

// Variants compiles one shader source into a program per feature set. A
// variant is compiled the first time it is enabled.
type Variants struct {
	name     string
	vert     string
	frag     string
	programs map[preprocess.Flags]*Program
}

// NewVariants creates an empty variant set. Nothing is compiled yet.
func NewVariants(name, vert, frag string) *Variants {
	return &Variants{
		name:     name,
		vert:     vert,
		frag:     frag,
		programs: make(map[preprocess.Flags]*Program),
	}
}

// Name returns the shader id.
func (v *Variants) Name() string { return v.name }

// Enable compiles the variant for flags unless it already exists.
func (v *Variants) Enable(flags preprocess.Flags) (*Program, error) {
	if p, ok := v.programs[flags]; ok {
		return p, nil
	}
	p, err := v.compile(v.vert, v.frag, flags)
	if err != nil {
		return nil, fmt.Errorf("shader %s variant %s: %w", v.name, flags, err)
	}
	v.programs[flags] = p
	return p, nil
}

// Program returns an enabled variant.
func (v *Variants) Program(flags preprocess.Flags) (*Program, error) {
	p, ok := v.programs[flags]
	if !ok {
		return nil, fmt.Errorf("shader %s variant %s: %w", v.name, flags, ErrVariantNotEnabled)
	}
	return p, nil
}

// Enabled returns the enabled feature sets in ascending order.
func (v *Variants) Enabled() []preprocess.Flags {
	out := make([]preprocess.Flags, 0, len(v.programs))
	for f := range v.programs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each calls fn for every enabled variant.
func (v *Variants) Each(fn func(flags preprocess.Flags, p *Program)) {
	for _, f := range v.Enabled() {
		fn(f, v.programs[f])
	}
}

// Reload recompiles every enabled variant from new sources. Either all
// variants are replaced or, on any failure, the old programs stay in use.
func (v *Variants) Reload(vert, frag string) error {
	next := make(map[preprocess.Flags]*Program, len(v.programs))
	var errs error
	for _, f := range v.Enabled() {
		p, err := v.compile(vert, frag, f)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("variant %s: %w", f, err))
			continue
		}
		next[f] = p
	}
	if errs != nil {
		for _, p := range next {
			p.Delete()
		}
		return fmt.Errorf("reload shader %s: %w", v.name, errs)
	}

	v.Destroy()
	v.vert, v.frag = vert, frag
	v.programs = next
	return nil
}

// Destroy deletes every compiled program.
func (v *Variants) Destroy() {
	for f, p := range v.programs {
		p.Delete()
		delete(v.programs, f)
	}
}

func (v *Variants) compile(vert, frag string, flags preprocess.Flags) (*Program, error) {
	return Compile(preprocess.InjectDefines(vert, flags), preprocess.InjectDefines(frag, flags))
}
