package model

import (
	"fmt"

	"github.com/Faultbox/humangl/internal/engine/animation"
)

// SamplerRef names the accessors of one keyframe curve.
type SamplerRef struct {
	Input         int
	Output        int
	Interpolation animation.Interpolation
}

// BuildAnimation creates an animation whose samplers read keyframes straight
// out of the model's buffers.
func (m *Model) BuildAnimation(name string, samplers []SamplerRef, channels []animation.Channel) (*animation.Animation, error) {
	built := make([]*animation.Sampler, len(samplers))
	for i, ref := range samplers {
		input, err := m.KeyframeView(ref.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q sampler %d input: %w", name, i, err)
		}
		if m.Accessors[ref.Input].ComponentType != ComponentFloat {
			return nil, fmt.Errorf("animation %q sampler %d: %w", name, i, ErrKeyframeTimes)
		}
		output, err := m.KeyframeView(ref.Output)
		if err != nil {
			return nil, fmt.Errorf("animation %q sampler %d output: %w", name, i, err)
		}
		s, err := animation.NewSampler(input, output, ref.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("animation %q sampler %d: %w", name, i, err)
		}
		built[i] = s
	}

	for _, ch := range channels {
		if ch.Node >= len(m.Nodes) {
			return nil, fmt.Errorf("animation %q: channel targets node %d of %d", name, ch.Node, len(m.Nodes))
		}
	}

	anim, err := animation.New(name, built, channels)
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, err)
	}
	return anim, nil
}

// KeyframeView returns a typed view over the bytes of an accessor.
func (m *Model) KeyframeView(accessor int) (animation.KeyframeView, error) {
	if accessor < 0 || accessor >= len(m.Accessors) {
		return animation.KeyframeView{}, fmt.Errorf("accessor %d: %w", accessor, ErrUnknownAccessor)
	}
	a := &m.Accessors[accessor]

	kind, err := elementKind(a.Components)
	if err != nil {
		return animation.KeyframeView{}, fmt.Errorf("accessor %d: %w", accessor, err)
	}
	comp, err := keyframeComponent(a)
	if err != nil {
		return animation.KeyframeView{}, fmt.Errorf("accessor %d: %w", accessor, err)
	}

	data, stride, err := m.viewBytes(a.BufferView)
	if err != nil {
		return animation.KeyframeView{}, fmt.Errorf("accessor %d: %w", accessor, err)
	}
	return animation.NewKeyframeView(data, a.ByteOffset, stride, a.Count, kind, comp)
}

// viewBytes returns the byte range of a buffer view and its stride.
func (m *Model) viewBytes(view int) ([]byte, int, error) {
	if view < 0 || view >= len(m.BufferViews) {
		return nil, 0, ErrMissingBufferView
	}
	bv := &m.BufferViews[view]
	if bv.Buffer < 0 || bv.Buffer >= len(m.Buffers) {
		return nil, 0, fmt.Errorf("buffer view %d: buffer %d: %w", view, bv.Buffer, ErrMissingBuffer)
	}
	buf := m.Buffers[bv.Buffer]
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(buf) {
		return nil, 0, fmt.Errorf("buffer view %d: range [%d,%d) exceeds buffer of %d bytes: %w",
			view, bv.ByteOffset, end, len(buf), animation.ErrInvalidView)
	}
	return buf[bv.ByteOffset:end], bv.ByteStride, nil
}

func elementKind(components int) (animation.ElementKind, error) {
	switch components {
	case 1:
		return animation.Scalar, nil
	case 3:
		return animation.Vec3, nil
	case 4:
		return animation.Vec4, nil
	}
	return 0, fmt.Errorf("%d components: %w", components, ErrUnsupportedKeyframes)
}

// keyframeComponent maps accessor storage to the quantized formats the
// sampler can decode. Integer outputs must be normalized.
func keyframeComponent(a *Accessor) (animation.ComponentType, error) {
	if a.ComponentType == ComponentFloat {
		return animation.Float32, nil
	}
	if !a.Normalized {
		return 0, fmt.Errorf("non-normalized component type %d: %w", a.ComponentType, ErrUnsupportedKeyframes)
	}
	switch a.ComponentType {
	case ComponentByte:
		return animation.Int8, nil
	case ComponentUnsignedByte:
		return animation.Uint8, nil
	case ComponentShort:
		return animation.Int16, nil
	case ComponentUnsignedShort:
		return animation.Uint16, nil
	}
	return 0, fmt.Errorf("component type %d: %w", a.ComponentType, ErrUnsupportedKeyframes)
}
