package animation

import (
	"encoding/binary"
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/humangl/pkg/math"
)

// ErrInvalidView is returned when a keyframe view does not fit its buffer.
var ErrInvalidView = errors.New("invalid keyframe view")

// ComponentType is the storage type of one vector component.
type ComponentType int

const (
	Float32 ComponentType = iota
	Int8                  // normalized signed byte
	Uint8                 // normalized unsigned byte
	Int16                 // normalized signed short
	Uint16                // normalized unsigned short
)

// Size returns the component size in bytes.
func (c ComponentType) Size() int {
	switch c {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	default:
		return 4
	}
}

func (c ComponentType) String() string {
	switch c {
	case Float32:
		return "float32"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	}
	return fmt.Sprintf("ComponentType(%d)", int(c))
}

// ElementKind is the number of components per element.
type ElementKind int

const (
	Scalar ElementKind = 1
	Vec3   ElementKind = 3
	Vec4   ElementKind = 4
)

// KeyframeView is a typed, bounds-checked window over a borrowed byte
// buffer: count elements starting at offset, stride bytes apart. The buffer
// belongs to the model and must outlive the view.
type KeyframeView struct {
	data   []byte
	offset int
	stride int
	count  int
	kind   ElementKind
	comp   ComponentType
}

// NewKeyframeView validates the layout against data. A stride of zero means
// tightly packed elements.
func NewKeyframeView(data []byte, offset, stride, count int, kind ElementKind, comp ComponentType) (KeyframeView, error) {
	elem := int(kind) * comp.Size()
	if stride == 0 {
		stride = elem
	}
	switch {
	case count <= 0:
		return KeyframeView{}, fmt.Errorf("%w: count %d", ErrInvalidView, count)
	case offset < 0:
		return KeyframeView{}, fmt.Errorf("%w: negative offset %d", ErrInvalidView, offset)
	case stride < elem:
		return KeyframeView{}, fmt.Errorf("%w: stride %d smaller than element size %d", ErrInvalidView, stride, elem)
	case offset%comp.Size() != 0 || stride%comp.Size() != 0:
		return KeyframeView{}, fmt.Errorf("%w: offset %d / stride %d not aligned to %s", ErrInvalidView, offset, stride, comp)
	}
	if end := offset + (count-1)*stride + elem; end > len(data) {
		return KeyframeView{}, fmt.Errorf("%w: needs %d bytes, buffer has %d", ErrInvalidView, end, len(data))
	}
	return KeyframeView{data: data, offset: offset, stride: stride, count: count, kind: kind, comp: comp}, nil
}

// Count returns the number of elements.
func (v KeyframeView) Count() int { return v.count }

// Kind returns the element kind.
func (v KeyframeView) Kind() ElementKind { return v.kind }

// component decodes component c of element i.
func (v KeyframeView) component(i, c int) float32 {
	if i < 0 || i >= v.count {
		panic(fmt.Sprintf("animation: keyframe index %d out of range [0,%d)", i, v.count))
	}
	if c >= int(v.kind) {
		panic(fmt.Sprintf("animation: component %d of a %d-component element", c, v.kind))
	}
	p := v.offset + i*v.stride + c*v.comp.Size()
	switch v.comp {
	case Int8:
		return max(float32(int8(v.data[p]))/127, -1)
	case Uint8:
		return float32(v.data[p]) / 255
	case Int16:
		return max(float32(int16(binary.LittleEndian.Uint16(v.data[p:])))/32767, -1)
	case Uint16:
		return float32(binary.LittleEndian.Uint16(v.data[p:])) / 65535
	default:
		return stdmath.Float32frombits(binary.LittleEndian.Uint32(v.data[p:]))
	}
}

// Float returns element i of a scalar view.
func (v KeyframeView) Float(i int) float32 {
	return v.component(i, 0)
}

// Vec3 returns element i as a vector.
func (v KeyframeView) Vec3(i int) math.Vec3 {
	return math.Vec3{X: v.component(i, 0), Y: v.component(i, 1), Z: v.component(i, 2)}
}

// Vec4 returns element i as a 4-vector.
func (v KeyframeView) Vec4(i int) math.Vec4 {
	return math.Vec4{X: v.component(i, 0), Y: v.component(i, 1), Z: v.component(i, 2), W: v.component(i, 3)}
}

// Quat returns element i as a quaternion stored (x, y, z, w).
func (v KeyframeView) Quat(i int) math.Quat {
	return math.Quat(v.Vec4(i))
}
