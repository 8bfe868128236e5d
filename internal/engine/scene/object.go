package scene

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// ErrDuplicateComponent is returned when an object already holds a
// component of the same concrete type.
var ErrDuplicateComponent = errors.New("component of the same type already attached")

// Object is a named scene entity with a transform and a set of components.
// An object holds at most one component per concrete type.
type Object struct {
	ID        uuid.UUID
	Name      string
	Transform Transform

	components []Component
	types      map[reflect.Type]int // concrete type -> index into components
}

// NewObject creates an empty object with an identity transform.
func NewObject(name string) *Object {
	return &Object{
		ID:        uuid.New(),
		Name:      name,
		Transform: NewTransform(),
		types:     make(map[reflect.Type]int),
	}
}

// AddComponent attaches c to o and returns it.
func AddComponent[T Component](o *Object, c T) (T, error) {
	t := reflect.TypeOf(c)
	if _, ok := o.types[t]; ok {
		var zero T
		return zero, fmt.Errorf("%s on %q: %w", t, o.Name, ErrDuplicateComponent)
	}
	c.attach(o)
	o.types[t] = len(o.components)
	o.components = append(o.components, c)
	return c, nil
}

// GetComponent returns the component of exactly type T, if attached.
func GetComponent[T Component](o *Object) (T, bool) {
	idx, ok := o.types[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return o.components[idx].(T), true
}

// MustGetComponent is like GetComponent but panics when T is not attached.
func MustGetComponent[T Component](o *Object) T {
	c, ok := GetComponent[T](o)
	if !ok {
		panic(fmt.Sprintf("scene: object %q has no %s", o.Name, reflect.TypeFor[T]()))
	}
	return c
}

// Components returns the attached components in insertion order.
func (o *Object) Components() []Component {
	return o.components
}

func (o *Object) willUpdate(ctx *Context) {
	for _, c := range o.components {
		c.OnWillUpdate(ctx)
	}
}

func (o *Object) update(ctx *Context) {
	for _, c := range o.components {
		c.OnUpdate(ctx)
	}
}

func (o *Object) render(ctx *Context) {
	for _, c := range o.components {
		c.OnRender(ctx)
	}
}

func (o *Object) postRender(ctx *Context) {
	for _, c := range o.components {
		c.OnPostRender(ctx)
	}
}
