package scene

// Component is a unit of behavior attached to an Object. The engine calls
// each lifecycle hook once per frame, phase by phase, across every object.
//
// Components must embed BaseComponent, which supplies no-op hooks and the
// back-reference to the owning Object.
type Component interface {
	OnWillUpdate(ctx *Context)
	OnUpdate(ctx *Context)
	OnRender(ctx *Context)
	OnPostRender(ctx *Context)

	attach(o *Object)
}

// BaseComponent provides no-op lifecycle hooks and the owner reference.
// The owner is borrowed: an Object always outlives its components.
type BaseComponent struct {
	owner *Object
}

// Object returns the object this component is attached to, or nil before
// it has been added.
func (b *BaseComponent) Object() *Object { return b.owner }

func (b *BaseComponent) OnWillUpdate(*Context) {}
func (b *BaseComponent) OnUpdate(*Context)     {}
func (b *BaseComponent) OnRender(*Context)     {}
func (b *BaseComponent) OnPostRender(*Context) {}

func (b *BaseComponent) attach(o *Object) { b.owner = o }
