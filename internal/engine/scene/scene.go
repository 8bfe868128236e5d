// Package scene implements the object/component model and the per-frame
// lifecycle: every object gets willUpdate, then update, then render, then
// postRender, each phase finishing across all objects before the next.
package scene

import (
	"slices"

	"github.com/google/uuid"
)

// Scene is an ordered collection of objects.
type Scene struct {
	objects []*Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends an object to the scene.
func (s *Scene) Add(o *Object) {
	s.objects = append(s.objects, o)
}

// Remove drops the object with the given ID. It reports whether one was found.
func (s *Scene) Remove(id uuid.UUID) bool {
	i := slices.IndexFunc(s.objects, func(o *Object) bool { return o.ID == id })
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	return true
}

// Find returns the first object with the given name.
func (s *Scene) Find(name string) (*Object, bool) {
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Phase is one step of the frame lifecycle.
type Phase int

const (
	PhaseWillUpdate Phase = iota
	PhaseUpdate
	PhaseRender
	PhasePostRender
)

// Phases lists the lifecycle steps in execution order.
var Phases = []Phase{PhaseWillUpdate, PhaseUpdate, PhaseRender, PhasePostRender}

func (p Phase) String() string {
	switch p {
	case PhaseWillUpdate:
		return "willUpdate"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhasePostRender:
		return "postRender"
	}
	return "unknown"
}

// Frame runs the four lifecycle phases over every object.
func (s *Scene) Frame(ctx *Context) {
	for _, p := range Phases {
		s.RunPhase(ctx, p)
	}
}

// RunPhase runs a single phase over every object. Callers that need to do
// work between phases, such as binding a render target, use it instead of
// Frame and must run the phases in order.
func (s *Scene) RunPhase(ctx *Context, p Phase) {
	ctx.Scene = s
	for _, o := range s.objects {
		switch p {
		case PhaseWillUpdate:
			o.willUpdate(ctx)
		case PhaseUpdate:
			o.update(ctx)
		case PhaseRender:
			o.render(ctx)
		case PhasePostRender:
			o.postRender(ctx)
		}
	}
}
