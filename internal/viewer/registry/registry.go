// Package registry stores named engine resources, such as shaders and
// models, in the order they were added.
package registry

import (
	"fmt"
	"slices"
	"strconv"
)

// Registry maps ids to values. Adding an id twice fails with the error the
// registry was created with.
type Registry[T any] struct {
	duplicate error
	items     map[string]T
	order     []string
}

// New creates an empty registry. duplicate is wrapped into the error Add
// returns for an id that is already taken.
func New[T any](duplicate error) *Registry[T] {
	return &Registry[T]{
		duplicate: duplicate,
		items:     make(map[string]T),
	}
}

// Add stores v under id.
func (r *Registry[T]) Add(id string, v T) error {
	if _, ok := r.items[id]; ok {
		return fmt.Errorf("%q: %w", id, r.duplicate)
	}
	r.items[id] = v
	r.order = append(r.order, id)
	return nil
}

// Get returns the value stored under id.
func (r *Registry[T]) Get(id string) (T, bool) {
	v, ok := r.items[id]
	return v, ok
}

// Has reports whether id is taken.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.items[id]
	return ok
}

// Remove deletes id and returns its value.
func (r *Registry[T]) Remove(id string) (T, bool) {
	v, ok := r.items[id]
	if !ok {
		return v, false
	}
	delete(r.items, id)
	i := slices.Index(r.order, id)
	r.order = slices.Delete(r.order, i, i+1)
	return v, true
}

// IDs returns the ids in insertion order.
func (r *Registry[T]) IDs() []string {
	return slices.Clone(r.order)
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int { return len(r.order) }

// Each calls fn for every entry in insertion order.
func (r *Registry[T]) Each(fn func(id string, v T)) {
	for _, id := range r.order {
		fn(id, r.items[id])
	}
}

// UniqueID returns base if it is free, otherwise the first free of
// base-2, base-3 and so on.
func (r *Registry[T]) UniqueID(base string) string {
	if !r.Has(base) {
		return base
	}
	for n := 2; ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if !r.Has(id) {
			return id
		}
	}
}
