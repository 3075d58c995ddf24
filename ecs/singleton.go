package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// SetResource stores value as the world's single T, replacing any previous one.
// Resources hold session state that belongs to no entity.
func SetResource[T any](w *World, value *T) {
	w.resources[reflect.TypeFor[T]()] = value
}

// Resource returns the world's T, if set.
func Resource[T any](w *World) (*T, bool) {
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustResource returns the world's T and panics if it was never set.
func MustResource[T any](w *World) *T {
	v, ok := Resource[T](w)
	if !ok {
		panic(fmt.Sprintf("ecs: resource %s not set", reflect.TypeFor[T]()))
	}
	return v
}

// RemoveResource drops the world's T.
func RemoveResource[T any](w *World) {
	delete(w.resources, reflect.TypeFor[T]())
}

// ResourceTypes returns the types of every stored resource, sorted by name.
func (w *World) ResourceTypes() []reflect.Type {
	out := make([]reflect.Type, 0, len(w.resources))
	for t := range w.resources {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Singleton is a typed handle on a world resource.
type Singleton[T any] struct {
	world *World
}

// NewSingleton returns a handle on the world's T. If none is set it is created from
// initializer, or the zero value, so the resource exists after the call.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	ptr, ok := Resource[T](w)
	if !ok {
		ptr = new(T)
		if len(initializer) > 0 {
			*ptr = initializer[0]
		}
		SetResource(w, ptr)
	}
	return &Singleton[T]{world: w}
}

// Get returns the current resource, or nil if it was removed.
func (s *Singleton[T]) Get() *T {
	ptr, _ := Resource[T](s.world)
	return ptr
}

// Exists reports whether the resource is still set.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
