package ecs

import "reflect"

// ComponentType identifies a component by its concrete pointer type.
type ComponentType = reflect.Type

// Component is implemented by any pointer type that embeds ComponentBase.
//
//	type Health struct {
//		ecs.ComponentBase
//		Current, Max float64
//	}
type Component interface {
	componentBase() *ComponentBase
}

// ComponentBase carries the state every component shares: the owning entity and
// the enabled flag. Embed it by value.
type ComponentBase struct {
	entity   *Entity
	disabled bool
}

func (b *ComponentBase) componentBase() *ComponentBase { return b }

// Entity returns the owning entity, or nil while the component is unattached.
func (b *ComponentBase) Entity() *Entity { return b.entity }

// Attached reports whether the component currently belongs to an entity.
func (b *ComponentBase) Attached() bool { return b.entity != nil }

// Enabled reports the component's enabled flag. Components start enabled.
func (b *ComponentBase) Enabled() bool { return !b.disabled }

// Lifecycle hooks. A component opts into a hook by implementing the method.
type (
	Attacher interface{ OnAttached(e *Entity) }
	Detacher interface{ OnDetached(e *Entity) }
	Enabler  interface{ OnEnabled() }
	Disabler interface{ OnDisabled() }
)

// TypeOf returns the ComponentType for T, where T is the pointer type (e.g. *Health).
func TypeOf[T Component]() ComponentType {
	return reflect.TypeFor[T]()
}

// TypeOfComponent returns the ComponentType of c, or nil for a nil component.
func TypeOfComponent(c Component) ComponentType {
	if isNilComponent(c) {
		return nil
	}
	return reflect.TypeOf(c)
}

// ComponentEnabled reports c's enabled flag. A nil component is never enabled.
func ComponentEnabled(c Component) bool {
	return !isNilComponent(c) && !c.componentBase().disabled
}

// SetComponentEnabled toggles c and fires OnEnabled or OnDisabled when the flag changes.
func SetComponentEnabled(c Component, enabled bool) {
	if isNilComponent(c) {
		return
	}
	b := c.componentBase()
	if b.disabled == !enabled {
		return
	}
	b.disabled = !enabled
	if enabled {
		if h, ok := c.(Enabler); ok {
			h.OnEnabled()
		}
		return
	}
	if h, ok := c.(Disabler); ok {
		h.OnDisabled()
	}
}

func isNilComponent(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
