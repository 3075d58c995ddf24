package ecs

import (
	"slices"

	"go.uber.org/zap"
)

// EntityID is unique for the lifetime of one World. Ids are assigned from 1 upward
// and never reused.
type EntityID uint64

// Entity is an identity plus its attached components and tags.
type Entity struct {
	id         EntityID
	label      string
	tags       map[string]struct{}
	components map[ComponentType]Component
	order      []ComponentType
	disabled   bool
	pending    bool
	destroyed  bool
	flushing   bool // components are being detached by destroy
	manager    *EntityManager
}

func newEntity(id EntityID, label string, manager *EntityManager) *Entity {
	return &Entity{
		id:         id,
		label:      label,
		components: make(map[ComponentType]Component, 4),
		manager:    manager,
	}
}

// ID returns the entity id.
func (e *Entity) ID() EntityID { return e.id }

// Label returns the optional label given at creation.
func (e *Entity) Label() string { return e.label }

// World returns the world that created the entity.
func (e *Entity) World() *World { return e.manager.world }

// Enabled reports whether the entity takes part in component queries.
func (e *Entity) Enabled() bool { return !e.disabled }

// SetEnabled toggles the entity's enabled flag.
func (e *Entity) SetEnabled(enabled bool) { e.disabled = !enabled }

// PendingDestroy reports whether the entity is queued for destruction.
func (e *Entity) PendingDestroy() bool { return e.pending }

// Destroyed reports whether the entity has been flushed out of its world.
func (e *Entity) Destroyed() bool { return e.destroyed }

// Alive reports whether the entity is neither queued nor destroyed.
func (e *Entity) Alive() bool { return !e.pending && !e.destroyed }

// Destroy queues the entity for removal at the next flush.
func (e *Entity) Destroy() { e.manager.RemoveEntity(e) }

// AddComponent attaches c, replacing any component of the same type. The displaced
// component is detached first. Attaching a component owned by another entity panics
// with an *OwnershipError.
func (e *Entity) AddComponent(c Component) {
	if isNilComponent(c) {
		e.manager.log.Warn("ignoring component without type", zap.Uint64("entity", uint64(e.id)))
		return
	}
	t := TypeOfComponent(c)
	if e.destroyed || e.flushing {
		e.manager.log.Warn("ignoring component on destroyed entity",
			zap.Uint64("entity", uint64(e.id)), zap.Stringer("component", t))
		return
	}

	base := c.componentBase()
	if base.entity != nil {
		if base.entity == e {
			return
		}
		panic(&OwnershipError{Type: t, Owner: base.entity.id, Target: e.id})
	}

	if prev, ok := e.components[t]; ok {
		e.detach(t, prev)
	}

	e.components[t] = c
	e.order = append(e.order, t)
	base.entity = e
	e.manager.componentAdded(t)

	if h, ok := c.(Attacher); ok {
		h.OnAttached(e)
	}
}

// GetComponent returns the component of type t, or nil.
func (e *Entity) GetComponent(t ComponentType) Component {
	return e.components[t]
}

// RemoveComponent detaches and returns the component of type t, or nil if absent.
func (e *Entity) RemoveComponent(t ComponentType) Component {
	c, ok := e.components[t]
	if !ok {
		return nil
	}
	e.detach(t, c)
	return c
}

// HasComponent reports whether a component of type t is attached.
func (e *Entity) HasComponent(t ComponentType) bool {
	_, ok := e.components[t]
	return ok
}

// HasComponents reports whether the entity is enabled and has every listed type.
func (e *Entity) HasComponents(types ...ComponentType) bool {
	if e.disabled {
		return false
	}
	for _, t := range types {
		if _, ok := e.components[t]; !ok {
			return false
		}
	}
	return true
}

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.order))
	for _, t := range e.order {
		out = append(out, e.components[t])
	}
	return out
}

// ComponentTypes returns the attached component types in attach order.
func (e *Entity) ComponentTypes() []ComponentType {
	return slices.Clone(e.order)
}

// AddTag adds tag to the entity's tag set.
func (e *Entity) AddTag(tag string) {
	if e.destroyed {
		return
	}
	if e.tags == nil {
		e.tags = make(map[string]struct{}, 2)
	}
	if _, ok := e.tags[tag]; ok {
		return
	}
	e.tags[tag] = struct{}{}
	e.manager.tagAdded(e, tag)
}

// RemoveTag removes tag from the entity's tag set.
func (e *Entity) RemoveTag(tag string) {
	if _, ok := e.tags[tag]; !ok {
		return
	}
	delete(e.tags, tag)
	e.manager.tagRemoved(e, tag)
}

// HasTag reports whether the entity carries tag.
func (e *Entity) HasTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// Tags returns the entity's tags sorted alphabetically.
func (e *Entity) Tags() []string {
	out := make([]string, 0, len(e.tags))
	for tag := range e.tags {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// detach fires OnDetached and then clears the back-reference.
func (e *Entity) detach(t ComponentType, c Component) {
	delete(e.components, t)
	if i := slices.Index(e.order, t); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}
	e.manager.componentRemoved(t)

	if h, ok := c.(Detacher); ok {
		h.OnDetached(e)
	}
	c.componentBase().entity = nil
}

// Get returns e's component of type T.
func Get[T Component](e *Entity) (T, bool) {
	c, ok := e.components[TypeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}
