package ecs

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// EntityManager is the authoritative entity set of a World.
//
// Destruction is deferred: RemoveEntity only marks the entity and queues it, and every
// query skips marked entities straight away. Components are detached at the single
// flush point at the end of each frame, so a system may destroy entities while ranging
// over the query that produced them.
type EntityManager struct {
	world    *World
	log      *zap.Logger
	commands *Commands

	nextID   EntityID
	entities []*Entity // creation order, including entities pending destruction
	index    *intmap.Map[EntityID, *Entity]
	tags     map[string]map[EntityID]*Entity
	pending  int

	componentCounts map[ComponentType]int
}

func newEntityManager(world *World, log *zap.Logger) *EntityManager {
	return &EntityManager{
		world:           world,
		log:             log,
		commands:        newCommands(),
		index:           intmap.New[EntityID, *Entity](256),
		tags:            make(map[string]map[EntityID]*Entity),
		componentCounts: make(map[ComponentType]int),
	}
}

// CreateEntity allocates a new entity. label is informational and may be empty.
func (m *EntityManager) CreateEntity(label string) *Entity {
	m.nextID++
	e := newEntity(m.nextID, label, m)
	m.entities = append(m.entities, e)
	m.index.Put(e.id, e)
	return e
}

// RemoveEntity queues e for destruction. Queued entities disappear from queries
// immediately; their components are detached at the next Flush. Removing an entity
// twice, or one that belongs to another world, does nothing.
func (m *EntityManager) RemoveEntity(e *Entity) {
	if e == nil || e.manager != m || e.pending || e.destroyed {
		return
	}
	e.pending = true
	m.pending++
	m.commands.queueRemoval(e)
}

// Defer queues fn to run at the next Flush.
func (m *EntityManager) Defer(fn func()) {
	m.commands.Defer(fn)
}

// Commands returns the deferred operation buffer.
func (m *EntityManager) Commands() *Commands {
	return m.commands
}

// Flush destroys queued entities and runs deferred callbacks. Must not be called while
// ranging over a Query.
func (m *EntityManager) Flush() {
	m.commands.flush(m)
}

// GetEntity returns the live or pending entity with the given id.
func (m *EntityManager) GetEntity(id EntityID) (*Entity, bool) {
	return m.index.Get(id)
}

// Len returns the number of entities not yet destroyed, pending ones included.
func (m *EntityManager) Len() int {
	return m.index.Len()
}

// PendingLen returns the number of entities queued for destruction.
func (m *EntityManager) PendingLen() int {
	return m.pending
}

// Query iterates the enabled, non-pending entities that carry every listed component
// type, in creation order. Entities created while ranging are not visited; entities
// removed while ranging are skipped from that point on.
func (m *EntityManager) Query(types ...ComponentType) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		entities := m.entities[:len(m.entities):len(m.entities)]
		for _, e := range entities {
			if e.pending || e.destroyed || !e.HasComponents(types...) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// GetEntitiesByComponents returns the enabled, non-pending entities whose component
// set is a superset of types.
func (m *EntityManager) GetEntitiesByComponents(types ...ComponentType) []*Entity {
	return slices.Collect(m.Query(types...))
}

// GetEntitiesByTag returns the non-pending entities carrying tag, in creation order.
// Disabled entities are included.
func (m *EntityManager) GetEntitiesByTag(tag string) []*Entity {
	tagged := m.tags[tag]
	out := make([]*Entity, 0, len(tagged))
	for _, e := range tagged {
		if e.pending || e.destroyed {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// FirstByTag returns the oldest non-pending entity carrying tag.
func (m *EntityManager) FirstByTag(tag string) (*Entity, bool) {
	var first *Entity
	for _, e := range m.tags[tag] {
		if e.pending || e.destroyed {
			continue
		}
		if first == nil || e.id < first.id {
			first = e
		}
	}
	return first, first != nil
}

// Clear destroys every entity immediately, running detach hooks. Used at teardown.
func (m *EntityManager) Clear() {
	for _, e := range m.entities {
		m.RemoveEntity(e)
	}
	m.Flush()
}

// destroy detaches components in reverse attach order and drops e from the indexes.
// The entity stays in m.entities until compact.
func (m *EntityManager) destroy(e *Entity) {
	if e.destroyed {
		return
	}
	e.flushing = true
	for len(e.order) > 0 {
		t := e.order[len(e.order)-1]
		e.detach(t, e.components[t])
	}
	e.flushing = false
	for tag := range e.tags {
		m.tagRemoved(e, tag)
	}
	m.index.Del(e.id)
	e.destroyed = true
	e.pending = false
	m.pending--
}

func (m *EntityManager) compact() {
	m.entities = slices.DeleteFunc(m.entities, func(e *Entity) bool { return e.destroyed })
}

func (m *EntityManager) runDeferred(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("deferred callback failed", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}

func (m *EntityManager) tagAdded(e *Entity, tag string) {
	tagged := m.tags[tag]
	if tagged == nil {
		tagged = make(map[EntityID]*Entity)
		m.tags[tag] = tagged
	}
	tagged[e.id] = e
}

func (m *EntityManager) tagRemoved(e *Entity, tag string) {
	tagged := m.tags[tag]
	delete(tagged, e.id)
	if len(tagged) == 0 {
		delete(m.tags, tag)
	}
}

func (m *EntityManager) componentAdded(t ComponentType) {
	m.componentCounts[t]++
}

func (m *EntityManager) componentRemoved(t ComponentType) {
	if m.componentCounts[t]--; m.componentCounts[t] <= 0 {
		delete(m.componentCounts, t)
	}
}

// EntityStats is a diagnostic snapshot of the entity set.
type EntityStats struct {
	Live            int
	Pending         int
	Disabled        int
	QueuedCommands  int
	ComponentCounts map[string]int
	TagCounts       map[string]int
}

// ComponentTypes returns the component types currently attached to at least one
// entity, sorted by name.
func (m *EntityManager) ComponentTypes() []ComponentType {
	out := make([]ComponentType, 0, len(m.componentCounts))
	for t := range m.componentCounts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Entities returns every entity not yet destroyed, in creation order.
func (m *EntityManager) Entities() []*Entity {
	out := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		if !e.destroyed {
			out = append(out, e)
		}
	}
	return out
}

// CollectStats gathers counts for diagnostics.
func (m *EntityManager) CollectStats() EntityStats {
	stats := EntityStats{
		Pending:         m.pending,
		QueuedCommands:  m.commands.Len(),
		ComponentCounts: make(map[string]int, len(m.componentCounts)),
		TagCounts:       make(map[string]int, len(m.tags)),
	}
	for _, e := range m.entities {
		if e.destroyed || e.pending {
			continue
		}
		stats.Live++
		if e.disabled {
			stats.Disabled++
		}
	}
	for t, n := range m.componentCounts {
		stats.ComponentCounts[t.String()] = n
	}
	for tag, tagged := range m.tags {
		stats.TagCounts[tag] = len(tagged)
	}
	return stats
}

func (s EntityStats) String() string {
	return fmt.Sprintf("live=%d pending=%d disabled=%d components=%d tags=%d",
		s.Live, s.Pending, s.Disabled, len(s.ComponentCounts), len(s.TagCounts))
}
