package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs"
)

// reattachOnDetach tries to attach next to the entity it leaves.
type reattachOnDetach struct {
	ecs.ComponentBase
	next ecs.Component
}

func (c *reattachOnDetach) OnDetached(e *ecs.Entity) { e.AddComponent(c.next) }

func TestEntityManager(t *testing.T) {
	t.Run("ids start at one and are not reused", func(t *testing.T) {
		w := ecs.NewWorld()
		a := w.CreateEntity("a")
		b := w.CreateEntity("b")
		assert.Equal(t, ecs.EntityID(1), a.ID())
		assert.Equal(t, ecs.EntityID(2), b.ID())

		w.RemoveEntity(a)
		w.Update(0)
		c := w.CreateEntity("c")
		assert.Equal(t, ecs.EntityID(3), c.ID())

		_, ok := w.Entities().GetEntity(a.ID())
		assert.False(t, ok)
		got, ok := w.Entities().GetEntity(c.ID())
		require.True(t, ok)
		assert.Same(t, c, got)
	})

	t.Run("pending entities never appear in queries", func(t *testing.T) {
		w := ecs.NewWorld()
		m := w.Entities()
		var all []*ecs.Entity
		for i := 0; i < 10; i++ {
			e := w.CreateEntity("")
			e.AddComponent(&Position{X: float64(i)})
			e.AddTag("unit")
			all = append(all, e)
		}
		for i := 0; i < 10; i += 2 {
			w.RemoveEntity(all[i])
		}

		byComponent := w.GetEntitiesByComponents(ecs.TypeOf[*Position]())
		byTag := w.GetEntitiesByTag("unit")
		assert.Len(t, byComponent, 5)
		assert.Len(t, byTag, 5)
		for _, e := range append(byComponent, byTag...) {
			assert.False(t, e.PendingDestroy())
			assert.Zero(t, e.ID()%2, "only even ids survive")
		}
		for e := range m.Query(ecs.TypeOf[*Position]()) {
			assert.True(t, e.Alive())
		}
		assert.Equal(t, 5, m.PendingLen())
		assert.Equal(t, 10, m.Len())

		w.Update(0)
		assert.Equal(t, 0, m.PendingLen())
		assert.Equal(t, 5, m.Len())
	})

	t.Run("remove twice is idempotent", func(t *testing.T) {
		w := ecs.NewWorld()
		e := w.CreateEntity("")
		h := &Health{}
		e.AddComponent(h)

		w.RemoveEntity(e)
		w.RemoveEntity(e)
		assert.Equal(t, 1, w.Commands().Len())
		w.Update(0)
		w.RemoveEntity(e)
		w.Update(0)

		assert.Len(t, h.detached, 1)
		assert.Equal(t, 0, w.Entities().Len())
	})

	t.Run("detach hooks cannot attach to an entity being destroyed", func(t *testing.T) {
		w, logs := newObservedWorld()
		e := w.CreateEntity("")
		v := &Velocity{}
		e.AddComponent(&reattachOnDetach{next: v})

		w.RemoveEntity(e)
		w.Update(0)

		assert.True(t, e.Destroyed())
		assert.False(t, e.HasComponent(ecs.TypeOf[*Velocity]()))
		assert.Nil(t, v.Entity())
		assert.Empty(t, w.Entities().CollectStats().ComponentCounts)
		assert.Equal(t, 1, logs.FilterMessage("ignoring component on destroyed entity").Len())

		other := w.CreateEntity("")
		assert.NotPanics(t, func() { other.AddComponent(v) })
		assert.Same(t, other, v.Entity())
	})

	t.Run("destroying while ranging over a query", func(t *testing.T) {
		w := ecs.NewWorld()
		for i := 0; i < 6; i++ {
			w.CreateEntity("").AddComponent(&Health{Current: float64(i)})
		}

		visited := 0
		for e := range w.Entities().Query(ecs.TypeOf[*Health]()) {
			visited++
			// each visit also removes the next entity
			if next, ok := w.Entities().GetEntity(e.ID() + 1); ok {
				w.RemoveEntity(next)
			}
		}
		assert.Equal(t, 3, visited)
		w.Update(0)
		assert.Len(t, w.GetEntitiesByComponents(ecs.TypeOf[*Health]()), 3)
	})

	t.Run("entities created while ranging are not visited", func(t *testing.T) {
		w := ecs.NewWorld()
		w.CreateEntity("").AddComponent(&Position{})

		visited := 0
		for range w.Entities().Query(ecs.TypeOf[*Position]()) {
			visited++
			w.CreateEntity("").AddComponent(&Position{})
		}
		assert.Equal(t, 1, visited)
		assert.Len(t, w.GetEntitiesByComponents(ecs.TypeOf[*Position]()), 2)
	})

	t.Run("disabled entities are excluded from component queries only", func(t *testing.T) {
		w := ecs.NewWorld()
		e := w.CreateEntity("")
		e.AddComponent(&Position{})
		e.AddTag("npc")
		e.SetEnabled(false)

		assert.Empty(t, w.GetEntitiesByComponents(ecs.TypeOf[*Position]()))
		assert.Equal(t, []*ecs.Entity{e}, w.GetEntitiesByTag("npc"))

		e.SetEnabled(true)
		assert.Len(t, w.GetEntitiesByComponents(ecs.TypeOf[*Position]()), 1)
	})

	t.Run("query with no types matches every live entity", func(t *testing.T) {
		w := ecs.NewWorld()
		w.CreateEntity("")
		w.CreateEntity("").AddComponent(&Velocity{})
		assert.Len(t, w.GetEntitiesByComponents(), 2)
	})

	t.Run("tag lookups return creation order", func(t *testing.T) {
		w := ecs.NewWorld()
		var tagged []*ecs.Entity
		for i := 0; i < 5; i++ {
			e := w.CreateEntity("")
			e.AddTag("wave")
			tagged = append(tagged, e)
		}
		assert.Equal(t, tagged, w.GetEntitiesByTag("wave"))

		first, ok := w.Entities().FirstByTag("wave")
		require.True(t, ok)
		assert.Same(t, tagged[0], first)

		w.RemoveEntity(tagged[0])
		first, ok = w.Entities().FirstByTag("wave")
		require.True(t, ok)
		assert.Same(t, tagged[1], first)

		_, ok = w.Entities().FirstByTag("missing")
		assert.False(t, ok)
	})

	t.Run("entities from another world are ignored", func(t *testing.T) {
		w1 := ecs.NewWorld()
		w2 := ecs.NewWorld()
		e := w1.CreateEntity("")
		w2.RemoveEntity(e)
		assert.False(t, e.PendingDestroy())
		assert.Equal(t, 0, w2.Commands().Len())
	})

	t.Run("stats", func(t *testing.T) {
		w := ecs.NewWorld()
		a := w.CreateEntity("")
		a.AddComponent(&Position{})
		a.AddComponent(&Health{})
		a.AddTag("player")
		b := w.CreateEntity("")
		b.AddComponent(&Position{})
		b.SetEnabled(false)
		c := w.CreateEntity("")
		w.RemoveEntity(c)

		stats := w.Entities().CollectStats()
		assert.Equal(t, 2, stats.Live)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 1, stats.Disabled)
		assert.Equal(t, 1, stats.QueuedCommands)
		assert.Equal(t, 2, stats.ComponentCounts[ecs.TypeOf[*Position]().String()])
		assert.Equal(t, 1, stats.TagCounts["player"])
		assert.Equal(t, []ecs.ComponentType{ecs.TypeOf[*Health](), ecs.TypeOf[*Position]()},
			w.Entities().ComponentTypes())
		assert.Contains(t, stats.String(), "live=2")
	})
}

func TestEach(t *testing.T) {
	w := ecs.NewWorld()
	for i := 0; i < 3; i++ {
		e := w.CreateEntity("")
		e.AddComponent(&Position{X: float64(i)})
		e.AddComponent(&Velocity{DX: 1, DY: 2})
	}
	w.CreateEntity("").AddComponent(&Position{X: 100})

	ecs.Each2(w.Entities(), func(_ *ecs.Entity, p *Position, v *Velocity) {
		p.X += v.DX
		p.Y += v.DY
	})

	var xs []float64
	ecs.Each(w.Entities(), func(_ *ecs.Entity, p *Position) {
		xs = append(xs, p.X)
	})
	assert.Equal(t, []float64{1, 2, 3, 100}, xs)
}
