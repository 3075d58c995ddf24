package main

import (
	"math/rand"

	"github.com/plus3/framecore/ecs"
)

const (
	projectilePool = "projectile"
	priorityMove   = 0
	prioritySpawn  = 10
	priorityCombat = 20
	priorityExpire = 30
)

type Position struct {
	ecs.ComponentBase
	X, Y float64
}

type Velocity struct {
	ecs.ComponentBase
	DX, DY float64
}

type Lifetime struct {
	ecs.ComponentBase
	Remaining float64
}

type Health struct {
	ecs.ComponentBase
	Current, Max float64
}

// projectile bundles the pooled components of one short-lived entity.
type projectile struct {
	pos  *Position
	vel  *Velocity
	life *Lifetime
}

func registerProjectilePool(w *ecs.World) *ecs.Pool[*projectile] {
	return ecs.RegisterPool(w.Pools(), projectilePool, ecs.TypedPoolConfig[*projectile]{
		New: func() *projectile {
			return &projectile{pos: &Position{}, vel: &Velocity{}, life: &Lifetime{}}
		},
		Reset: func(p *projectile, args ...any) {
			*p.pos = Position{}
			*p.vel = Velocity{}
			*p.life = Lifetime{}
			if len(args) == 1 {
				p.life.Remaining = args[0].(float64)
			}
		},
		MaxSize: 256,
	})
}

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{BaseSystem: ecs.NewBaseSystem(priorityMove, ecs.TypeOf[*Position](), ecs.TypeOf[*Velocity]())}
}

func (s *MovementSystem) Update(dt float64) {
	ecs.Each2(s.World().Entities(), func(_ *ecs.Entity, p *Position, v *Velocity) {
		p.X += v.DX * dt
		p.Y += v.DY * dt
	})
}

// SpawnSystem fires a fixed number of pooled projectiles per frame.
type SpawnSystem struct {
	ecs.BaseSystem
	pool     *ecs.Pool[*projectile]
	live     map[ecs.EntityID]*projectile
	rng      *rand.Rand
	PerFrame int
	Spawned  int
}

func NewSpawnSystem(perFrame int, seed int64) *SpawnSystem {
	return &SpawnSystem{
		BaseSystem: ecs.NewBaseSystem(prioritySpawn),
		live:       make(map[ecs.EntityID]*projectile),
		rng:        rand.New(rand.NewSource(seed)),
		PerFrame:   perFrame,
	}
}

func (s *SpawnSystem) Initialize(w *ecs.World) error {
	s.pool = registerProjectilePool(w)
	return nil
}

func (s *SpawnSystem) Update(float64) {
	w := s.World()
	for i := 0; i < s.PerFrame; i++ {
		p := s.pool.Get(0.05 + s.rng.Float64()*0.5)
		p.vel.DX = s.rng.Float64()*200 - 100
		p.vel.DY = s.rng.Float64()*200 - 100

		e := w.CreateEntity("projectile")
		e.AddTag("projectile")
		e.AddComponent(p.pos)
		e.AddComponent(p.vel)
		e.AddComponent(p.life)
		s.live[e.ID()] = p
		s.Spawned++
	}
}

// recycle returns a destroyed projectile's components to the pool. It runs after the
// flush has detached them.
func (s *SpawnSystem) recycle(id ecs.EntityID) {
	if p, ok := s.live[id]; ok {
		delete(s.live, id)
		s.pool.Release(p)
	}
}

// CombatSystem damages every unit a little each frame and reports deaths on the bus.
type CombatSystem struct {
	ecs.BaseSystem
	DamagePerSecond float64
}

func NewCombatSystem(dps float64) *CombatSystem {
	return &CombatSystem{
		BaseSystem:      ecs.NewBaseSystem(priorityCombat, ecs.TypeOf[*Health]()),
		DamagePerSecond: dps,
	}
}

func (s *CombatSystem) Update(dt float64) {
	bus := s.World().Bus()
	ecs.Each(s.World().Entities(), func(e *ecs.Entity, h *Health) {
		amount := s.DamagePerSecond * dt
		h.Current -= amount
		ev := ecs.HealthEvent{Entity: e, Amount: amount, Current: h.Current, Max: h.Max}
		ecs.PublishTyped(bus, ecs.TopicDamaged, ev)
		if h.Current <= 0 {
			ecs.PublishTyped(bus, ecs.TopicDied, ev)
			s.World().RemoveEntity(e)
		}
	})
}

// ExpirySystem destroys entities whose lifetime ran out.
type ExpirySystem struct {
	ecs.BaseSystem
	spawner *SpawnSystem
	Expired int
}

func NewExpirySystem(spawner *SpawnSystem) *ExpirySystem {
	return &ExpirySystem{
		BaseSystem: ecs.NewBaseSystem(priorityExpire, ecs.TypeOf[*Lifetime]()),
		spawner:    spawner,
	}
}

func (s *ExpirySystem) Update(dt float64) {
	w := s.World()
	ecs.Each(w.Entities(), func(e *ecs.Entity, l *Lifetime) {
		l.Remaining -= dt
		if l.Remaining > 0 {
			return
		}
		s.Expired++
		id := e.ID()
		w.RemoveEntity(e)
		w.Defer(func() { s.spawner.recycle(id) })
	})
}

// spawnUnits creates long-lived entities carrying health, and sometimes motion.
func spawnUnits(w *ecs.World, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		e := w.CreateEntity("unit")
		e.AddTag("unit")
		e.AddComponent(&Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000})
		maxHP := 50 + rng.Float64()*150
		e.AddComponent(&Health{Current: maxHP, Max: maxHP})
		if rng.Intn(2) == 0 {
			e.AddComponent(&Velocity{DX: rng.Float64()*10 - 5, DY: rng.Float64()*10 - 5})
		}
	}
}
