package ecs_test

import (
	"fmt"

	"github.com/plus3/framecore/ecs"
)

// ExampleWorld shows a system moving entities and a removal queued mid-frame.
func ExampleWorld() {
	w := ecs.NewWorld()
	if err := w.RegisterSystem(NewMovementSystem()); err != nil {
		panic(err)
	}

	ship := w.CreateEntity("ship")
	pos := &Position{}
	ship.AddComponent(pos)
	ship.AddComponent(&Velocity{DX: 10, DY: 5})

	w.Update(0.5)
	fmt.Printf("ship at (%.1f, %.1f)\n", pos.X, pos.Y)

	w.RemoveEntity(ship)
	fmt.Println("queued:", ship.PendingDestroy(), "attached:", pos.Attached())
	w.Update(0.5)
	fmt.Println("destroyed:", ship.Destroyed(), "attached:", pos.Attached())

	// Output:
	// ship at (5.0, 2.5)
	// queued: true attached: true
	// destroyed: true attached: false
}

// ExampleMessageBus shows typed topics and delivery order.
func ExampleMessageBus() {
	w := ecs.NewWorld()
	player := w.CreateEntity("player")

	ecs.SubscribeTyped(w.Bus(), ecs.TopicDamaged, func(ev ecs.HealthEvent) error {
		fmt.Printf("hud: %s took %.0f\n", ev.Entity.Label(), ev.Amount)
		return nil
	})
	ecs.SubscribeTyped(w.Bus(), ecs.TopicDamaged, func(ev ecs.HealthEvent) error {
		fmt.Printf("audio: hit sound at %.0f/%.0f\n", ev.Current, ev.Max)
		return nil
	})

	ecs.PublishTyped(w.Bus(), ecs.TopicDamaged, ecs.HealthEvent{Entity: player, Amount: 15, Current: 85, Max: 100})

	// Output:
	// hud: player took 15
	// audio: hit sound at 85/100
}

// ExamplePool shows a bounded pool reusing released instances.
func ExamplePool() {
	w := ecs.NewWorld()
	bullets := ecs.RegisterPool(w.Pools(), "bullet", ecs.TypedPoolConfig[*Position]{
		New:     func() *Position { return &Position{} },
		Reset:   func(p *Position, _ ...any) { p.X, p.Y = 0, 0 },
		MaxSize: 2,
	})

	a := bullets.Get()
	a.X = 99
	bullets.Release(a)
	b := bullets.Get()

	stats := bullets.Stats()
	fmt.Println("reused:", a == b, "x:", b.X)
	fmt.Println("hits:", stats.Hits, "misses:", stats.Misses)

	// Output:
	// reused: true x: 0
	// hits: 1 misses: 1
}

// ExampleNewSingleton shows world-scoped state that belongs to no entity.
func ExampleNewSingleton() {
	w := ecs.NewWorld()
	score := ecs.NewSingleton(w, Score{Value: 100})

	score.Get().Value += 50
	fmt.Println(ecs.MustResource[Score](w).Value)

	// Output:
	// 150
}
