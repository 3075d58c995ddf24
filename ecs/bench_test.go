package ecs_test

import (
	"testing"

	"github.com/plus3/framecore/ecs"
)

func BenchmarkQuery(b *testing.B) {
	w := ecs.NewWorld()
	for i := 0; i < 10000; i++ {
		e := w.CreateEntity("")
		e.AddComponent(&Position{})
		if i%2 == 0 {
			e.AddComponent(&Velocity{DX: 1})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.Each2(w.Entities(), func(_ *ecs.Entity, p *Position, v *Velocity) {
			p.X += v.DX
		})
	}
}

func BenchmarkCreateRemove(b *testing.B) {
	w := ecs.NewWorld()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := w.CreateEntity("")
		e.AddComponent(&Position{})
		w.RemoveEntity(e)
		if i%256 == 0 {
			w.Update(0)
		}
	}
}

func BenchmarkPublish(b *testing.B) {
	bus := ecs.NewMessageBus(nil)
	sum := 0
	for i := 0; i < 8; i++ {
		bus.Subscribe("tick", func(ecs.Message) error { sum++; return nil })
	}
	frame := &ecs.FrameInfo{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.FastPublish("tick", frame)
	}
}

func BenchmarkPoolGetRelease(b *testing.B) {
	w := ecs.NewWorld()
	pool := ecs.RegisterPool(w.Pools(), "projectile", projectileConfig(64))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Release(pool.Get())
	}
}
