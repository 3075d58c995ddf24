package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs"
)

func TestSimulation(t *testing.T) {
	w := ecs.NewWorld()
	sim, err := setup(w, 20, 10, 1000, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"MovementSystem", "SpawnSystem", "CombatSystem", "ExpirySystem"},
		w.Systems().ExecutionOrder())

	for i := 0; i < 60; i++ {
		w.Update(1.0 / 60.0)
	}

	assert.Equal(t, 600, sim.spawner.Spawned)
	assert.Positive(t, sim.expiry.Expired)
	assert.Positive(t, sim.deaths)
	assert.Len(t, w.GetEntitiesByTag("unit"), 20, "dead units are replaced")
	assert.Len(t, w.GetEntitiesByTag("projectile"), sim.spawner.Spawned-sim.expiry.Expired)
	assert.Len(t, sim.spawner.live, sim.spawner.Spawned-sim.expiry.Expired)

	stats := sim.spawner.pool.Stats()
	assert.Positive(t, stats.Hits, "expired projectiles are reused")
	assert.Equal(t, uint64(sim.spawner.Spawned), stats.Hits+stats.Misses)

	for _, s := range w.Systems().GetStats().Systems {
		assert.Zero(t, s.FaultCount, s.Name)
	}
}

func TestReport(t *testing.T) {
	w := ecs.NewWorld()
	sim, err := setup(w, 5, 2, 10, 1)
	require.NoError(t, err)
	w.Update(0.016)

	report := &Report{Duration: time.Second, Entities: 5, SpawnRate: 2, UpdateTime: Stats{
		Samples: []time.Duration{2 * time.Millisecond, time.Millisecond, 3 * time.Millisecond},
	}}
	report.UpdateTime.Finalize()
	report.collect(w, sim)

	assert.Equal(t, time.Millisecond, report.UpdateTime.Min)
	assert.Equal(t, 3*time.Millisecond, report.UpdateTime.Max)
	assert.Equal(t, 2*time.Millisecond, report.UpdateTime.Avg)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "- projectile: available")
	assert.Contains(t, out, "- SpawnSystem (priority 10): runs 1")
	assert.Contains(t, out, "- health.died: subscribers 1")
}

func TestRunFrames(t *testing.T) {
	t.Run("paced by the tick", func(t *testing.T) {
		w := ecs.NewWorld()
		report := &Report{}
		ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
		defer cancel()

		runFrames(ctx, w, 10*time.Millisecond, report)

		assert.LessOrEqual(t, report.TotalUpdates, int64(6))
		assert.Positive(t, report.TotalUpdates)
		assert.Len(t, report.UpdateTime.Samples, int(report.TotalUpdates))
		assert.Equal(t, uint64(report.TotalUpdates), w.Frame().Frame)
	})

	t.Run("unpaced stops when the context ends", func(t *testing.T) {
		w := ecs.NewWorld()
		report := &Report{}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		runFrames(ctx, w, 0, report)

		assert.Positive(t, report.TotalUpdates)
		assert.Equal(t, uint64(report.TotalUpdates), w.Frame().Frame)
	})
}
