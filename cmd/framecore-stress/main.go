package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/framecore/config"
	"github.com/plus3/framecore/ecs"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of long-lived units to create.")
	spawnRate := flag.Int("spawn", 200, "Pooled projectiles spawned per frame.")
	damage := flag.Float64("dps", 40, "Damage per second applied to every unit.")
	seed := flag.Int64("seed", 1, "Random seed.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	paced := flag.Bool("paced", false, "Run frames at the configured tick rate instead of as fast as possible.")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting stress test",
		zap.Duration("duration", *duration),
		zap.Int("entities", *entityCount),
		zap.Int("spawn_per_frame", *spawnRate))

	w := ecs.NewWorld(config.WorldOptions(cfg, log)...)
	sim, err := setup(w, *entityCount, *spawnRate, *damage, *seed)
	if err != nil {
		log.Fatal("setup failed", zap.Error(err))
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		SpawnRate:      *spawnRate,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	if cfg.Debug.UI {
		if err := runWithDebugUI(ctx, w, cfg, report); err != nil {
			log.Fatal("debug ui failed", zap.Error(err))
		}
	} else {
		var tick time.Duration
		if *paced {
			tick = cfg.Runtime.TickRate
		}
		runFrames(ctx, w, tick, report)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.collect(w, sim)

	log.Info("simulation finished", zap.Int64("updates", report.TotalUpdates), zap.Stringer("entities", report.EntityStats))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")

	w.Close()
}

// runFrames updates w until ctx is done. A positive tick paces frames with a ticker;
// otherwise frames run back to back.
func runFrames(ctx context.Context, w *ecs.World, tick time.Duration, report *Report) {
	var ticks <-chan time.Time
	if tick > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	lastFrameTime := time.Now()
	for {
		if ticks != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
			}
		} else if ctx.Err() != nil {
			return
		}

		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()
		report.timeUpdate(func() { w.Update(deltaTime.Seconds()) })
	}
}

// simulation holds the systems and counters the report reads back.
type simulation struct {
	spawner *SpawnSystem
	expiry  *ExpirySystem
	deaths  int
}

func setup(w *ecs.World, units, spawnRate int, dps float64, seed int64) (*simulation, error) {
	rng := rand.New(rand.NewSource(seed))
	sim := &simulation{spawner: NewSpawnSystem(spawnRate, seed)}
	sim.expiry = NewExpirySystem(sim.spawner)

	for _, s := range []ecs.System{NewMovementSystem(), sim.spawner, NewCombatSystem(dps), sim.expiry} {
		if err := w.RegisterSystem(s); err != nil {
			return nil, err
		}
	}

	// dead units are replaced once the frame settles, keeping the population stable
	ecs.SubscribeTyped(w.Bus(), ecs.TopicDied, func(ecs.HealthEvent) error {
		sim.deaths++
		w.Defer(func() { spawnUnits(w, rng, 1) })
		return nil
	})

	spawnUnits(w, rng, units)
	return sim, nil
}
