package ecs

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// World owns one session: its entities, systems, message bus, pools and resources.
// A World is not safe for concurrent use; every call must come from the thread that
// drives Update.
type World struct {
	log *zap.Logger

	entities *EntityManager
	systems  *SystemManager
	bus      *MessageBus
	pools    *PoolRegistry

	resources map[reflect.Type]any

	frame    FrameInfo
	maxDelta float64
	closed   bool
}

type worldOptions struct {
	log             *zap.Logger
	maxDelta        time.Duration
	defaultPoolSize int
	poolLimits      map[string]PoolLimits
}

// Option configures a World.
type Option func(*worldOptions)

// WithLogger sets the logger. Each subsystem logs through a named child.
func WithLogger(log *zap.Logger) Option {
	return func(o *worldOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMaxDeltaTime clamps the dt passed to Update. Zero disables clamping.
func WithMaxDeltaTime(d time.Duration) Option {
	return func(o *worldOptions) { o.maxDelta = d }
}

// WithDefaultPoolSize sets the MaxSize used by pools registered without one.
func WithDefaultPoolSize(n int) Option {
	return func(o *worldOptions) { o.defaultPoolSize = n }
}

// WithPoolLimits overrides the sizing of named pools.
func WithPoolLimits(limits map[string]PoolLimits) Option {
	return func(o *worldOptions) { o.poolLimits = limits }
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	o := worldOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	w := &World{
		log:       o.log,
		resources: make(map[reflect.Type]any),
		maxDelta:  o.maxDelta.Seconds(),
	}
	w.entities = newEntityManager(w, o.log.Named("entities"))
	w.systems = newSystemManager(w, o.log.Named("systems"))
	w.bus = NewMessageBus(o.log.Named("bus"))
	w.pools = newPoolRegistry(o.log.Named("pools"), o.defaultPoolSize, o.poolLimits)
	return w
}

// Update advances the world by one frame: the pre-update topic, every enabled system
// in priority order, the post-update topic, then the deferred flush.
func (w *World) Update(dt float64) {
	if w.closed {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if w.maxDelta > 0 && dt > w.maxDelta {
		dt = w.maxDelta
	}
	w.frame.Frame++
	w.frame.DeltaTime = dt
	w.frame.Elapsed += dt

	w.bus.FastPublish(TopicPreUpdate.name, &w.frame)
	w.systems.Update(dt)
	w.bus.FastPublish(TopicPostUpdate.name, &w.frame)
	w.entities.Flush()
}

// Run calls Update at the given interval until ctx is cancelled or the world is
// closed. dt is the wall time since the previous tick.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if w.closed {
				return
			}
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Update(dt)
		}
	}
}

// Frame returns the most recent frame's info.
func (w *World) Frame() FrameInfo { return w.frame }

// CreateEntity allocates a new entity.
func (w *World) CreateEntity(label string) *Entity {
	return w.entities.CreateEntity(label)
}

// RemoveEntity queues e for destruction at the end of the frame.
func (w *World) RemoveEntity(e *Entity) {
	w.entities.RemoveEntity(e)
}

// GetEntitiesByComponents returns enabled, live entities carrying every type.
func (w *World) GetEntitiesByComponents(types ...ComponentType) []*Entity {
	return w.entities.GetEntitiesByComponents(types...)
}

// GetEntitiesByTag returns live entities carrying tag.
func (w *World) GetEntitiesByTag(tag string) []*Entity {
	return w.entities.GetEntitiesByTag(tag)
}

// RegisterSystem adds s to the frame.
func (w *World) RegisterSystem(s System) error {
	return w.systems.Register(s)
}

// Defer queues fn to run at the end of the current frame.
func (w *World) Defer(fn func()) {
	w.entities.Defer(fn)
}

// Entities returns the world's entity manager.
func (w *World) Entities() *EntityManager { return w.entities }

// Systems returns the world's system manager.
func (w *World) Systems() *SystemManager { return w.systems }

// Bus returns the world's message bus.
func (w *World) Bus() *MessageBus { return w.bus }

// Pools returns the world's pool registry.
func (w *World) Pools() *PoolRegistry { return w.pools }

// Commands returns the buffer of work deferred to the end of the frame.
func (w *World) Commands() *Commands { return w.entities.commands }

// Logger returns the world's root logger.
func (w *World) Logger() *zap.Logger { return w.log }

// Close shuts systems down in reverse order, destroys every entity and empties the
// pools. Update does nothing afterwards. Close is idempotent.
func (w *World) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.systems.shutdownAll()
	w.entities.Clear()
	w.pools.ClearAll()
	clear(w.resources)
	w.log.Debug("world closed", zap.Uint64("frames", w.frame.Frame))
}
