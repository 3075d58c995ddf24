package ecs

import "iter"

// System is per-frame logic. Systems run in ascending Priority order; systems with
// equal priority run in registration order. Update must not block.
type System interface {
	Priority() int
	Update(dt float64)
}

// Optional system capabilities.
type (
	// Named systems are looked up by Name; others by their Go type name.
	Named interface{ Name() string }
	// Toggleable systems are skipped while Enabled returns false.
	Toggleable interface{ Enabled() bool }
	// Initializer is called once when the system is registered.
	Initializer interface{ Initialize(w *World) error }
	// Shutdowner is called when the system is unregistered or the world closes.
	Shutdowner interface{ Shutdown() }
	// ComponentRequirer declares the component set the system processes.
	ComponentRequirer interface{ RequiredComponents() []ComponentType }
)

type worldBinder interface {
	bindWorld(w *World)
}

// BaseSystem implements everything in System except Update. Embed it and use
// Entities to range over the entities matching the required component set.
type BaseSystem struct {
	world    *World
	priority int
	required []ComponentType
	disabled bool
}

// NewBaseSystem returns a BaseSystem with the given priority and required components.
func NewBaseSystem(priority int, required ...ComponentType) BaseSystem {
	return BaseSystem{priority: priority, required: required}
}

func (s *BaseSystem) bindWorld(w *World) { s.world = w }

// Priority returns the ordering key; lower runs first.
func (s *BaseSystem) Priority() int { return s.priority }

// RequiredComponents returns the declared component set.
func (s *BaseSystem) RequiredComponents() []ComponentType { return s.required }

// Enabled reports whether the system runs.
func (s *BaseSystem) Enabled() bool { return !s.disabled }

// SetEnabled toggles the system.
func (s *BaseSystem) SetEnabled(enabled bool) { s.disabled = !enabled }

// World returns the world the system was registered with.
func (s *BaseSystem) World() *World { return s.world }

// Entities iterates the entities matching the required component set.
func (s *BaseSystem) Entities() iter.Seq[*Entity] {
	if s.world == nil {
		return func(func(*Entity) bool) {}
	}
	return s.world.entities.Query(s.required...)
}
