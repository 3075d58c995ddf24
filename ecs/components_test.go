package ecs_test

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plus3/framecore/ecs"
)

// Common test component types
type Position struct {
	ecs.ComponentBase
	X, Y float64
}

type Velocity struct {
	ecs.ComponentBase
	DX, DY float64
}

// Health records its lifecycle hooks.
type Health struct {
	ecs.ComponentBase
	Current, Max float64

	attached []ecs.EntityID
	detached []ecs.EntityID
	enabled  int
	disabled int
}

func (h *Health) OnAttached(e *ecs.Entity) { h.attached = append(h.attached, e.ID()) }
func (h *Health) OnDetached(e *ecs.Entity) { h.detached = append(h.detached, e.ID()) }
func (h *Health) OnEnabled()               { h.enabled++ }
func (h *Health) OnDisabled()              { h.disabled++ }

// seesEntityOnDetach checks that the back-reference is still set inside OnDetached.
type seesEntityOnDetach struct {
	ecs.ComponentBase
	sawEntity bool
}

func (c *seesEntityOnDetach) OnDetached(*ecs.Entity) { c.sawEntity = c.Entity() != nil }

func newObservedWorld(opts ...ecs.Option) (*ecs.World, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]ecs.Option{ecs.WithLogger(zap.New(core))}, opts...)
	return ecs.NewWorld(opts...), logs
}
