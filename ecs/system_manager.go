package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"go.uber.org/zap"
)

// SystemManagerStats provides statistics about system execution.
type SystemManagerStats struct {
	SystemCount     int
	TotalExecutions int64
	TotalFaults     int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Enabled        bool
	ExecutionCount int64
	FaultCount     int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	faultCount     int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry struct {
	system   System
	name     string
	priority int
	removed  bool
	stats    systemStatsInternal
}

// SystemManager keeps systems sorted by priority and runs them once per frame.
type SystemManager struct {
	world   *World
	log     *zap.Logger
	systems []*systemEntry // replaced, never mutated in place
	byName  map[string]*systemEntry
}

func newSystemManager(world *World, log *zap.Logger) *SystemManager {
	return &SystemManager{
		world:  world,
		log:    log,
		byName: make(map[string]*systemEntry),
	}
}

// Register inserts s after every system with a lower or equal priority and runs its
// Initialize hook. Registering during Update takes effect on the next frame.
func (m *SystemManager) Register(s System) error {
	if s == nil {
		return ErrNilSystem
	}
	name := systemName(s)
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, name)
	}

	if b, ok := s.(worldBinder); ok {
		b.bindWorld(m.world)
	}
	if init, ok := s.(Initializer); ok {
		if err := init.Initialize(m.world); err != nil {
			return fmt.Errorf("initialize system %s: %w", name, err)
		}
	}

	entry := &systemEntry{
		system:   s,
		name:     name,
		priority: s.Priority(),
		stats:    systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}

	idx := sort.Search(len(m.systems), func(i int) bool {
		return m.systems[i].priority > entry.priority
	})
	systems := make([]*systemEntry, 0, len(m.systems)+1)
	systems = append(systems, m.systems[:idx]...)
	systems = append(systems, entry)
	systems = append(systems, m.systems[idx:]...)
	m.systems = systems
	m.byName[name] = entry

	m.log.Debug("system registered", zap.String("system", name), zap.Int("priority", entry.priority))
	return nil
}

// Unregister removes the named system and calls its Shutdown hook.
func (m *SystemManager) Unregister(name string) bool {
	entry, ok := m.byName[name]
	if !ok {
		return false
	}
	entry.removed = true
	delete(m.byName, name)

	systems := make([]*systemEntry, 0, len(m.systems))
	for _, e := range m.systems {
		if e != entry {
			systems = append(systems, e)
		}
	}
	m.systems = systems

	m.shutdown(entry)
	return true
}

// GetSystem returns the named system. Intended for initialization-time wiring.
func (m *SystemManager) GetSystem(name string) (System, bool) {
	entry, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return entry.system, true
}

// Lookup returns the first registered system of type T.
func Lookup[T System](m *SystemManager) (T, bool) {
	for _, entry := range m.systems {
		if s, ok := entry.system.(T); ok {
			return s, true
		}
	}
	var zero T
	return zero, false
}

// Systems returns the registered systems in execution order.
func (m *SystemManager) Systems() []System {
	out := make([]System, len(m.systems))
	for i, entry := range m.systems {
		out[i] = entry.system
	}
	return out
}

// ExecutionOrder returns system names in execution order.
func (m *SystemManager) ExecutionOrder() []string {
	out := make([]string, len(m.systems))
	for i, entry := range m.systems {
		out[i] = entry.name
	}
	return out
}

// Update runs every enabled system once with dt. A panicking system is logged and
// skipped for this frame only.
func (m *SystemManager) Update(dt float64) {
	for _, entry := range m.systems {
		if entry.removed || !systemEnabled(entry.system) {
			continue
		}
		m.run(entry, dt)
	}
}

func (m *SystemManager) run(entry *systemEntry, dt float64) {
	start := time.Now()
	defer func() {
		entry.stats.record(time.Since(start))
		if r := recover(); r != nil {
			entry.stats.faultCount++
			m.log.Error("system update failed",
				zap.String("system", entry.name),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	entry.system.Update(dt)
}

func (m *SystemManager) shutdownAll() {
	for i := len(m.systems) - 1; i >= 0; i-- {
		m.shutdown(m.systems[i])
	}
}

func (m *SystemManager) shutdown(entry *systemEntry) {
	s, ok := entry.system.(Shutdowner)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("system shutdown failed", zap.String("system", entry.name), zap.Any("panic", r))
		}
	}()
	s.Shutdown()
}

// GetStats returns statistics about system execution.
func (m *SystemManager) GetStats() *SystemManagerStats {
	stats := &SystemManagerStats{
		SystemCount: len(m.systems),
		Systems:     make([]SystemStats, len(m.systems)),
	}

	for i, entry := range m.systems {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Priority:       entry.priority,
			Enabled:        systemEnabled(entry.system),
			ExecutionCount: internal.executionCount,
			FaultCount:     internal.faultCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
		stats.TotalFaults += internal.faultCount
	}

	return stats
}

func systemEnabled(s System) bool {
	t, ok := s.(Toggleable)
	return !ok || t.Enabled()
}

func systemName(s System) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	systemType := reflect.TypeOf(s)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}
