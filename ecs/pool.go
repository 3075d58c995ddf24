package ecs

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// DefaultPoolMaxSize is used when a pool is registered without a MaxSize and the
// world was not given another default.
const DefaultPoolMaxSize = 64

// PoolConfig declares a pool.
type PoolConfig struct {
	// Factory constructs a new instance on a miss. Required.
	Factory func() any
	// Reset prepares an instance for use; it runs on hits and misses alike with the
	// arguments passed to Get.
	Reset func(obj any, args ...any)
	// OnDrop runs for instances discarded by Release because the free list is full.
	// Nil keeps the default of silently dropping them.
	OnDrop func(obj any)
	// Preallocate instances are built at registration, capped at MaxSize.
	Preallocate int
	// MaxSize caps the free list.
	MaxSize int
}

// PoolLimits overrides the sizing of a named pool, typically from configuration.
type PoolLimits struct {
	MaxSize     int
	Preallocate int
}

// PoolStats is a diagnostic snapshot of one pool.
type PoolStats struct {
	Name      string
	Available int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Dropped   uint64
}

type pool struct {
	name   string
	cfg    PoolConfig
	elem   reflect.Type // nil until a typed handle is taken
	free   []any
	inFree map[any]struct{} // pointer instances currently in free

	hits    uint64
	misses  uint64
	dropped uint64
}

// get pops the most recently released instance (LIFO) or builds a new one.
func (p *pool) get(args []any) any {
	var obj any
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		if p.inFree != nil {
			delete(p.inFree, obj)
		}
		p.hits++
	} else {
		obj = p.cfg.Factory()
		p.misses++
	}
	if p.cfg.Reset != nil {
		p.cfg.Reset(obj, args...)
	}
	return obj
}

func (p *pool) push(obj any) {
	p.free = append(p.free, obj)
	if isPointer(obj) {
		if p.inFree == nil {
			p.inFree = make(map[any]struct{}, p.cfg.MaxSize)
		}
		p.inFree[obj] = struct{}{}
	}
}

func (p *pool) contains(obj any) bool {
	if p.inFree == nil || !isPointer(obj) {
		return false
	}
	_, ok := p.inFree[obj]
	return ok
}

func (p *pool) stats() PoolStats {
	return PoolStats{
		Name:      p.name,
		Available: len(p.free),
		MaxSize:   p.cfg.MaxSize,
		Hits:      p.hits,
		Misses:    p.misses,
		Dropped:   p.dropped,
	}
}

// PoolRegistry holds capped free lists of reusable instances, one per pool name.
//
// Get hands out the most recently released instance first. Release keeps an instance
// only while the free list is below MaxSize; beyond that the instance is dropped.
// Nothing is ever disposed by the registry itself: callers release external resources
// before Release, or install an OnDrop hook.
type PoolRegistry struct {
	log            *zap.Logger
	pools          map[string]*pool
	defaultMaxSize int
	limits         map[string]PoolLimits
}

func newPoolRegistry(log *zap.Logger, defaultMaxSize int, limits map[string]PoolLimits) *PoolRegistry {
	if defaultMaxSize <= 0 {
		defaultMaxSize = DefaultPoolMaxSize
	}
	return &PoolRegistry{
		log:            log,
		pools:          make(map[string]*pool),
		defaultMaxSize: defaultMaxSize,
		limits:         limits,
	}
}

// Register declares a pool. The first registration for a name wins; later ones are
// ignored and Register returns false. A later registration with a different
// configuration is logged.
func (r *PoolRegistry) Register(name string, cfg PoolConfig) bool {
	_, created := r.register(name, cfg, nil)
	return created
}

func (r *PoolRegistry) register(name string, cfg PoolConfig, elem reflect.Type) (*pool, bool) {
	if existing, ok := r.pools[name]; ok {
		if existing.cfg.MaxSize != r.effective(name, cfg).MaxSize ||
			existing.cfg.Preallocate != r.effective(name, cfg).Preallocate ||
			(existing.cfg.Reset == nil) != (cfg.Reset == nil) {
			r.log.Warn("pool already registered with a different config",
				zap.String("pool", name),
				zap.Int("max_size", existing.cfg.MaxSize),
				zap.Int("requested_max_size", cfg.MaxSize))
		}
		return existing, false
	}
	if cfg.Factory == nil {
		r.log.Error("pool registered without factory", zap.String("pool", name))
		return nil, false
	}

	cfg = r.effective(name, cfg)
	p := &pool{
		name: name,
		cfg:  cfg,
		elem: elem,
		free: make([]any, 0, cfg.MaxSize),
	}
	for i := 0; i < cfg.Preallocate; i++ {
		p.push(cfg.Factory())
	}
	r.pools[name] = p

	r.log.Debug("pool registered",
		zap.String("pool", name),
		zap.Int("max_size", cfg.MaxSize),
		zap.Int("preallocate", cfg.Preallocate))
	return p, true
}

// effective applies configured limits and defaults to cfg.
func (r *PoolRegistry) effective(name string, cfg PoolConfig) PoolConfig {
	if limits, ok := r.limits[name]; ok {
		if limits.MaxSize > 0 {
			cfg.MaxSize = limits.MaxSize
		}
		if limits.Preallocate > 0 {
			cfg.Preallocate = limits.Preallocate
		}
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = r.defaultMaxSize
	}
	cfg.Preallocate = max(0, min(cfg.Preallocate, cfg.MaxSize))
	return cfg
}

// Has reports whether name is registered.
func (r *PoolRegistry) Has(name string) bool {
	_, ok := r.pools[name]
	return ok
}

// Get returns a reset instance from the named pool. ok is false if no such pool.
func (r *PoolRegistry) Get(name string, args ...any) (obj any, ok bool) {
	p := r.pools[name]
	if p == nil {
		r.log.Warn("get from unregistered pool", zap.String("pool", name))
		return nil, false
	}
	return p.get(args), true
}

// Release returns obj to the named pool. Instances beyond MaxSize are dropped, and an
// instance already sitting in the free list is not added twice.
func (r *PoolRegistry) Release(name string, obj any) {
	p := r.pools[name]
	if p == nil {
		r.log.Warn("release to unregistered pool", zap.String("pool", name))
		return
	}
	r.release(p, obj)
}

func (r *PoolRegistry) release(p *pool, obj any) {
	if isNil(obj) {
		return
	}
	if !p.accepts(obj) {
		r.log.Warn("ignoring instance of another type",
			zap.String("pool", p.name), zap.String("type", fmt.Sprintf("%T", obj)))
		return
	}
	if p.contains(obj) {
		r.log.Warn("instance released twice", zap.String("pool", p.name))
		return
	}
	if len(p.free) >= p.cfg.MaxSize {
		p.dropped++
		if p.cfg.OnDrop != nil {
			p.cfg.OnDrop(obj)
		}
		return
	}
	p.push(obj)
}

// GetStats returns the named pool's counters.
func (r *PoolRegistry) GetStats(name string) (PoolStats, bool) {
	p := r.pools[name]
	if p == nil {
		return PoolStats{}, false
	}
	return p.stats(), true
}

// AllStats returns counters for every pool, sorted by name.
func (r *PoolRegistry) AllStats() []PoolStats {
	out := make([]PoolStats, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p.stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered pool names, sorted.
func (r *PoolRegistry) Names() []string {
	out := make([]string, 0, len(r.pools))
	for name := range r.pools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ClearAll empties every free list. Pools stay registered and counters are kept.
// Instances are not disposed.
func (r *PoolRegistry) ClearAll() {
	for _, p := range r.pools {
		clear(p.free)
		p.free = p.free[:0]
		clear(p.inFree)
	}
}

// TypedPoolConfig declares a pool of T.
type TypedPoolConfig[T any] struct {
	New         func() T
	Reset       func(obj T, args ...any)
	OnDrop      func(obj T)
	Preallocate int
	MaxSize     int
}

// Pool is a typed handle on a registered pool.
type Pool[T any] struct {
	registry *PoolRegistry
	pool     *pool
}

// RegisterPool declares a pool of T under name, or returns a handle on the existing
// pool of that name. It logs and returns nil when cfg has no New function or when the
// existing pool holds another element type. A nil handle is inert: Get returns the
// zero T and Release does nothing.
func RegisterPool[T any](r *PoolRegistry, name string, cfg TypedPoolConfig[T]) *Pool[T] {
	elem := reflect.TypeFor[T]()
	if existing, ok := r.pools[name]; ok && !holds[T](existing) {
		r.log.Error("pool holds another element type",
			zap.String("pool", name),
			zap.Stringer("requested", elem),
			zap.String("holds", existing.elemName()))
		return nil
	}

	untyped := PoolConfig{
		Preallocate: cfg.Preallocate,
		MaxSize:     cfg.MaxSize,
	}
	if cfg.New != nil {
		newFn := cfg.New
		untyped.Factory = func() any { return newFn() }
	}
	if cfg.Reset != nil {
		reset := cfg.Reset
		untyped.Reset = func(obj any, args ...any) { reset(obj.(T), args...) }
	}
	if cfg.OnDrop != nil {
		onDrop := cfg.OnDrop
		untyped.OnDrop = func(obj any) { onDrop(obj.(T)) }
	}

	p, _ := r.register(name, untyped, elem)
	if p == nil {
		return nil
	}
	return &Pool[T]{registry: r, pool: p}
}

// holds reports whether every instance of p is a T. A pool registered without an
// element type is checked against a sample instance, which is then kept as free stock
// and fixes the pool's element type on success.
func holds[T any](p *pool) bool {
	elem := reflect.TypeFor[T]()
	if p.elem != nil {
		return p.elem == elem
	}
	var sample any
	if n := len(p.free); n > 0 {
		sample = p.free[n-1]
	} else {
		sample = p.cfg.Factory()
		p.misses++
		if len(p.free) < p.cfg.MaxSize {
			p.push(sample)
		}
	}
	if _, ok := sample.(T); !ok {
		return false
	}
	for _, obj := range p.free {
		if _, ok := obj.(T); !ok {
			return false
		}
	}
	p.elem = elem
	return true
}

func (p *pool) accepts(obj any) bool {
	if p.elem == nil {
		return true
	}
	t := reflect.TypeOf(obj)
	if p.elem.Kind() == reflect.Interface {
		return t.Implements(p.elem)
	}
	return t == p.elem
}

func (p *pool) elemName() string {
	if p.elem != nil {
		return p.elem.String()
	}
	if n := len(p.free); n > 0 {
		return fmt.Sprintf("%T", p.free[n-1])
	}
	return "unknown"
}

// Name returns the pool name.
func (p *Pool[T]) Name() string {
	if p == nil {
		return ""
	}
	return p.pool.name
}

// Get returns a reset instance.
func (p *Pool[T]) Get(args ...any) T {
	if p == nil {
		var zero T
		return zero
	}
	return p.pool.get(args).(T)
}

// Release returns obj to the pool.
func (p *Pool[T]) Release(obj T) {
	if p == nil {
		return
	}
	p.registry.release(p.pool, obj)
}

// Stats returns the pool's counters.
func (p *Pool[T]) Stats() PoolStats {
	if p == nil {
		return PoolStats{}
	}
	return p.pool.stats()
}

func isPointer(obj any) bool {
	t := reflect.TypeOf(obj)
	return t != nil && t.Kind() == reflect.Pointer
}

func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
