package config

import (
	"go.uber.org/zap"

	"github.com/plus3/framecore/ecs"
)

// WorldOptions converts cfg into options for ecs.NewWorld.
func WorldOptions(cfg *Config, log *zap.Logger) []ecs.Option {
	opts := []ecs.Option{
		ecs.WithLogger(log),
		ecs.WithMaxDeltaTime(cfg.Runtime.MaxDeltaTime),
		ecs.WithDefaultPoolSize(cfg.Runtime.DefaultPoolSize),
	}
	if len(cfg.Pools) > 0 {
		limits := make(map[string]ecs.PoolLimits, len(cfg.Pools))
		for name, p := range cfg.Pools {
			limits[name] = ecs.PoolLimits{MaxSize: p.MaxSize, Preallocate: p.Preallocate}
		}
		opts = append(opts, ecs.WithPoolLimits(limits))
	}
	return opts
}
