package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plus3/framecore/config"
	"github.com/plus3/framecore/ecs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("toml overrides defaults", func(t *testing.T) {
		path := writeFile(t, "framecore.toml", `
[logging]
level = "debug"

[runtime]
tick_rate = "10ms"

[pools.projectile]
max_size = 128
preallocate = 16
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format, "default kept")
		assert.Equal(t, 10*time.Millisecond, cfg.Runtime.TickRate)
		assert.Equal(t, 250*time.Millisecond, cfg.Runtime.MaxDeltaTime)
		assert.Equal(t, config.PoolConfig{MaxSize: 128, Preallocate: 16}, cfg.Pools["projectile"])
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := writeFile(t, "framecore.yaml", `
logging:
  format: json
runtime:
  max_delta_time: 100ms
  default_pool_size: 8
debug:
  ui: true
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 100*time.Millisecond, cfg.Runtime.MaxDeltaTime)
		assert.Equal(t, 8, cfg.Runtime.DefaultPoolSize)
		assert.True(t, cfg.Debug.UI)
		assert.Equal(t, 120, cfg.Debug.HistoryFrames)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)

		_, err = config.Load(writeFile(t, "bad.toml", "[runtime\n"))
		assert.ErrorContains(t, err, "parse config")

		_, err = config.Load(writeFile(t, "framecore.ini", "x=1"))
		assert.ErrorContains(t, err, "unsupported format")
	})
}

func TestNewLogger(t *testing.T) {
	log, err := config.NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))

	log, err = config.NewLogger(config.LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWorldOptions(t *testing.T) {
	cfg := config.Defaults()
	cfg.Runtime.MaxDeltaTime = 50 * time.Millisecond
	cfg.Runtime.DefaultPoolSize = 3
	cfg.Pools["projectile"] = config.PoolConfig{MaxSize: 9}

	w := ecs.NewWorld(config.WorldOptions(cfg, zap.NewNop())...)
	w.Update(1)
	assert.InDelta(t, 0.05, w.Frame().DeltaTime, 1e-9)

	w.Pools().Register("projectile", ecs.PoolConfig{Factory: func() any { return new(int) }})
	w.Pools().Register("spark", ecs.PoolConfig{Factory: func() any { return new(int) }})
	projectile, _ := w.Pools().GetStats("projectile")
	spark, _ := w.Pools().GetStats("spark")
	assert.Equal(t, 9, projectile.MaxSize)
	assert.Equal(t, 3, spark.MaxSize)
}

func TestTicksPerSecond(t *testing.T) {
	assert.Equal(t, 60, config.Defaults().Runtime.TicksPerSecond())
	assert.Equal(t, 100, config.RuntimeConfig{TickRate: 10 * time.Millisecond}.TicksPerSecond())
	assert.Equal(t, 60, config.RuntimeConfig{}.TicksPerSecond(), "unset falls back to 60")
	assert.Equal(t, 1, config.RuntimeConfig{TickRate: 2 * time.Second}.TicksPerSecond())
}
