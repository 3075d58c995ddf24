package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig         `toml:"logging" yaml:"logging"`
	Runtime RuntimeConfig         `toml:"runtime" yaml:"runtime"`
	Pools   map[string]PoolConfig `toml:"pools" yaml:"pools"`
	Debug   DebugConfig           `toml:"debug" yaml:"debug"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type RuntimeConfig struct {
	TickRate        time.Duration `toml:"tick_rate" yaml:"tick_rate"`
	MaxDeltaTime    time.Duration `toml:"max_delta_time" yaml:"max_delta_time"` // 0 disables clamping
	DefaultPoolSize int           `toml:"default_pool_size" yaml:"default_pool_size"`
}

// TicksPerSecond converts TickRate to a frame rate, at least 1. An unset TickRate
// means 60.
func (r RuntimeConfig) TicksPerSecond() int {
	if r.TickRate <= 0 {
		return 60
	}
	return max(1, int(time.Second/r.TickRate))
}

// PoolConfig overrides the sizing a pool is registered with.
type PoolConfig struct {
	MaxSize     int `toml:"max_size" yaml:"max_size"`
	Preallocate int `toml:"preallocate" yaml:"preallocate"`
}

type DebugConfig struct {
	UI              bool `toml:"ui" yaml:"ui"`
	HistoryFrames   int  `toml:"history_frames" yaml:"history_frames"`
	EntitiesPerPage int  `toml:"entities_per_page" yaml:"entities_per_page"`
}

// Load reads a TOML or YAML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Runtime: RuntimeConfig{
			TickRate:        time.Second / 60,
			MaxDeltaTime:    250 * time.Millisecond,
			DefaultPoolSize: 64,
		},
		Pools: map[string]PoolConfig{},
		Debug: DebugConfig{
			UI:              false,
			HistoryFrames:   120,
			EntitiesPerPage: 100,
		},
	}
}
