// Package config provides YAML-based server configuration loading.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	Sweep   SweepConfig   `yaml:"sweep"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// StorageConfig defines the sqlite database location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// GameConfig defines per-game defaults applied when a create request omits
// them.
type GameConfig struct {
	DefaultRule       string `yaml:"default_rule"`
	DefaultDifficulty int    `yaml:"default_difficulty"`
}

// SweepConfig defines the staleness sweep.
type SweepConfig struct {
	MaxAge Duration `yaml:"max_age"`
}

// Duration accepts YAML strings in time.ParseDuration syntax, e.g. "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Validate checks field values a typo would most likely break.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	switch c.Game.DefaultRule {
	case "first_line", "full_board":
	default:
		return fmt.Errorf("game.default_rule must be first_line or full_board, got %q", c.Game.DefaultRule)
	}
	if c.Game.DefaultDifficulty < 0 || c.Game.DefaultDifficulty > 100 {
		return fmt.Errorf("game.default_difficulty must be within 0..100, got %d", c.Game.DefaultDifficulty)
	}
	if c.Sweep.MaxAge.Std() <= 0 {
		return fmt.Errorf("sweep.max_age must be positive")
	}
	return nil
}
