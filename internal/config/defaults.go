package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/score4.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Listen: ":8080"},
		Storage: StorageConfig{Path: "score4.db"},
		Game: GameConfig{
			DefaultRule:       "full_board",
			DefaultDifficulty: 70,
		},
		Sweep: SweepConfig{MaxAge: Duration(24 * time.Hour)},
	}
}
