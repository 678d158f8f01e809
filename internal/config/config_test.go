package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score4.yaml")
	content := `
server:
  listen: ":9999"
game:
  default_rule: "first_line"
  default_difficulty: 30
sweep:
  max_age: "12h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("listen = %q, want :9999", cfg.Server.Listen)
	}
	if cfg.Game.DefaultRule != "first_line" {
		t.Errorf("default_rule = %q, want first_line", cfg.Game.DefaultRule)
	}
	if cfg.Sweep.MaxAge.Std() != 12*time.Hour {
		t.Errorf("max_age = %v, want 12h", cfg.Sweep.MaxAge.Std())
	}
	// omitted sections keep their defaults
	if cfg.Storage.Path != "score4.db" {
		t.Errorf("storage.path = %q, want default", cfg.Storage.Path)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score4.yaml")
	content := `
game:
  default_rule: "sudden_death"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown rule")
	}
}
