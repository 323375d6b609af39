package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	if cfg.Mu() != 500000 {
		t.Errorf("expected mu 500000, got %f", cfg.Mu())
	}
	if cfg.Warp.Table[cfg.Warp.Index] != 86400 {
		t.Errorf("expected default warp of one day, got %f", cfg.Warp.Table[cfg.Warp.Index])
	}
	if cfg.SubSteps != 100 {
		t.Errorf("expected 100 sub-steps, got %d", cfg.SubSteps)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero g", func(c *Config) { c.G = 0 }, "g must be positive"},
		{"negative mass", func(c *Config) { c.CentralMass = -1 }, "central_mass"},
		{"negative max bodies", func(c *Config) { c.MaxBodies = -1 }, "max_bodies"},
		{"crash beyond despawn", func(c *Config) { c.CrashDistance = 6000 }, "below despawn_distance"},
		{"no sub-steps", func(c *Config) { c.SubSteps = 0 }, "sub_steps"},
		{"bad gravity", func(c *Config) { c.Gravity = "mond" }, "gravity must be"},
		{"warp index", func(c *Config) { c.Warp.Index = 12 }, "warp.index"},
		{"empty warp", func(c *Config) { c.Warp.Table = nil; c.Warp.Index = 0 }, "warp.table must not be empty"},
		{"few segments", func(c *Config) { c.Orbit.Segments = 2 }, "orbit.segments"},
		{"spawn at origin", func(c *Config) { c.Spawn.Base = 0 }, "spawn.base (0) must be above crash_distance"},
		{"spawn inside crash", func(c *Config) { c.Spawn.Base = c.CrashDistance }, "spawn.base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %q, got %q", tt.field, err.Error())
			}
		})
	}
}

func TestValidateListsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.G = 0
	cfg.SubSteps = 0

	var verr *ValidationError
	if !errors.As(cfg.Validate(), &verr) {
		t.Fatal("expected *ValidationError")
	}
	if len(verr.Problems) != 2 {
		t.Errorf("expected 2 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Warp.Table[0] = 1

	if cfg.Warp.Table[0] == 1 {
		t.Error("expected clone to own its warp table")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("nbody")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gravity != GravityNBody {
		t.Errorf("expected nbody gravity, got %s", cfg.Gravity)
	}

	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
	}
}

func TestGetPresetInvalid(t *testing.T) {
	if cfg := GetPreset("invalid"); cfg != nil {
		t.Error("expected nil for invalid preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if presets[0] != "crowded" {
		t.Errorf("expected sorted presets, first is %s", presets[0])
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbitsim.yaml")

	cfg := DefaultConfig()
	cfg.G = 750
	cfg.Gravity = GravityNBody
	cfg.MaxFrameDelta = 20 * time.Millisecond
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.G != 750 || loaded.Gravity != GravityNBody {
		t.Errorf("expected g 750 nbody, got %f %s", loaded.G, loaded.Gravity)
	}
	if loaded.MaxFrameDelta != 20*time.Millisecond {
		t.Errorf("expected 20ms frame delta, got %v", loaded.MaxFrameDelta)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("central_mass: 2000\nmax_frame_delta: 30ms\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CentralMass != 2000 {
		t.Errorf("expected central mass 2000, got %f", cfg.CentralMass)
	}
	if cfg.G != DefaultG || cfg.SubSteps != DefaultSubSteps {
		t.Error("expected unspecified keys to keep defaults")
	}
	if cfg.MaxFrameDelta != 30*time.Millisecond {
		t.Errorf("expected 30ms, got %v", cfg.MaxFrameDelta)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("crash_distance: 9000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	s, err := NewStore(nil)
	if err != nil {
		t.Fatal(err)
	}

	var calls int
	var seen Config
	s.OnChange(func(old, cur Config) {
		calls++
		seen = cur
		if old.G != DefaultG {
			t.Errorf("expected old g %f, got %f", DefaultG, old.G)
		}
	})

	if err := s.Update(func(c *Config) { c.G = 900 }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 1 || seen.G != 900 || s.Get().G != 900 {
		t.Errorf("expected committed g 900 with one notification, got calls=%d g=%f", calls, s.Get().G)
	}

	err = s.Update(func(c *Config) { c.SubSteps = 0 })
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected rejection, got %v", err)
	}
	if calls != 1 || s.Get().SubSteps != DefaultSubSteps {
		t.Error("expected rejected update to leave the store untouched")
	}
}

func TestStoreGetIsCopy(t *testing.T) {
	s, _ := NewStore(nil)
	c := s.Get()
	c.Warp.Table[0] = 42
	if s.Get().Warp.Table[0] == 42 {
		t.Error("expected Get to return an independent copy")
	}
}
