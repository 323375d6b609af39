package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultG               = 500.0
	DefaultCentralMass     = 1000.0
	DefaultMaxBodies       = 12
	DefaultCrashDistance   = 18.0
	DefaultDespawnDistance = 5000.0
	DefaultSubSteps        = 100
	DefaultWarpIndex       = 4
	DefaultAUSize          = 200.0
	DefaultSpawnBase       = 180.0
	DefaultSpawnIncrement  = 120.0
	DefaultOrbitSegments   = 128
	DefaultEscapeSteps     = 300
	DefaultEscapeStepSize  = 1.0
	DefaultRefreshBudget   = 3
	DefaultMaxFrameDelta   = 50 * time.Millisecond
)

// DefaultWarpTable holds the selectable real seconds represented by one
// simulated second, from 32 minutes up to one year.
var DefaultWarpTable = []float64{1920, 3600, 14400, 43200, 86400, 259200, 604800, 1209600, 2592000, 7776000, 15552000, 31536000}

const (
	GravityCentral = "central"
	GravityNBody   = "nbody"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	G               float64       `yaml:"g"`
	CentralMass     float64       `yaml:"central_mass"`
	MaxBodies       int           `yaml:"max_bodies"`
	CrashDistance   float64       `yaml:"crash_distance"`
	DespawnDistance float64       `yaml:"despawn_distance"`
	SubSteps        int           `yaml:"sub_steps"`
	Gravity         string        `yaml:"gravity"`
	MaxFrameDelta   time.Duration `yaml:"max_frame_delta"`
	Seed            int64         `yaml:"seed"`
	Warp            WarpConfig    `yaml:"warp"`
	Spawn           SpawnConfig   `yaml:"spawn"`
	Orbit           OrbitConfig   `yaml:"orbit"`
}

type WarpConfig struct {
	Table      []float64 `yaml:"table"`
	Index      int       `yaml:"index"`
	Calibrated bool      `yaml:"calibrated"`
	AUSize     float64   `yaml:"au_size"`
}

type SpawnConfig struct {
	Base      float64 `yaml:"base"`
	Increment float64 `yaml:"increment"`
}

type OrbitConfig struct {
	Segments       int     `yaml:"segments"`
	EscapeSteps    int     `yaml:"escape_steps"`
	EscapeStepSize float64 `yaml:"escape_step_size"`
	RefreshBudget  int     `yaml:"refresh_budget"`
}

func DefaultConfig() *Config {
	table := make([]float64, len(DefaultWarpTable))
	copy(table, DefaultWarpTable)
	return &Config{
		G:               DefaultG,
		CentralMass:     DefaultCentralMass,
		MaxBodies:       DefaultMaxBodies,
		CrashDistance:   DefaultCrashDistance,
		DespawnDistance: DefaultDespawnDistance,
		SubSteps:        DefaultSubSteps,
		Gravity:         GravityCentral,
		MaxFrameDelta:   DefaultMaxFrameDelta,
		Warp: WarpConfig{
			Table:      table,
			Index:      DefaultWarpIndex,
			Calibrated: true,
			AUSize:     DefaultAUSize,
		},
		Spawn: SpawnConfig{
			Base:      DefaultSpawnBase,
			Increment: DefaultSpawnIncrement,
		},
		Orbit: OrbitConfig{
			Segments:       DefaultOrbitSegments,
			EscapeSteps:    DefaultEscapeSteps,
			EscapeStepSize: DefaultEscapeStepSize,
			RefreshBudget:  DefaultRefreshBudget,
		},
	}
}

// Mu is the standard gravitational parameter of the central body.
func (c *Config) Mu() float64 { return c.G * c.CentralMass }

// Clone returns a deep copy; the warp table is not shared.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Warp.Table = make([]float64, len(c.Warp.Table))
	copy(cp.Warp.Table, c.Warp.Table)
	return &cp
}

// ValidationError lists every constraint a Config violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

func (c *Config) Validate() error {
	var problems []string
	if !(c.G > 0) {
		problems = append(problems, fmt.Sprintf("g must be positive, got %g", c.G))
	}
	if !(c.CentralMass > 0) {
		problems = append(problems, fmt.Sprintf("central_mass must be positive, got %g", c.CentralMass))
	}
	if c.MaxBodies < 0 {
		problems = append(problems, fmt.Sprintf("max_bodies must be >= 0, got %d", c.MaxBodies))
	}
	if c.CrashDistance < 0 {
		problems = append(problems, fmt.Sprintf("crash_distance must be >= 0, got %g", c.CrashDistance))
	}
	if !(c.CrashDistance < c.DespawnDistance) {
		problems = append(problems, fmt.Sprintf("crash_distance (%g) must be below despawn_distance (%g)", c.CrashDistance, c.DespawnDistance))
	}
	if c.SubSteps < 1 {
		problems = append(problems, fmt.Sprintf("sub_steps must be >= 1, got %d", c.SubSteps))
	}
	if c.Gravity != GravityCentral && c.Gravity != GravityNBody {
		problems = append(problems, fmt.Sprintf("gravity must be %q or %q, got %q", GravityCentral, GravityNBody, c.Gravity))
	}
	if c.MaxFrameDelta <= 0 {
		problems = append(problems, "max_frame_delta must be positive")
	}
	if len(c.Warp.Table) == 0 {
		problems = append(problems, "warp.table must not be empty")
	}
	for i, v := range c.Warp.Table {
		if !(v > 0) {
			problems = append(problems, fmt.Sprintf("warp.table[%d] must be positive, got %g", i, v))
		}
	}
	if c.Warp.Index < 0 || c.Warp.Index >= len(c.Warp.Table) {
		problems = append(problems, fmt.Sprintf("warp.index %d out of range [0,%d)", c.Warp.Index, len(c.Warp.Table)))
	}
	if c.Warp.Calibrated && !(c.Warp.AUSize > 0) {
		problems = append(problems, "warp.au_size must be positive when calibrated")
	}
	if c.Spawn.Base < 0 || c.Spawn.Increment < 0 {
		problems = append(problems, "spawn base and increment must be >= 0")
	}
	if !(c.Spawn.Base > c.CrashDistance) {
		problems = append(problems, fmt.Sprintf("spawn.base (%g) must be above crash_distance (%g)", c.Spawn.Base, c.CrashDistance))
	}
	if c.Orbit.Segments < 3 {
		problems = append(problems, fmt.Sprintf("orbit.segments must be >= 3, got %d", c.Orbit.Segments))
	}
	if c.Orbit.EscapeSteps < 0 || !(c.Orbit.EscapeStepSize > 0) {
		problems = append(problems, "orbit escape steps must be >= 0 with a positive step size")
	}
	if c.Orbit.RefreshBudget < 0 {
		problems = append(problems, fmt.Sprintf("orbit.refresh_budget must be >= 0, got %d", c.Orbit.RefreshBudget))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
