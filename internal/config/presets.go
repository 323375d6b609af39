package config

import "sort"

// Presets are named starting points. Each entry patches DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"crowded": func(c *Config) {
		c.MaxBodies = 30
		c.Spawn.Increment = 60
		c.Orbit.RefreshBudget = 6
	},
	"nbody": func(c *Config) {
		c.Gravity = GravityNBody
		c.Spawn.Increment = 90
	},
	"heavy": func(c *Config) {
		c.CentralMass = 4000
		c.CrashDistance = 30
	},
	"slow": func(c *Config) {
		c.Warp.Index = 0
	},
	"raw": func(c *Config) {
		c.Warp.Calibrated = false
		c.Warp.Table = []float64{0.25, 0.5, 1, 2, 4, 8, 16}
		c.Warp.Index = 2
	},
}

func GetPreset(name string) *Config {
	patch, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	patch(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
