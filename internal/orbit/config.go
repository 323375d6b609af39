package orbit

import "github.com/san-kum/orbitsim/internal/config"

// FromConfig builds a Predictor from the simulation constants.
func FromConfig(cfg *config.Config) Predictor {
	return Predictor{
		Mu:              cfg.Mu(),
		CrashDistance:   cfg.CrashDistance,
		DespawnDistance: cfg.DespawnDistance,
		Segments:        cfg.Orbit.Segments,
		EscapeSteps:     cfg.Orbit.EscapeSteps,
		EscapeStepSize:  cfg.Orbit.EscapeStepSize,
	}
}
