package integrators

import (
	"testing"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
)

func benchRegistry(b *testing.B, cfg *config.Config, n int) *body.Registry {
	b.Helper()
	reg := body.NewRegistry()
	for i := 0; i < n; i++ {
		reg.Add(circularBody(180+120*float64(i), cfg))
	}
	return reg
}

func BenchmarkAdvanceCentral(b *testing.B) {
	cfg := config.DefaultConfig()
	integ := NewSymplecticEuler(cfg)
	reg := benchRegistry(b, cfg, config.DefaultMaxBodies)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(reg, 16*time.Millisecond, 1)
	}
}

func BenchmarkAdvanceNBody(b *testing.B) {
	cfg := config.DefaultConfig()
	cfg.Gravity = config.GravityNBody
	integ := NewSymplecticEuler(cfg)
	reg := benchRegistry(b, cfg, config.DefaultMaxBodies)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(reg, 16*time.Millisecond, 1)
	}
}

func BenchmarkStepFixed(b *testing.B) {
	cfg := config.DefaultConfig()
	integ := NewSymplecticEuler(cfg)
	reg := benchRegistry(b, cfg, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.StepFixed(reg, 1e-4)
	}
}
