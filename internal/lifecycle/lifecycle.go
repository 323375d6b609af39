// Package lifecycle decides when bodies enter and leave the simulation.
package lifecycle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/orbit"
)

type Verdict int

const (
	Keep Verdict = iota
	Crash
	Despawn
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case Crash:
		return "crash"
	case Despawn:
		return "despawn"
	default:
		return "invalid"
	}
}

// Reason maps a removal verdict onto the registry's removal reason.
func (v Verdict) Reason() body.Reason {
	switch v {
	case Despawn:
		return body.Despawn
	case Invalid:
		return body.Invalid
	default:
		return body.Crash
	}
}

// Classify judges one state against the removal thresholds. A non-finite
// state is a crash. Constants that make integration meaningless mark every
// body invalid so a bad config empties the registry instead of dividing by zero.
func Classify(pos, vel r3.Vec, cfg *config.Config) Verdict {
	if !finite(pos) || !finite(vel) {
		return Crash
	}
	if !(cfg.G > 0) || !(cfg.CentralMass > 0) || !(cfg.CrashDistance < cfg.DespawnDistance) {
		return Invalid
	}
	r := r3.Norm(pos)
	switch {
	case r < cfg.CrashDistance:
		return Crash
	case r > cfg.DespawnDistance:
		return Despawn
	default:
		return Keep
	}
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Manager owns the spawn and delete rules.
type Manager struct {
	cfg *config.Config
	rnd body.Rand
}

func NewManager(cfg *config.Config, rnd body.Rand) *Manager {
	return &Manager{cfg: cfg, rnd: rnd}
}

func (m *Manager) SetConfig(cfg *config.Config) { m.cfg = cfg }

// Scan classifies every body in reverse order, marking removals, and applies
// them once the pass is complete.
func (m *Manager) Scan(reg *body.Registry) []body.Removal {
	bodies := reg.Bodies()
	for i := len(bodies) - 1; i >= 0; i-- {
		b := bodies[i]
		if v := Classify(b.Pos, b.Vel, m.cfg); v != Keep {
			reg.Mark(b.ID, v.Reason())
		}
	}
	return reg.Apply()
}

// Spawn adds a body of the given kind, or a rolled kind when kind is nil.
// It reports false when the registry is full.
func (m *Manager) Spawn(reg *body.Registry, kind *body.Kind) (*body.Body, bool) {
	if reg.Len() >= m.cfg.MaxBodies {
		return nil, false
	}
	var p body.Profile
	if kind != nil {
		p = body.NewProfile(*kind, m.rnd)
	} else {
		p = body.RandomProfile(m.rnd)
	}
	return m.SpawnProfile(reg, p)
}

// SpawnProfile places p on a circular orbit just outside the current
// outermost body and computes its orbit.
func (m *Manager) SpawnProfile(reg *body.Registry, p body.Profile) (*body.Body, bool) {
	if reg.Len() >= m.cfg.MaxBodies {
		return nil, false
	}
	d := m.NextDistance(reg)
	b := p.Build()
	b.Pos = r3.Vec{X: d}
	b.Vel = r3.Vec{Z: math.Sqrt(m.cfg.Mu() / d)}
	reg.Add(b)

	el := orbit.FromConfig(m.cfg).Predict(b.Pos, b.Vel)
	b.Orbit = &el
	return b, true
}

// NextDistance is where the next spawn would be placed.
func (m *Manager) NextDistance(reg *body.Registry) float64 {
	if out, ok := reg.Outermost(); ok {
		return out.Distance() + m.cfg.Spawn.Increment
	}
	return m.cfg.Spawn.Base
}

// DeleteOutermost removes the farthest body. It is a no-op on an empty registry.
func (m *Manager) DeleteOutermost(reg *body.Registry) (body.Removal, bool) {
	out, ok := reg.Outermost()
	if !ok {
		return body.Removal{}, false
	}
	return reg.Remove(out.ID, body.Deleted)
}
