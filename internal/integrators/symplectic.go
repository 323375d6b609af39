package integrators

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/lifecycle"
	"github.com/san-kum/orbitsim/internal/physics"
)

// SymplecticEuler advances the registry with semi-implicit Euler: velocity
// first, then position with the new velocity.
type SymplecticEuler struct {
	cfg     *config.Config
	gravity physics.Gravity
}

func NewSymplecticEuler(cfg *config.Config) *SymplecticEuler {
	return &SymplecticEuler{cfg: cfg, gravity: physics.NewGravity(cfg)}
}

func (s *SymplecticEuler) SetConfig(cfg *config.Config) {
	s.cfg = cfg
	s.gravity = physics.NewGravity(cfg)
}

func (s *SymplecticEuler) Gravity() physics.Gravity { return s.gravity }

// Step is the outcome of one Advance call.
type Step struct {
	Delta    time.Duration // wall delta after clamping
	SimTime  float64       // simulated seconds covered
	SubSteps int
	Removals []body.Removal
}

// Advance covers delta (clamped to the configured maximum) scaled by
// multiplier, split into equal sub-steps. Each sub-step visits bodies in
// reverse order, classifies them before computing any force, and applies
// removals after the pass.
func (s *SymplecticEuler) Advance(reg *body.Registry, delta time.Duration, multiplier float64) Step {
	if delta < 0 {
		delta = 0
	}
	if delta > s.cfg.MaxFrameDelta {
		delta = s.cfg.MaxFrameDelta
	}
	n := s.cfg.SubSteps
	if n < 1 {
		n = 1
	}

	step := Step{Delta: delta, SubSteps: n}
	step.SimTime = delta.Seconds() * multiplier
	dt := step.SimTime / float64(n)

	for k := 0; k < n && reg.Len() > 0; k++ {
		s.subStep(reg, dt)
		step.Removals = append(step.Removals, reg.Apply()...)
	}
	return step
}

func (s *SymplecticEuler) subStep(reg *body.Registry, dt float64) {
	bodies := reg.Bodies()
	for i := len(bodies) - 1; i >= 0; i-- {
		b := bodies[i]
		if reg.Marked(b.ID) {
			continue
		}
		if v := lifecycle.Classify(b.Pos, b.Vel, s.cfg); v != lifecycle.Keep {
			reg.Mark(b.ID, v.Reason())
			continue
		}
		acc := s.gravity.Acceleration(b, bodies, reg.Marked)
		b.Vel = r3.Add(b.Vel, r3.Scale(dt, acc))
		b.Pos = r3.Add(b.Pos, r3.Scale(dt, b.Vel))
	}
}

// StepFixed advances by exactly dt simulated seconds in SubSteps pieces,
// bypassing the wall-clock clamp. Headless runs use it.
func (s *SymplecticEuler) StepFixed(reg *body.Registry, dt float64) []body.Removal {
	n := s.cfg.SubSteps
	if n < 1 {
		n = 1
	}
	var out []body.Removal
	h := dt / float64(n)
	for k := 0; k < n && reg.Len() > 0; k++ {
		s.subStep(reg, h)
		out = append(out, reg.Apply()...)
	}
	return out
}
