package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
)

// DefaultEpsilon is the pair separation below which pairwise gravity is ignored.
const DefaultEpsilon = 1e-6

// Gravity is a fixed central mass at the origin, optionally plus all-pairs
// attraction between orbiting bodies.
type Gravity struct {
	G           float64
	CentralMass float64
	Pairwise    bool
	Epsilon     float64
}

func NewGravity(cfg *config.Config) Gravity {
	return Gravity{
		G:           cfg.G,
		CentralMass: cfg.CentralMass,
		Pairwise:    cfg.Gravity == config.GravityNBody,
		Epsilon:     DefaultEpsilon,
	}
}

func (g Gravity) Mu() float64 { return g.G * g.CentralMass }

// Central is -mu·r/|r|³. The caller guarantees r is outside the crash radius.
func (g Gravity) Central(pos r3.Vec) r3.Vec {
	r2 := r3.Norm2(pos)
	r := math.Sqrt(r2)
	return r3.Scale(-g.Mu()/(r2*r), pos)
}

// Acceleration is what b feels from the center and, when pairwise, from every
// other body for which skip reports false. Positions are read as they are
// right now, so bodies already advanced this sub-step contribute their new
// position.
func (g Gravity) Acceleration(b *body.Body, all []*body.Body, skip func(body.ID) bool) r3.Vec {
	acc := g.Central(b.Pos)
	if !g.Pairwise {
		return acc
	}
	eps2 := g.Epsilon * g.Epsilon
	for _, o := range all {
		if o == b || (skip != nil && skip(o.ID)) {
			continue
		}
		d := r3.Sub(o.Pos, b.Pos)
		r2 := r3.Norm2(d)
		if r2 < eps2 {
			continue
		}
		rInv := 1 / math.Sqrt(r2)
		acc = r3.Add(acc, r3.Scale(g.G*o.Mass*rInv*rInv*rInv, d))
	}
	return acc
}

// Energy is the total kinetic plus potential energy of the orbiting bodies.
// The central mass is fixed and contributes only through the potential.
func (g Gravity) Energy(bodies []*body.Body) float64 {
	ke, pe := 0.0, 0.0
	mu := g.Mu()
	for i, b := range bodies {
		ke += 0.5 * b.Mass * r3.Norm2(b.Vel)
		if r := r3.Norm(b.Pos); r > 0 {
			pe -= mu * b.Mass / r
		}
		if !g.Pairwise {
			continue
		}
		for _, o := range bodies[i+1:] {
			r := r3.Norm(r3.Sub(o.Pos, b.Pos))
			if r < g.Epsilon {
				continue
			}
			pe -= g.G * b.Mass * o.Mass / r
		}
	}
	return ke + pe
}

// SpecificEnergy is v²/2 - mu/r for a single body.
func (g Gravity) SpecificEnergy(pos, vel r3.Vec) float64 {
	r := r3.Norm(pos)
	if r == 0 {
		return math.Inf(-1)
	}
	return r3.Norm2(vel)/2 - g.Mu()/r
}

func Momentum(bodies []*body.Body) r3.Vec {
	var p r3.Vec
	for _, b := range bodies {
		p = r3.Add(p, r3.Scale(b.Mass, b.Vel))
	}
	return p
}

func AngularMomentum(bodies []*body.Body) r3.Vec {
	var l r3.Vec
	for _, b := range bodies {
		l = r3.Add(l, r3.Scale(b.Mass, r3.Cross(b.Pos, b.Vel)))
	}
	return l
}

// CircularSpeed is the speed of a circular orbit of radius r about the center.
func (g Gravity) CircularSpeed(r float64) float64 {
	return math.Sqrt(g.Mu() / r)
}
