package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Kind int

const (
	Degenerate Kind = iota
	Bound
	Escape
)

func (k Kind) String() string {
	switch k {
	case Bound:
		return "bound"
	case Escape:
		return "escape"
	default:
		return "degenerate"
	}
}

// Elements is the derived orbit summary for one body. Period and the apsides
// fields are zero unless Kind is Bound.
type Elements struct {
	Kind            Kind
	Eccentricity    float64
	EccentricityVec r3.Vec
	SemiMajorAxis   float64
	SemiLatus       float64
	Period          float64
	MeanMotion      float64

	TrueAnomaly        float64
	TimeSincePeriapsis float64
	TimeToPeriapsis    float64
	TimeToApoapsis     float64

	Periapsis float64
	Apoapsis  float64

	// U points at periapsis, W completes the in-plane basis, N is the orbit normal.
	U, W, N r3.Vec

	// Arcs are the sampled curve. A bound orbit that never dips below the
	// crash radius is a single closed arc; clipping splits it.
	Arcs [][]r3.Vec

	peU, peW r3.Vec
	mu       float64
}

// Closed reports whether the sampled curve is an unbroken ellipse.
func (e *Elements) Closed() bool {
	return e.Kind == Bound && len(e.Arcs) == 1 && len(e.Arcs[0]) > 1 &&
		r3.Norm(r3.Sub(e.Arcs[0][0], e.Arcs[0][len(e.Arcs[0])-1])) < 1e-9*math.Max(1, e.SemiMajorAxis)
}

// Points flattens Arcs into a single slice.
func (e *Elements) Points() []r3.Vec {
	n := 0
	for _, a := range e.Arcs {
		n += len(a)
	}
	pts := make([]r3.Vec, 0, n)
	for _, a := range e.Arcs {
		pts = append(pts, a...)
	}
	return pts
}

// Radius returns the conic radius at true anomaly nu.
func (e *Elements) Radius(nu float64) float64 {
	return e.SemiLatus / (1 + e.Eccentricity*math.Cos(nu))
}

// PointAt returns the position on a bound orbit at true anomaly nu.
func (e *Elements) PointAt(nu float64) r3.Vec {
	r := e.Radius(nu)
	return r3.Add(r3.Scale(r*math.Cos(nu), e.peU), r3.Scale(r*math.Sin(nu), e.peW))
}

// VelocityAt returns the orbital velocity at true anomaly nu.
func (e *Elements) VelocityAt(nu float64) r3.Vec {
	if e.SemiLatus <= 0 {
		return r3.Vec{}
	}
	k := math.Sqrt(e.mu / e.SemiLatus)
	return r3.Add(r3.Scale(-k*math.Sin(nu), e.peU), r3.Scale(k*(e.Eccentricity+math.Cos(nu)), e.peW))
}

// Propagate advances a bound orbit analytically by dt and returns the new
// position, velocity and true anomaly.
func (e *Elements) Propagate(dt float64) (pos, vel r3.Vec, nu float64) {
	if e.Kind != Bound {
		return r3.Vec{}, r3.Vec{}, 0
	}
	m := normalizeAngle(e.MeanMotion * (e.TimeSincePeriapsis + dt))
	nu = TrueAnomalyFromMean(m, e.Eccentricity)
	return e.PointAt(nu), e.VelocityAt(nu), nu
}
