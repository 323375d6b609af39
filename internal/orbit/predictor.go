package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// EscapeEccentricity is the bound/escape split. Near-parabolic ellipses
	// above it are drawn as propagated arcs.
	EscapeEccentricity = 0.99

	// basisEccentricity is where the drawing basis stops following e_vec.
	basisEccentricity = 0.01
	// anomalyEccentricity is where the true anomaly stops being measured from e_vec.
	anomalyEccentricity = 1e-4
	// wrapTolerance is the fraction of a period treated as a full wrap.
	wrapTolerance = 1e-9
)

// Predictor holds the constants a prediction depends on. The zero values of
// Segments, EscapeSteps and EscapeStepSize fall back to 128, 300 and 1.
type Predictor struct {
	Mu              float64
	CrashDistance   float64
	DespawnDistance float64
	Segments        int
	EscapeSteps     int
	EscapeStepSize  float64
}

func (p Predictor) segments() int {
	if p.Segments < 3 {
		return 128
	}
	return p.Segments
}

func (p Predictor) escapeSteps() int {
	if p.EscapeSteps <= 0 {
		return 300
	}
	return p.EscapeSteps
}

func (p Predictor) escapeStepSize() float64 {
	if !(p.EscapeStepSize > 0) {
		return 1
	}
	return p.EscapeStepSize
}

// Predict derives the orbit of a body at pos moving with vel.
func (p Predictor) Predict(pos, vel r3.Vec) Elements {
	rmag := r3.Norm(pos)
	if !(p.Mu > 0) || rmag == 0 || !finite(pos) || !finite(vel) {
		return Elements{Kind: Degenerate}
	}

	rhat := r3.Scale(1/rmag, pos)
	h := r3.Cross(pos, vel)
	evec := r3.Sub(r3.Scale(1/p.Mu, r3.Cross(vel, h)), rhat)
	ecc := r3.Norm(evec)

	v2 := r3.Norm2(vel)
	energy := v2/2 - p.Mu/rmag
	a := math.Inf(1)
	if energy != 0 {
		a = -p.Mu / (2 * energy)
	}

	if ecc < EscapeEccentricity && a > 0 && !math.IsInf(a, 0) && !math.IsNaN(a) {
		return p.bound(pos, vel, rhat, h, evec, ecc, a)
	}
	return p.escape(pos, vel, evec, ecc)
}

func (p Predictor) bound(pos, vel, rhat, h, evec r3.Vec, ecc, a float64) Elements {
	el := Elements{
		Kind:            Bound,
		Eccentricity:    ecc,
		EccentricityVec: evec,
		SemiMajorAxis:   a,
		SemiLatus:       a * (1 - ecc*ecc),
		Periapsis:       a * (1 - ecc),
		Apoapsis:        a * (1 + ecc),
		mu:              p.Mu,
	}
	el.Period = 2 * math.Pi * math.Sqrt(a*a*a/p.Mu)
	el.MeanMotion = twoPi / el.Period

	el.N = unitOr(h, r3.Vec{Y: 1})
	if ecc > basisEccentricity {
		el.U = r3.Scale(1/ecc, evec)
	} else {
		el.U = rhat
	}
	el.W = r3.Cross(el.N, el.U)

	// The anomaly and the analytic helpers use their own periapsis frame so
	// PointAt(TrueAnomaly) lands on pos for every eccentricity.
	if ecc > anomalyEccentricity {
		el.peU = r3.Scale(1/ecc, evec)
		cosNu := r3.Dot(evec, pos) / (ecc * r3.Norm(pos))
		el.TrueAnomaly = math.Acos(math.Max(-1, math.Min(1, cosNu)))
		if r3.Dot(pos, vel) < 0 {
			el.TrueAnomaly = twoPi - el.TrueAnomaly
		}
	} else {
		el.peU = rhat
		el.TrueAnomaly = 0
	}
	el.peW = r3.Cross(el.N, el.peU)

	e := EccentricFromTrue(el.TrueAnomaly, ecc)
	m := MeanFromEccentric(e, ecc)
	el.TimeSincePeriapsis = m / el.MeanMotion
	el.TimeToPeriapsis = el.Period - el.TimeSincePeriapsis
	el.TimeToApoapsis = math.Mod(1.5*el.Period-el.TimeSincePeriapsis, el.Period)
	// A body sitting on apoapsis reads 0, not one period less rounding.
	if el.Period-el.TimeToApoapsis < wrapTolerance*el.Period {
		el.TimeToApoapsis = 0
	}

	el.Arcs = p.sampleEllipse(&el)
	return el
}

func (p Predictor) sampleEllipse(el *Elements) [][]r3.Vec {
	n := p.segments()
	var arcs [][]r3.Vec
	var cur []r3.Vec
	for i := 0; i <= n; i++ {
		theta := float64(i) / float64(n) * twoPi
		r := el.SemiLatus / (1 + el.Eccentricity*math.Cos(theta))
		if r < p.CrashDistance {
			if len(cur) > 0 {
				arcs = append(arcs, cur)
				cur = nil
			}
			continue
		}
		pt := r3.Add(r3.Scale(r*math.Cos(theta), el.U), r3.Scale(r*math.Sin(theta), el.W))
		cur = append(cur, pt)
	}
	if len(cur) > 0 {
		arcs = append(arcs, cur)
	}
	return arcs
}

// escape integrates a copy of the state with the same semi-implicit scheme
// the simulation uses, under central gravity only.
func (p Predictor) escape(pos, vel, evec r3.Vec, ecc float64) Elements {
	steps := p.escapeSteps()
	dt := p.escapeStepSize()
	crash2 := p.CrashDistance * p.CrashDistance

	pts := make([]r3.Vec, 0, steps)
	x, v := pos, vel
	for i := 0; i < steps; i++ {
		r2 := r3.Norm2(x)
		if r2 < crash2 {
			break
		}
		r := math.Sqrt(r2)
		acc := r3.Scale(-p.Mu/(r2*r), x)
		v = r3.Add(v, r3.Scale(dt, acc))
		x = r3.Add(x, r3.Scale(dt, v))
		pts = append(pts, x)
		if r3.Norm(x) > p.DespawnDistance {
			break
		}
	}

	el := Elements{
		Kind:            Escape,
		Eccentricity:    ecc,
		EccentricityVec: evec,
		mu:              p.Mu,
	}
	if len(pts) > 0 {
		el.Arcs = [][]r3.Vec{pts}
	}
	return el
}

func unitOr(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return fallback
	}
	return r3.Scale(1/n, v)
}

func finite(v r3.Vec) bool {
	for _, c := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
