// Package orbit derives display-ready orbital geometry from a body's
// instantaneous position and velocity relative to a fixed central mass.
//
// Bound states (eccentricity below [EscapeEccentricity]) get a closed-form
// Keplerian ellipse, period and apsides timers. Everything else gets a
// bounded numerical propagation of the two-body law, sampled as an open arc.
//
//	p := orbit.Predictor{Mu: 500 * 1000, CrashDistance: 18, DespawnDistance: 5000}
//	el := p.Predict(pos, vel)
//	if el.Kind == orbit.Bound {
//	    fmt.Println(el.Period, el.TimeToPeriapsis)
//	}
//
// Predict only reads its inputs; it is safe to call as often as needed.
package orbit
