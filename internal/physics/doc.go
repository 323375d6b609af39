// Package physics provides the force law for orbiting bodies.
//
// [Gravity] combines the fixed central attractor with optional all-pairs
// attraction between bodies:
//
//   - [Gravity.Central]: -mu·r/|r|³ toward the origin
//   - [Gravity.Acceleration]: central plus pairwise terms for one body
//   - [Gravity.Energy]: kinetic plus potential energy, for drift metrics
//
// # Energy Conservation
//
// Semi-implicit Euler keeps energy bounded but not constant. Track drift with
// [Gravity.Energy]:
//
//	g := physics.NewGravity(cfg)
//	e0 := g.Energy(reg.Bodies())
package physics
