// Package dynamo runs the orbital simulation frame loop.
//
// An [Engine] owns the body registry and wires the pieces together:
//
//   - [integrators.SymplecticEuler]: sub-stepped semi-implicit Euler
//   - [lifecycle.Manager]: crash/despawn classification, spawn and delete rules
//   - [orbit.Predictor]: display geometry and apsides timers
//   - [timewarp.Controller]: the wall-clock to simulated time multiplier
//   - [sched.Scheduler]: which orbits are recomputed each frame
//
// # Example
//
//	store, _ := config.NewStore(config.GetPreset("default"))
//	eng, _ := dynamo.New(store, rand.New(rand.NewSource(1)))
//	eng.Seed(3)
//	for {
//	    f := eng.Frame(16 * time.Millisecond)
//	    render(f)
//	}
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Funnel commands onto the goroutine
// that calls Frame. For independent runs in parallel use [Ensemble], which
// gives each run its own engine.
package dynamo
