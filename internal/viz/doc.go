// Package viz is the terminal live view of an orbit engine.
//
// [Model] is a Bubble Tea program that advances the engine once per tick
// and draws it on a braille [Canvas]. Each body gets a [Trail], attached to
// it as a display resource so the engine releases it when the body goes.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	N      - Spawn a random planet (1/2/3 pick the kind)
//	D      - Delete the outermost planet
//	Tab    - Cycle selection, S selects the sun, Esc clears
//	Up/Dn  - Scale the selected planet's speed
//	[ ]    - Warp down/up
//	?      - Show help overlay
package viz
