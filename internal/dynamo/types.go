package dynamo

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/orbit"
)

// Vec3 is the compact wire form of a position.
type Vec3 [3]float64

func toVec3(v r3.Vec) Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Frame is the per-frame snapshot handed to renderers.
type Frame struct {
	Seq        uint64         `json:"seq"`
	SimTime    float64        `json:"sim_time"`
	Step       float64        `json:"step"`
	Warp       string         `json:"warp"`
	Multiplier float64        `json:"multiplier"`
	Bodies     []BodyView     `json:"bodies"`
	Removed    []body.Removal `json:"removed,omitempty"`
	Selected   *Summary       `json:"selected,omitempty"`
}

type BodyView struct {
	ID     body.ID   `json:"id"`
	Name   string    `json:"name"`
	Kind   body.Kind `json:"kind"`
	Pos    Vec3      `json:"pos"`
	Speed  float64   `json:"speed"`
	Radius float64   `json:"radius"`
	Color  string    `json:"color"`

	// Orbit is set only for bodies whose geometry was refreshed this frame.
	Orbit *OrbitView `json:"orbit,omitempty"`
}

type OrbitView struct {
	Kind         string   `json:"kind"`
	Eccentricity float64  `json:"eccentricity"`
	Period       float64  `json:"period,omitempty"`
	Arcs         [][]Vec3 `json:"arcs"`
}

func newOrbitView(el *orbit.Elements) *OrbitView {
	v := &OrbitView{
		Kind:         el.Kind.String(),
		Eccentricity: el.Eccentricity,
		Period:       el.Period,
		Arcs:         make([][]Vec3, len(el.Arcs)),
	}
	for i, arc := range el.Arcs {
		pts := make([]Vec3, len(arc))
		for j, p := range arc {
			pts[j] = toVec3(p)
		}
		v.Arcs[i] = pts
	}
	return v
}

// Sample is what metrics see after each frame.
type Sample struct {
	Seq     uint64
	SimTime float64
	Bodies  []*body.Body
	Energy  float64
	Removed []body.Removal
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

// Telemetry receives engine counters. The telemetry package provides a
// Prometheus implementation.
type Telemetry interface {
	FrameDone(elapsed time.Duration, bodies int, simTime, multiplier float64)
	Spawned(kind body.Kind)
	Removed(r body.Removal)
	OrbitsRefreshed(n int)
}

type nopTelemetry struct{}

func (nopTelemetry) FrameDone(time.Duration, int, float64, float64) {}
func (nopTelemetry) Spawned(body.Kind)                               {}
func (nopTelemetry) Removed(body.Removal)                            {}
func (nopTelemetry) OrbitsRefreshed(int)                             {}
