package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// RadiusBand tracks, per body, how far its distance from the center has
// strayed relative to where it was first seen. Value is the worst body.
// Circular orbits should stay near zero.
type RadiusBand struct {
	name  string
	bands map[body.ID]*band
}

type band struct {
	first, min, max float64
}

func NewRadiusBand() *RadiusBand {
	return &RadiusBand{
		name:  "radius_band",
		bands: make(map[body.ID]*band),
	}
}

func (r *RadiusBand) Name() string {
	return r.name
}

func (r *RadiusBand) Observe(s dynamo.Sample) {
	for _, b := range s.Bodies {
		d := b.Distance()
		bd, ok := r.bands[b.ID]
		if !ok {
			r.bands[b.ID] = &band{first: d, min: d, max: d}
			continue
		}
		bd.min = math.Min(bd.min, d)
		bd.max = math.Max(bd.max, d)
	}
	for _, rm := range s.Removed {
		delete(r.bands, rm.ID)
	}
}

func (r *RadiusBand) Value() float64 {
	worst := 0.0
	for _, bd := range r.bands {
		if bd.first > 0 {
			worst = math.Max(worst, (bd.max-bd.min)/bd.first)
		}
	}
	return worst
}

func (r *RadiusBand) Reset() {
	clear(r.bands)
}
