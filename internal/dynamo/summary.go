package dynamo

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/orbit"
)

// Summary is the readout for the selected body. Planet sizes are in Earths,
// the central body is in Suns.
type Summary struct {
	ID         body.ID `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	DistanceAU float64 `json:"distance_au"`
	Speed      float64 `json:"speed"`

	Orbit           string  `json:"orbit,omitempty"`
	Eccentricity    float64 `json:"eccentricity"`
	Period          float64 `json:"period"`
	TimeToPeriapsis float64 `json:"t_pe"`
	TimeToApoapsis  float64 `json:"t_ap"`

	Mass       float64 `json:"mass"`
	Radius     float64 `json:"radius"`
	Luminosity float64 `json:"luminosity,omitempty"`
	Unit       string  `json:"unit"`
}

func (e *Engine) summarize(id body.ID) (*Summary, bool) {
	if id == body.SunID {
		return &Summary{
			ID:         body.SunID,
			Name:       e.sun.Name,
			Type:       "STAR",
			Mass:       body.Relative(e.sun.RealMassKg, body.SunMassKg),
			Radius:     body.Relative(e.sun.RealRadiusKm, body.SunRadiusKm),
			Luminosity: body.Relative(e.sun.LuminosityW, body.SunLuminosityW),
			Unit:       "Suns",
		}, true
	}
	b, ok := e.reg.Get(id)
	if !ok {
		return nil, false
	}
	s := &Summary{
		ID:         b.ID,
		Name:       b.Name,
		Type:       b.Kind.String(),
		DistanceAU: b.Distance() / e.cfg.Warp.AUSize,
		Speed:      b.Speed(),
		Mass:       body.Relative(b.RealMassKg, body.EarthMassKg),
		Radius:     body.Relative(b.RealRadiusKm, body.EarthRadiusKm),
		Unit:       "Earths",
	}
	if el := b.Orbit; el != nil {
		s.Orbit = el.Kind.String()
		s.Eccentricity = el.Eccentricity
		if el.Kind == orbit.Bound {
			s.Period = el.Period
			s.TimeToPeriapsis = el.TimeToPeriapsis
			s.TimeToApoapsis = el.TimeToApoapsis
		}
	}
	return s, true
}

// Lines renders the readout panel.
func (s *Summary) Lines() []string {
	if s.ID == body.SunID {
		return []string{
			s.Name,
			"MASS: " + relative(s.Mass, s.Unit),
			"RADIUS: " + relative(s.Radius, s.Unit),
			"LUMINOSITY: " + relative(s.Luminosity, s.Unit),
		}
	}
	lines := []string{
		s.Name,
		"TYPE: " + s.Type,
		fmt.Sprintf("DIST: %.2f AU", s.DistanceAU),
		fmt.Sprintf("VELOCITY: %.2f m/s", s.Speed),
	}
	switch s.Orbit {
	case "bound":
		lines = append(lines,
			fmt.Sprintf("ECC: %.3f", s.Eccentricity),
			fmt.Sprintf("PERIOD: %.0fs", s.Period),
			fmt.Sprintf("T-PE: %.0fs", s.TimeToPeriapsis),
			fmt.Sprintf("T-AP: %.0fs", s.TimeToApoapsis),
		)
	case "escape":
		lines = append(lines, fmt.Sprintf("ECC: %.3f (ESCAPE)", s.Eccentricity))
	}
	return append(lines,
		"---PHYSICAL---",
		"MASS: "+relative(s.Mass, s.Unit),
		"RADIUS: "+relative(s.Radius, s.Unit),
	)
}

func relative(v float64, unit string) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.3f %s", v, unit)
}
