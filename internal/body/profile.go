package body

import (
	"math"
	"strings"
)

const (
	EarthRadiusKm   = 6371.0
	EarthMassKg     = 5.972e24
	JupiterRadiusKm = 69911.0
	SunRadiusKm     = 696340.0
	SunMassKg       = 1.989e30
	SunLuminosityW  = 3.828e26
	SunTemperatureK = 5778.0
	StefanBoltzmann = 5.67e-8

	DensityRocky = 5514.0 // kg/m³
	DensityGas   = 1326.0

	// SunSize is the display radius of the central body. Real sizes scale from it.
	SunSize = 22.0
)

// Rand is the random source used for spawn profiles. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Profile is everything about a new body that does not depend on where it
// is placed.
type Profile struct {
	Kind  Kind
	Name  string
	Size  float64
	Color Color
}

// RollKind draws ROCKY 40%, OCEAN 30%, GAS 30%.
func RollKind(rnd Rand) Kind {
	roll := rnd.Float64()
	switch {
	case roll < 0.4:
		return Rocky
	case roll < 0.7:
		return Ocean
	default:
		return Gas
	}
}

// RandomProfile rolls a kind and then builds its profile.
func RandomProfile(rnd Rand) Profile {
	return NewProfile(RollKind(rnd), rnd)
}

// NewProfile draws the color and size ranges for kind and a name from the bank.
func NewProfile(kind Kind, rnd Rand) Profile {
	p := Profile{Kind: kind}
	switch kind {
	case Ocean:
		p.Color = Color{R: 0, G: 0.4 + rnd.Float64()*0.4, B: 0.8 + rnd.Float64()*0.2}
		p.Size = 7 + rnd.Float64()*3
	case Gas:
		p.Color = Color{R: rnd.Float64(), G: rnd.Float64(), B: rnd.Float64()}
		p.Size = 16 + rnd.Float64()*6
	default:
		p.Kind = Rocky
		grey := 0.5 + rnd.Float64()*0.3
		p.Color = Color{R: grey, G: grey, B: grey}
		p.Size = 6 + rnd.Float64()*3
	}
	p.Name = RandomName(rnd)
	return p
}

// Physical maps a display size onto a real radius and mass. Rocky and ocean
// worlds scale from Earth, gas giants from Jupiter.
func Physical(kind Kind, size float64) (radiusKm, massKg float64) {
	density, baseRadius, baseSize := DensityRocky, EarthRadiusKm, 8.0
	if kind == Gas {
		density, baseRadius, baseSize = DensityGas, JupiterRadiusKm, 20.0
	}
	radiusKm = size / baseSize * baseRadius
	r := radiusKm * 1000
	massKg = 4.0 / 3.0 * math.Pi * r * r * r * density
	return radiusKm, massKg
}

// SimMass is the gravitating mass used by pairwise gravity, in the same units
// as the central mass. It is small next to the default central mass of 1000.
func SimMass(kind Kind, size float64) float64 {
	density := DensityRocky
	if kind == Gas {
		density = DensityGas
	}
	return size * size * size * density * 1e-6
}

// Build turns a profile into a body at rest at the origin. The caller places it.
func (p Profile) Build() *Body {
	rkm, mkg := Physical(p.Kind, p.Size)
	return &Body{
		Name:         strings.ToUpper(p.Name),
		Kind:         p.Kind,
		Mass:         SimMass(p.Kind, p.Size),
		Radius:       p.Size,
		Color:        p.Color,
		RealRadiusKm: rkm,
		RealMassKg:   mkg,
	}
}

// Sun is the fixed central body. It is never integrated.
type Sun struct {
	Name         string
	Mass         float64
	Radius       float64
	RealRadiusKm float64
	RealMassKg   float64
	LuminosityW  float64
}

// NewSun derives the central body's real-world summary. A central mass of
// 1000 is one solar mass.
func NewSun(centralMass float64) Sun {
	rkm := SunRadiusKm
	r := rkm * 1000
	t2 := SunTemperatureK * SunTemperatureK
	return Sun{
		Name:         "SUN",
		Mass:         centralMass,
		Radius:       SunSize,
		RealRadiusKm: rkm,
		RealMassKg:   centralMass / 1000 * SunMassKg,
		LuminosityW:  4 * math.Pi * r * r * StefanBoltzmann * t2 * t2,
	}
}

// Relative expresses value in multiples of base, or 0 when either is zero.
func Relative(value, base float64) float64 {
	if value == 0 || base == 0 {
		return 0
	}
	return value / base
}
