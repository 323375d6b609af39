package body

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// ID is a stable handle. IDs are never reused within a Registry.
type ID uint64

// SunID is reserved for the central body, which is never stored in a Registry.
const SunID ID = 0

type Kind int

const (
	Rocky Kind = iota
	Ocean
	Gas
)

var kindNames = [...]string{"ROCKY", "OCEAN", "GAS"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind matches kind names case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(s, n) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("body: unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Color is an opaque linear RGB triple in [0, 1].
type Color struct {
	R, G, B float64
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Resource is a per-body handle owned by an outer renderer. The Registry
// releases it exactly once, when the body is removed.
type Resource interface {
	Release()
}

type Body struct {
	ID     ID
	Name   string
	Kind   Kind
	Pos    r3.Vec
	Vel    r3.Vec
	Mass   float64
	Radius float64
	Color  Color

	RealRadiusKm float64
	RealMassKg   float64

	// Orbit is nil until the first prediction.
	Orbit   *orbit.Elements
	Display Resource
}

func (b *Body) Distance() float64 { return r3.Norm(b.Pos) }
func (b *Body) Speed() float64    { return r3.Norm(b.Vel) }

// SetSpeed rescales the velocity to v while keeping its heading. A body at
// rest stays at rest.
func (b *Body) SetSpeed(v float64) {
	cur := r3.Norm(b.Vel)
	if cur == 0 {
		return
	}
	b.Vel = r3.Scale(v/cur, b.Vel)
}

type Reason int

const (
	Crash Reason = iota
	Despawn
	Deleted
	Invalid
)

func (r Reason) String() string {
	switch r {
	case Crash:
		return "crash"
	case Despawn:
		return "despawn"
	case Deleted:
		return "deleted"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Reason) UnmarshalText(b []byte) error {
	for c := Crash; c <= Invalid; c++ {
		if c.String() == string(b) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("body: unknown removal reason %q", b)
}

// Removal reports one body leaving the registry.
type Removal struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Reason   Reason  `json:"reason"`
	Distance float64 `json:"distance"`
}
