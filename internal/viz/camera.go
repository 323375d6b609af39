package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Camera looks down on the orbital plane. Yaw turns the plane, pitch tilts
// it toward the viewer; the projection is orthographic.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64

	// Extent is the world distance that fits half the short side at zoom 1.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	return &Camera{Pitch: 0.5, Zoom: 1, Extent: extent}
}

func (c *Camera) Turn(a float64) { c.Yaw += a }

func (c *Camera) Tilt(a float64) {
	c.Pitch = math.Max(0, math.Min(math.Pi/2, c.Pitch+a))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// Project maps a world position into a w by h dot grid. The second result
// is false when the point falls outside it.
func (c *Camera) Project(p dynamo.Vec3, w, h int) (int, int, bool) {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x := p[0]*cy - p[2]*sy
	z := p[0]*sy + p[2]*cy

	// Pitch 0 is top-down: screen up is world -Z.
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	v := z*cp - p[1]*sp

	half := float64(min(w, h)) / 2
	scale := half / c.Extent * c.Zoom
	// Braille dots are about twice as tall as they are wide on screen.
	sx := int(math.Round(x*scale)) + w/2
	sy2 := int(math.Round(v*scale/2)) + h/2
	return sx, sy2, sx >= 0 && sx < w && sy2 >= 0 && sy2 < h
}
