// Package timewarp maps a discrete warp selection onto the multiplier the
// integrator applies to wall-clock time.
package timewarp

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/config"
)

// YearSeconds is one real year, the reference for calibrated warp.
const YearSeconds = 31536000.0

// Controller holds a warp table of real seconds per simulated second and the
// current index into it. With calibration on, one simulated orbit at the AU
// reference distance takes one real year of selected time.
type Controller struct {
	table      []float64
	index      int
	calibrated bool
	ratio      float64
}

func New(table []float64, index int) *Controller {
	t := make([]float64, len(table))
	copy(t, table)
	c := &Controller{table: t, ratio: 1}
	c.index = c.clamp(index)
	return c
}

func FromConfig(cfg *config.Config) *Controller {
	c := New(cfg.Warp.Table, cfg.Warp.Index)
	if cfg.Warp.Calibrated {
		c.Recalibrate(cfg.G, cfg.CentralMass, cfg.Warp.AUSize)
	}
	return c
}

// SimToRealRatio is real seconds per simulated second when one simulated AU
// orbit stands for a real year.
func SimToRealRatio(g, mass, au float64) float64 {
	simPeriod := 2 * math.Pi * math.Sqrt(au*au*au/(g*mass))
	return YearSeconds / simPeriod
}

// Recalibrate switches to the calibrated variant for the given constants.
// Non-positive inputs leave the previous ratio in place.
func (c *Controller) Recalibrate(g, mass, au float64) {
	if !(g > 0) || !(mass > 0) || !(au > 0) {
		return
	}
	c.calibrated = true
	c.ratio = SimToRealRatio(g, mass, au)
}

// Direct drops calibration, so the multiplier is the table value itself.
func (c *Controller) Direct() {
	c.calibrated = false
	c.ratio = 1
}

func (c *Controller) Calibrated() bool { return c.calibrated }
func (c *Controller) Index() int       { return c.index }
func (c *Controller) Len() int         { return len(c.table) }

// RealSeconds is the current table entry.
func (c *Controller) RealSeconds() float64 {
	if len(c.table) == 0 {
		return 0
	}
	return c.table[c.index]
}

func (c *Controller) Multiplier() float64 {
	return c.RealSeconds() / c.ratio
}

// StepUp moves one entry up the table. It reports false at the top.
func (c *Controller) StepUp() bool {
	if c.index >= len(c.table)-1 {
		return false
	}
	c.index++
	return true
}

// StepDown moves one entry down the table. It reports false at the bottom.
func (c *Controller) StepDown() bool {
	if c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// SetIndex jumps to i, clamped to the table.
func (c *Controller) SetIndex(i int) { c.index = c.clamp(i) }

func (c *Controller) clamp(i int) int {
	if i < 0 || len(c.table) == 0 {
		return 0
	}
	if i >= len(c.table) {
		return len(c.table) - 1
	}
	return i
}

// Label renders the current entry as "WARP: 1.0 DAY/S".
func (c *Controller) Label() string {
	return "WARP: " + FormatRate(c.RealSeconds())
}

// FormatRate picks the largest unit the rate reaches.
func FormatRate(sec float64) string {
	switch {
	case sec >= YearSeconds:
		return fmt.Sprintf("%.1f YEAR/S", sec/YearSeconds)
	case sec >= 2592000:
		return fmt.Sprintf("%.1f MON/S", sec/2592000)
	case sec >= 604800:
		return fmt.Sprintf("%.1f WEEK/S", sec/604800)
	case sec >= 86400:
		return fmt.Sprintf("%.1f DAY/S", sec/86400)
	case sec >= 3600:
		return fmt.Sprintf("%.1f HR/S", sec/3600)
	default:
		return fmt.Sprintf("%.1f MIN/S", sec/60)
	}
}
