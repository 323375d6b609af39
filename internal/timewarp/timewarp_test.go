package timewarp

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
)

func TestStepClamps(t *testing.T) {
	c := New([]float64{1, 2, 4}, 1)

	if !c.StepUp() || c.Index() != 2 {
		t.Fatalf("expected to step up to 2, at %d", c.Index())
	}
	if c.StepUp() {
		t.Error("expected StepUp to refuse at the top")
	}
	if c.Index() != 2 {
		t.Errorf("expected index to stay at 2, got %d", c.Index())
	}

	c.StepDown()
	c.StepDown()
	if c.StepDown() {
		t.Error("expected StepDown to refuse at the bottom")
	}
	if c.Index() != 0 {
		t.Errorf("expected index 0, got %d", c.Index())
	}
}

func TestNewClampsIndex(t *testing.T) {
	if c := New([]float64{1, 2}, 9); c.Index() != 1 {
		t.Errorf("expected index clamped to 1, got %d", c.Index())
	}
	if c := New([]float64{1, 2}, -3); c.Index() != 0 {
		t.Errorf("expected index clamped to 0, got %d", c.Index())
	}
}

func TestDirectMultiplier(t *testing.T) {
	c := New([]float64{0.5, 2}, 1)
	if c.Multiplier() != 2 {
		t.Errorf("expected multiplier 2, got %f", c.Multiplier())
	}
}

func TestCalibratedMultiplier(t *testing.T) {
	cfg := config.DefaultConfig()
	c := FromConfig(cfg)

	if !c.Calibrated() {
		t.Fatal("expected calibrated controller from default config")
	}

	// At YEAR/S one simulated AU orbit must take one wall second.
	c.SetIndex(c.Len() - 1)
	simPeriod := 2 * math.Pi * math.Sqrt(math.Pow(cfg.Warp.AUSize, 3)/cfg.Mu())
	if math.Abs(c.Multiplier()-simPeriod) > 1e-9*simPeriod {
		t.Errorf("expected multiplier %.6f, got %.6f", simPeriod, c.Multiplier())
	}
}

func TestRecalibrateOnConstantChange(t *testing.T) {
	c := New(config.DefaultWarpTable, config.DefaultWarpIndex)
	c.Recalibrate(500, 1000, 200)
	before := c.Multiplier()

	// Four times the mass halves the AU period, so the multiplier halves.
	c.Recalibrate(500, 4000, 200)
	after := c.Multiplier()
	if math.Abs(after-before/2) > 1e-9*before {
		t.Errorf("expected multiplier %.6f, got %.6f", before/2, after)
	}

	c.Recalibrate(0, 4000, 200)
	if c.Multiplier() != after {
		t.Error("expected invalid constants to keep the previous ratio")
	}

	c.Direct()
	if c.Multiplier() != config.DefaultWarpTable[config.DefaultWarpIndex] {
		t.Errorf("expected direct multiplier, got %f", c.Multiplier())
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{1920, "WARP: 32.0 MIN/S"},
		{3600, "WARP: 1.0 HR/S"},
		{43200, "WARP: 12.0 HR/S"},
		{86400, "WARP: 1.0 DAY/S"},
		{259200, "WARP: 3.0 DAY/S"},
		{1209600, "WARP: 2.0 WEEK/S"},
		{7776000, "WARP: 3.0 MON/S"},
		{31536000, "WARP: 1.0 YEAR/S"},
	}

	for _, tt := range tests {
		c := New([]float64{tt.sec}, 0)
		if got := c.Label(); got != tt.want {
			t.Errorf("%.0f s: expected %q, got %q", tt.sec, tt.want, got)
		}
	}
}

func TestDefaultStartsAtOneDay(t *testing.T) {
	c := FromConfig(config.DefaultConfig())
	if got := c.Label(); got != "WARP: 1.0 DAY/S" {
		t.Errorf("expected 1.0 DAY/S, got %s", got)
	}
}
