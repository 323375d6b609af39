package metrics

import (
	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Removals counts bodies leaving the registry. With a reason set it counts
// only that reason.
type Removals struct {
	name   string
	reason *body.Reason
	count  int
}

func NewRemovals() *Removals {
	return &Removals{name: "removals"}
}

func NewRemovalsFor(reason body.Reason) *Removals {
	return &Removals{name: "removals_" + reason.String(), reason: &reason}
}

func (c *Removals) Name() string {
	return c.name
}

func (c *Removals) Observe(s dynamo.Sample) {
	for _, rm := range s.Removed {
		if c.reason == nil || rm.Reason == *c.reason {
			c.count++
		}
	}
}

func (c *Removals) Value() float64 {
	return float64(c.count)
}

func (c *Removals) Reset() {
	c.count = 0
}
