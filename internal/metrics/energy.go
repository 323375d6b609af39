package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Energy is the mean total energy over all observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Sample) {
	e.totalEnergy += s.Energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative energy change seen while the set of
// bodies stayed the same. A spawn or removal starts a new baseline.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	members       map[body.ID]struct{}
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		members: make(map[body.ID]struct{}),
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Sample) {
	if e.changed(s.Bodies) {
		e.samples = 0
	}

	if e.samples == 0 {
		e.initialEnergy = s.Energy
	}

	e.currentEnergy = s.Energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(s.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) changed(bodies []*body.Body) bool {
	same := len(bodies) == len(e.members)
	if same {
		for _, b := range bodies {
			if _, ok := e.members[b.ID]; !ok {
				same = false
				break
			}
		}
	}
	if same {
		return false
	}
	clear(e.members)
	for _, b := range bodies {
		e.members[b.ID] = struct{}{}
	}
	return true
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	clear(e.members)
}
