package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// EnergyGain is the largest relative increase of the system's energy over
// its first observed value. A passive spring chasing a fixed target never
// gains energy, so anything above rounding noise is integration error.
type EnergyGain struct {
	name    string
	dyn     dynamo.System
	initial float64
	maxGain float64
	samples int
}

func NewEnergyGain(dyn dynamo.System) *EnergyGain {
	return &EnergyGain{
		name: "energy_gain",
		dyn:  dyn,
	}
}

func (e *EnergyGain) Name() string { return e.name }

func (e *EnergyGain) Observe(x dynamo.State, u dynamo.Control, t float64) {
	h, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x, u)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		gain := (energy - e.initial) / math.Abs(e.initial)
		e.maxGain = math.Max(e.maxGain, gain)
	}
}

func (e *EnergyGain) Value() float64 {
	return e.maxGain
}

func (e *EnergyGain) Reset() {
	e.initial = 0
	e.maxGain = 0
	e.samples = 0
}
