package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Overshoot is the furthest the position travels past the target, as a
// fraction of the distance to it when the target was last set. The anchor
// moves whenever the target changes, so a step target is measured from the
// jump. Zero for springs that never cross.
type Overshoot struct {
	name       string
	anchor     float64
	lastTarget float64
	peak       float64
	samples    int
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	goal := u.Target()
	dev := x[0] - goal
	if o.samples == 0 || goal != o.lastTarget {
		o.anchor = dev
		o.lastTarget = goal
	}
	o.samples++

	if o.anchor == 0 {
		return
	}
	// past the target means the deviation has the opposite sign
	past := -dev / o.anchor
	o.peak = math.Max(o.peak, past)
}

func (o *Overshoot) Value() float64 { return o.peak }

func (o *Overshoot) Reset() {
	o.anchor = 0
	o.lastTarget = 0
	o.peak = 0
	o.samples = 0
}

// SettlingTime is the last observed time at which the position was
// outside Band of the target. Zero when it never left the band.
type SettlingTime struct {
	name string
	Band float64
	last float64
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{name: "settling_time", Band: band}
}

func (s *SettlingTime) Name() string { return s.name }

func (s *SettlingTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	if math.Abs(x[0]-u.Target()) > s.Band {
		s.last = t
	}
}

func (s *SettlingTime) Value() float64 { return s.last }

func (s *SettlingTime) Reset() { s.last = 0 }
