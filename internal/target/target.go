package target

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

type Constant struct {
	Value float64
}

func NewConstant(value float64) *Constant {
	return &Constant{Value: value}
}

func (c *Constant) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{c.Value}
}

type Step struct {
	From, To float64
	At       float64
}

func NewStep(from, to, at float64) *Step {
	return &Step{From: from, To: to, At: at}
}

func (s *Step) Compute(x dynamo.State, t float64) dynamo.Control {
	if t < s.At {
		return dynamo.Control{s.From}
	}
	return dynamo.Control{s.To}
}

type Sine struct {
	Offset    float64
	Amplitude float64
	Period    float64
}

func NewSine(offset, amplitude, period float64) *Sine {
	return &Sine{Offset: offset, Amplitude: amplitude, Period: period}
}

func (s *Sine) Compute(x dynamo.State, t float64) dynamo.Control {
	if s.Period <= 0 {
		return dynamo.Control{s.Offset}
	}
	return dynamo.Control{s.Offset + s.Amplitude*math.Sin(2*math.Pi*t/s.Period)}
}

// Square starts at Offset+Amplitude and flips every Period/2.
type Square struct {
	Offset    float64
	Amplitude float64
	Period    float64
}

func NewSquare(offset, amplitude, period float64) *Square {
	return &Square{Offset: offset, Amplitude: amplitude, Period: period}
}

func (s *Square) Compute(x dynamo.State, t float64) dynamo.Control {
	if s.Period <= 0 {
		return dynamo.Control{s.Offset + s.Amplitude}
	}
	phase := math.Mod(t, s.Period)
	if phase < 0 {
		phase += s.Period
	}
	if phase < s.Period/2 {
		return dynamo.Control{s.Offset + s.Amplitude}
	}
	return dynamo.Control{s.Offset - s.Amplitude}
}

// Manual holds a target set by the caller between ticks.
type Manual struct {
	Value float64
}

func NewManual(value float64) *Manual {
	return &Manual{Value: value}
}

func (m *Manual) Set(value float64)   { m.Value = value }
func (m *Manual) Nudge(delta float64) { m.Value += delta }

func (m *Manual) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{m.Value}
}
