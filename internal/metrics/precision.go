package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

// PrecisionDrift shadows the observed run with a float32 closed-form spring
// and reports the largest position gap between the two. The shadow is seeded
// from the first observed state and steps toward the same targets. Against
// the analytic integrator the gap is float32 rounding alone; against a
// numerical integrator it also contains that integrator's error.
type PrecisionDrift struct {
	name     string
	coeffs   spring.Coefficients[float32]
	pos, vel float32
	started  bool
	worst    float64
}

func NewPrecisionDrift(osc dynamo.Oscillator, dt float64) *PrecisionDrift {
	return &PrecisionDrift{
		name:   "float32_drift",
		coeffs: spring.New(float32(dt), float32(osc.AngularFrequency()), float32(osc.DampingRatio())),
	}
}

func (p *PrecisionDrift) Name() string { return p.name }

func (p *PrecisionDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	if !p.started {
		p.pos, p.vel = float32(x[0]), float32(x[1])
		p.started = true
	} else {
		p.worst = max(p.worst, math.Abs(float64(p.pos)-x[0]))
	}
	p.coeffs.Update(&p.pos, &p.vel, float32(u.Target()))
}

func (p *PrecisionDrift) Value() float64 { return p.worst }

func (p *PrecisionDrift) Reset() {
	p.pos, p.vel = 0, 0
	p.started = false
	p.worst = 0
}
