package integrators

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

// Analytic steps a dynamo.Oscillator with the closed-form spring solution.
// Coefficients are derived once per (dt, ω, ζ) and re-derived as soon as
// any of the three changes. Systems that are not oscillators fall back to
// RK4.
type Analytic struct {
	coeffs   spring.Coefficients[float64]
	key      [3]float64
	derived  bool
	fallback *RK4
}

func NewAnalytic() *Analytic {
	return &Analytic{fallback: NewRK4()}
}

// Coefficients returns the coefficient set for the given parameters,
// reusing the cached one when they are unchanged.
func (a *Analytic) Coefficients(dt, omega, zeta float64) spring.Coefficients[float64] {
	key := [3]float64{dt, omega, zeta}
	if !a.derived || key != a.key {
		a.coeffs = spring.New(dt, omega, zeta)
		a.key = key
		a.derived = true
	}
	return a.coeffs
}

func (a *Analytic) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	osc, ok := dyn.(dynamo.Oscillator)
	if !ok || len(x) != 2 {
		return a.fallback.Step(dyn, x, u, t, dt)
	}

	c := a.Coefficients(dt, osc.AngularFrequency(), osc.DampingRatio())
	pos, vel := c.Step(x[0], x[1], u.Target())
	return dynamo.State{pos, vel}
}
