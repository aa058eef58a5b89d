package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Euler is explicit forward Euler. It gains energy on an undamped spring
// and goes unstable once ω·dt exceeds 2ζ.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}
