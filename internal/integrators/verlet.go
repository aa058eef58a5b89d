package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Verlet is velocity Verlet for states laid out as [positions..., velocities...].
// The acceleration is re-evaluated at the new position with the old
// velocity, which is exact for conservative forces and first-order in the
// damping term.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	next := make(dynamo.State, n)
	dx := dyn.Derive(x, u, t)

	for i := 0; i < half; i++ {
		next[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt*dt
	}

	copy(v.scratch[:half], next[:half])
	copy(v.scratch[half:], x[half:])
	dxNew := dyn.Derive(v.scratch, u, t+dt)

	for i := 0; i < half; i++ {
		next[half+i] = x[half+i] + 0.5*(dx[half+i]+dxNew[half+i])*dt
	}
	return next
}
