// Package dynamo defines the shared types of the simulation lab.
//
//   - [State]: vector of system state, [position, velocity] for a spring
//   - [Control]: external input; Control[0] is the spring target
//   - [System]: continuous dynamics dX/dt = f(X, u, t)
//   - [Integrator]: advances a System by one dt
//   - [Controller]: produces the control (the moving target) each tick
//   - [Metric]: observes a run and reduces it to one number
//
// Systems that are damped springs also implement [Oscillator], which lets
// the analytic integrator skip numerical integration entirely.
package dynamo
