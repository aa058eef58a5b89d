// Package physics provides the continuous-time spring model used by the
// numerical integrators.
//
// [DampedSpring] implements [dynamo.System] and [dynamo.Oscillator]; the
// latter lets integrators.Analytic replace integration with the closed form
// from package spring. It also implements [dynamo.Configurable] so the live
// view can retune ω and ζ.
package physics
