// Package spring computes the closed-form motion of a damped harmonic
// oscillator pulled toward a target value.
//
// The package has two halves:
//
//   - [New] derives a [Coefficients] matrix for one (dt, ω, ζ) tuple. This
//     is where the exp/sin/cos/sqrt calls happen, once.
//   - [Coefficients.Update] advances a caller-owned (position, velocity)
//     pair by exactly one dt toward a target. No integration, no error
//     accumulation, stable at any step size.
//
// Both halves are generic over float32 and float64. Epsilon comparisons use
// the machine epsilon of the chosen type.
//
// # Example
//
//	coeffs := spring.New(spring.FPS(60), 6.0, 0.5)
//	var pos, vel float64
//	for range frames {
//	    coeffs.Update(&pos, &vel, target)
//	}
//
// # Regimes
//
// The derivation splits on the damping ratio ζ: under-damped (ζ < 1)
// oscillates around the target, critically damped (ζ = 1) returns fastest
// without overshoot, over-damped (ζ > 1) creeps in slowly. An angular
// frequency below epsilon means no restoring force at all and the
// coefficients are the identity.
//
// # Thread Safety
//
// Coefficients are immutable and may be shared by any number of goroutines.
// Each (position, velocity) pair must have a single writer.
package spring
