// Package analysis extracts the oscillation frequency of a recorded run.
//
// An under-damped spring rings at α = ω·sqrt(1-ζ²) rad/s; [DominantFrequency]
// recovers α/(2π) from the position samples so a run can be checked against
// its parameters.
package analysis
