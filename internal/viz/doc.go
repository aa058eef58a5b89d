// Package viz renders a live terminal view of a spring chasing a target.
//
// The view is a Bubble Tea model. One spring is advanced by the selected
// integrator; a trail of springs behind it is a field.Field where each
// spring chases the one in front. Tuning ω or ζ re-derives the
// coefficients immediately.
package viz
