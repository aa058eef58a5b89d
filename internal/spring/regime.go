package spring

import "golang.org/x/exp/constraints"

// Regime identifies which closed-form solution governs a spring.
type Regime int

const (
	NoStiffness Regime = iota
	OverDamped
	UnderDamped
	CriticallyDamped
)

func (r Regime) String() string {
	switch r {
	case NoStiffness:
		return "no-stiffness"
	case OverDamped:
		return "over-damped"
	case UnderDamped:
		return "under-damped"
	case CriticallyDamped:
		return "critically-damped"
	default:
		return "unknown"
	}
}

// Oscillates reports whether springs in this regime overshoot the target.
func (r Regime) Oscillates() bool {
	return r == UnderDamped
}

// Classify picks the regime for the given parameters after clamping both to
// be non-negative. The boundaries are one machine epsilon of F either side
// of ζ = 1.
func Classify[F constraints.Float](angularFrequency, dampingRatio F) Regime {
	angularFrequency = clampNonNegative(angularFrequency)
	dampingRatio = clampNonNegative(dampingRatio)
	eps := Epsilon[F]()

	switch {
	case angularFrequency < eps:
		return NoStiffness
	case dampingRatio > 1+eps:
		return OverDamped
	case dampingRatio < 1-eps:
		return UnderDamped
	default:
		return CriticallyDamped
	}
}
