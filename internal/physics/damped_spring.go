package physics

import (
	"fmt"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultAngularFrequency = 6.0
	DefaultDampingRatio     = 0.5
)

// DampedSpring is a unit-mass spring pulled toward Control[0]:
//
//	x'' = -2ζω x' - ω² (x - target)
//
// Negative parameters behave as zero, matching spring.New.
type DampedSpring struct {
	Omega float64
	Zeta  float64
}

func NewDampedSpring(omega, zeta float64) *DampedSpring {
	return &DampedSpring{Omega: omega, Zeta: zeta}
}

func NewDefaultSpring() *DampedSpring {
	return NewDampedSpring(DefaultAngularFrequency, DefaultDampingRatio)
}

func (s *DampedSpring) StateDim() int   { return 2 }
func (s *DampedSpring) ControlDim() int { return 1 }

func (s *DampedSpring) AngularFrequency() float64 { return max(s.Omega, 0) }
func (s *DampedSpring) DampingRatio() float64     { return max(s.Zeta, 0) }

func (s *DampedSpring) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	omega, zeta := s.AngularFrequency(), s.DampingRatio()
	pos, vel := x[0], x[1]
	acc := -2*zeta*omega*vel - omega*omega*(pos-u.Target())
	return dynamo.State{vel, acc}
}

// Energy per unit mass of the deviation from the target.
func (s *DampedSpring) Energy(x dynamo.State, u dynamo.Control) float64 {
	omega := s.AngularFrequency()
	dev := x[0] - u.Target()
	return 0.5*x[1]*x[1] + 0.5*omega*omega*dev*dev
}

func (s *DampedSpring) GetParams() map[string]float64 {
	return map[string]float64{
		"omega": s.Omega,
		"zeta":  s.Zeta,
	}
}

func (s *DampedSpring) SetParam(name string, value float64) error {
	switch name {
	case "omega":
		s.Omega = value
	case "zeta":
		s.Zeta = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
