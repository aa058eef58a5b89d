// Package field steps many independent springs that share one coefficient
// set, e.g. the bars of a visualizer or the particles of a UI effect.
package field

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/san-kum/springsim/internal/spring"
)

// MinChunk is the smallest slice of springs handed to one worker.
const MinChunk = 4096

var ErrTargetLength = errors.New("field: target count does not match spring count")

// Field owns the (position, velocity) pairs. The coefficients are only read.
type Field[F constraints.Float] struct {
	coeffs spring.Coefficients[F]
	Pos    []F
	Vel    []F
}

func New[F constraints.Float](coeffs spring.Coefficients[F], n int) *Field[F] {
	return &Field[F]{
		coeffs: coeffs,
		Pos:    make([]F, n),
		Vel:    make([]F, n),
	}
}

func (f *Field[F]) Len() int { return len(f.Pos) }

// Coefficients returns the shared coefficient set.
func (f *Field[F]) Coefficients() spring.Coefficients[F] { return f.coeffs }

// Retune swaps in coefficients derived for new parameters. Positions and
// velocities carry over.
func (f *Field[F]) Retune(coeffs spring.Coefficients[F]) {
	f.coeffs = coeffs
}

// Resize grows or shrinks the field, keeping existing springs. New springs
// start at rest at zero.
func (f *Field[F]) Resize(n int) {
	if len(f.Pos) == n {
		return
	}
	pos := make([]F, n)
	vel := make([]F, n)
	copy(pos, f.Pos)
	copy(vel, f.Vel)
	f.Pos, f.Vel = pos, vel
}

// Step advances every spring one tick toward a common target.
func (f *Field[F]) Step(target F) {
	ParallelFor(len(f.Pos), MinChunk, func(start, end int) {
		c := f.coeffs
		for i := start; i < end; i++ {
			c.Update(&f.Pos[i], &f.Vel[i], target)
		}
	})
}

// StepTargets advances spring i toward targets[i].
func (f *Field[F]) StepTargets(targets []F) error {
	if len(targets) != len(f.Pos) {
		return fmt.Errorf("%w: %d targets for %d springs", ErrTargetLength, len(targets), len(f.Pos))
	}

	ParallelFor(len(f.Pos), MinChunk, func(start, end int) {
		c := f.coeffs
		for i := start; i < end; i++ {
			c.Update(&f.Pos[i], &f.Vel[i], targets[i])
		}
	})
	return nil
}

// Settled reports whether every spring is within tol of target and moving
// slower than tol.
func (f *Field[F]) Settled(target, tol F) bool {
	for i := range f.Pos {
		if abs(f.Pos[i]-target) > tol || abs(f.Vel[i]) > tol {
			return false
		}
	}
	return true
}

func abs[F constraints.Float](x F) F {
	if x < 0 {
		return -x
	}
	return x
}
