package spring

import "golang.org/x/exp/constraints"

// Coefficients is the 2x2 matrix that maps (position - target, velocity)
// at one tick to the same pair one dt later. A value is only valid for the
// (dt, ω, ζ) it was derived from; the target is free to change per call.
type Coefficients[F constraints.Float] struct {
	posPos, posVel F
	velPos, velVel F
}

// New derives the coefficients for a fixed time step. Negative angular
// frequency or damping ratio are clamped to zero. There is no error path:
// a zero or negative deltaTime yields a degenerate but finite matrix.
func New[F constraints.Float](deltaTime, angularFrequency, dampingRatio F) Coefficients[F] {
	angularFrequency = clampNonNegative(angularFrequency)
	dampingRatio = clampNonNegative(dampingRatio)

	switch Classify(angularFrequency, dampingRatio) {
	case NoStiffness:
		return Coefficients[F]{posPos: 1, posVel: 0, velPos: 0, velVel: 1}
	case OverDamped:
		return overDamped(deltaTime, angularFrequency, dampingRatio)
	case UnderDamped:
		return underDamped(deltaTime, angularFrequency, dampingRatio)
	default:
		return criticallyDamped(deltaTime, angularFrequency)
	}
}

// overDamped: two real decay rates z1 < z2 < 0. zb > 0 because ζ > 1+ε.
func overDamped[F constraints.Float](dt, omega, zeta F) Coefficients[F] {
	za := -omega * zeta
	zb := omega * sqrt(zeta*zeta-1)
	z1 := za - zb
	z2 := za + zb

	e1 := exp(z1 * dt)
	e2 := exp(z2 * dt)

	invTwoZb := 1 / (2 * zb)
	e1OverTwoZb := e1 * invTwoZb
	e2OverTwoZb := e2 * invTwoZb
	z1e1OverTwoZb := z1 * e1OverTwoZb
	z2e2OverTwoZb := z2 * e2OverTwoZb

	return Coefficients[F]{
		posPos: e1OverTwoZb*z2 - z2e2OverTwoZb + e2,
		posVel: -e1OverTwoZb + e2OverTwoZb,
		velPos: (z1e1OverTwoZb - z2e2OverTwoZb + e2) * z2,
		velVel: -z1e1OverTwoZb + z2e2OverTwoZb,
	}
}

// underDamped: decaying oscillation at the damped frequency alpha > 0.
func underDamped[F constraints.Float](dt, omega, zeta F) Coefficients[F] {
	omegaZeta := omega * zeta
	alpha := omega * sqrt(1-zeta*zeta)

	expTerm := exp(-omegaZeta * dt)
	cosTerm := cos(alpha * dt)
	sinTerm := sin(alpha * dt)

	invAlpha := 1 / alpha
	expSin := expTerm * sinTerm
	expCos := expTerm * cosTerm
	expOmegaZetaSinOverAlpha := expTerm * omegaZeta * sinTerm * invAlpha

	return Coefficients[F]{
		posPos: expCos + expOmegaZetaSinOverAlpha,
		posVel: expSin * invAlpha,
		velPos: -expSin*alpha - omegaZeta*expOmegaZetaSinOverAlpha,
		velVel: expCos - expOmegaZetaSinOverAlpha,
	}
}

// criticallyDamped: repeated root -omega, no division.
func criticallyDamped[F constraints.Float](dt, omega F) Coefficients[F] {
	expTerm := exp(-omega * dt)
	timeExp := dt * expTerm
	timeExpFreq := timeExp * omega

	return Coefficients[F]{
		posPos: timeExpFreq + expTerm,
		posVel: timeExp,
		velPos: -omega * timeExpFreq,
		velVel: -timeExpFreq + expTerm,
	}
}

// Matrix returns the four coefficients in row order.
func (c Coefficients[F]) Matrix() (posPos, posVel, velPos, velVel F) {
	return c.posPos, c.posVel, c.velPos, c.velVel
}

// Update advances position and velocity in place by one time step toward
// target.
func (c Coefficients[F]) Update(position, velocity *F, target F) {
	*position, *velocity = c.Step(*position, *velocity, target)
}

// Step is the value form of Update.
func (c Coefficients[F]) Step(position, velocity, target F) (F, F) {
	oldPos := position - target
	oldVel := velocity

	return oldPos*c.posPos + oldVel*c.posVel + target,
		oldPos*c.velPos + oldVel*c.velVel
}
