package spring

import (
	"math"
	"time"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Epsilon returns the machine epsilon of F: the gap between 1 and the next
// representable value.
func Epsilon[F constraints.Float]() F {
	var zero F
	if unsafe.Sizeof(zero) == 4 {
		return F(math.Nextafter32(1, 2) - 1)
	}
	return F(math.Nextafter(1, 2) - 1)
}

// FPS returns the time step of a single frame at n frames per second.
func FPS(n int) float64 {
	return (time.Second / time.Duration(n)).Seconds()
}

// Go only ships float64 transcendentals; float32 callers get the float64
// result rounded once to their precision.

func sqrt[F constraints.Float](x F) F { return F(math.Sqrt(float64(x))) }
func exp[F constraints.Float](x F) F  { return F(math.Exp(float64(x))) }
func sin[F constraints.Float](x F) F  { return F(math.Sin(float64(x))) }
func cos[F constraints.Float](x F) F  { return F(math.Cos(float64(x))) }

func clampNonNegative[F constraints.Float](x F) F {
	if x < 0 {
		return 0
	}
	return x
}
