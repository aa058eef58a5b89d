package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// TrackingError is the RMS distance between position and target.
type TrackingError struct {
	name    string
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{
		name: "tracking_rms",
	}
}

func (e *TrackingError) Name() string {
	return e.name
}

func (e *TrackingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	dev := x[0] - u.Target()
	e.sumSq += dev * dev
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}
