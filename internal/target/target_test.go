package target

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile dynamo.Controller
		t       float64
		want    float64
	}{
		{"constant", NewConstant(3), 12, 3},
		{"step before", NewStep(0, 10, 1), 0.5, 0},
		{"step at", NewStep(0, 10, 1), 1, 10},
		{"sine zero", NewSine(1, 2, 4), 0, 1},
		{"sine peak", NewSine(1, 2, 4), 1, 3},
		{"sine bad period", NewSine(1, 2, 0), 1, 1},
		{"square high", NewSquare(0, 5, 2), 0.5, 5},
		{"square low", NewSquare(0, 5, 2), 1.5, -5},
		{"square wraps", NewSquare(0, 5, 2), 2.5, 5},
		{"manual", NewManual(-4), 99, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.profile.Compute(nil, tt.t)
			if len(u) != 1 {
				t.Fatalf("expected 1 control, got %d", len(u))
			}
			if math.Abs(u[0]-tt.want) > 1e-12 {
				t.Errorf("target at t=%v = %v, want %v", tt.t, u[0], tt.want)
			}
		})
	}
}

func TestManualNudge(t *testing.T) {
	m := NewManual(0)
	m.Nudge(2.5)
	m.Nudge(-1)
	if got := m.Compute(nil, 0).Target(); got != 1.5 {
		t.Errorf("nudged target = %v, want 1.5", got)
	}
	m.Set(10)
	if got := m.Compute(nil, 0).Target(); got != 10 {
		t.Errorf("set target = %v, want 10", got)
	}
}
