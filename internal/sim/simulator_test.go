package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/target"
)

func newSpringSim(omega, zeta, goal float64) *Simulator {
	return New(physics.NewDampedSpring(omega, zeta), integrators.NewAnalytic(), target.NewConstant(goal))
}

func TestSimulatorRun(t *testing.T) {
	s := newSpringSim(8.0, 1.0, 5.0)
	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0}

	result, err := s.Run(context.Background(), dynamo.State{0, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 || len(result.Controls) != 11 {
		t.Errorf("expected 11 times and controls, got %d and %d", len(result.Times), len(result.Controls))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if math.Abs(result.Times[10]-1.0) > 1e-12 {
		t.Errorf("final time %v, want 1.0", result.Times[10])
	}

	final := result.States[len(result.States)-1][0]
	if final <= 4.9 || final > 5.0 {
		t.Errorf("critically damped spring should approach 5 from below, got %.6f", final)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := newSpringSim(1, 1, 0)

	tests := []struct {
		name string
		x0   dynamo.State
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.State{0, 0}, dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.State{0, 0}, dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 0}},
		{"short state", dynamo.State{0}, dynamo.Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.x0, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	_, err := s.Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                                        { return "count" }
func (c *countMetric) Observe(x dynamo.State, u dynamo.Control, t float64) { c.count++ }
func (c *countMetric) Value() float64                                      { return float64(c.count) }
func (c *countMetric) Reset()                                              { c.count = 0 }

func TestSimulatorKeepsLastTick(t *testing.T) {
	s := newSpringSim(5, 0.5, 1)

	// 0.3/0.1 is just below 3 in float64
	result, err := s.Run(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps, got %d", result.StepsTaken)
	}
	if last := result.Times[len(result.Times)-1]; math.Abs(last-0.3) > 1e-12 {
		t.Errorf("final time %v, want 0.3", last)
	}

	calls := 0
	err = s.RunWithCallback(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 0.3}, func(dynamo.State, dynamo.Control, float64) bool {
		calls++
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
}

func TestSimulatorMetrics(t *testing.T) {
	s := newSpringSim(5, 0.5, 1)
	metric := &countMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["count"] != 11 {
		t.Errorf("expected 11 observations, got %v", result.Metrics["count"])
	}
}

type exploding struct{}

func (e *exploding) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return dynamo.State{math.Inf(1), 0}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	s := New(physics.NewDefaultSpring(), &exploding{}, target.NewConstant(0))
	result, err := s.Run(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected one ErrInvalidState, got %v", result.Errors)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected 0 steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSpringSim(1, 1, 1).Run(ctx, dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunWithCallback(t *testing.T) {
	s := newSpringSim(4, 0.2, 1)
	calls := 0
	err := s.RunWithCallback(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.1, Duration: 10}, func(x dynamo.State, u dynamo.Control, t float64) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected callback to stop the run after 5 calls, got %d", calls)
	}
}

func TestSweep(t *testing.T) {
	zetas := []float64{0.2, 1.0, 3.0}
	sweep := NewSweep(len(zetas), func(i int) *Simulator {
		return newSpringSim(6, zetas[i], 1)
	})

	results, err := sweep.Run(context.Background(), dynamo.State{0, 0}, dynamo.Config{Dt: 0.01, Duration: 1})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != len(zetas) {
		t.Fatalf("expected %d results, got %d", len(zetas), len(results))
	}

	peak := func(r *dynamo.Result) float64 {
		m := 0.0
		for _, s := range r.States {
			m = math.Max(m, s[0])
		}
		return m
	}
	if peak(results[0]) <= 1.0 {
		t.Error("under-damped run should overshoot the target")
	}
	if peak(results[1]) > 1.0 || peak(results[2]) > 1.0 {
		t.Error("critically and over-damped runs must not overshoot")
	}
}
