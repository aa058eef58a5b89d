package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"analytic", "euler", "rk4", "verlet"} {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("integrator %s: %v", name, err)
		}
	}
	for _, name := range []string{"constant", "step", "sine", "square"} {
		if _, err := r.GetTarget(name, TargetParams{Value: 1, Period: 1}); err != nil {
			t.Errorf("target %s: %v", name, err)
		}
	}

	if _, err := r.GetIntegrator("rk45"); !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
	if _, err := r.GetTarget("zigzag", TargetParams{}); !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}

	if got := r.ListTargets(); len(got) != 4 || got[0] != "constant" || got[3] != "step" {
		t.Errorf("unexpected target list %v", got)
	}
	if got := r.ListIntegrators(); len(got) != 4 || got[0] != "analytic" {
		t.Errorf("unexpected integrator list %v", got)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := Config{
		AngularFrequency: 10,
		DampingRatio:     10,
		Integrator:       "analytic",
		Target:           "constant",
		TargetParams:     TargetParams{Value: 100},
		InitState:        []float64{0, 0},
		Dt:               1,
		Duration:         10,
	}
	if cfg.Regime() != spring.OverDamped {
		t.Fatalf("expected over-damped, got %v", cfg.Regime())
	}

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	final := result.States[len(result.States)-1][0]
	if math.Abs(final-99.33294112386378) > 1e-9 {
		t.Errorf("final position %.12f does not match the closed form", final)
	}
	if result.Metrics["overshoot"] != 0 {
		t.Errorf("over-damped spring overshot: %v", result.Metrics["overshoot"])
	}
}

func TestStepTargetOvershoot(t *testing.T) {
	exp := New(Config{
		AngularFrequency: 8,
		DampingRatio:     0.2,
		Integrator:       "analytic",
		Target:           "step",
		TargetParams:     TargetParams{Value: 1, At: 1},
		InitState:        []float64{0, 0},
		Dt:               0.01,
		Duration:         4,
	})
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// exp(-πζ/√(1-ζ²)) ≈ 0.527 for ζ = 0.2
	if got := result.Metrics["overshoot"]; got < 0.45 || got > 0.55 {
		t.Errorf("overshoot after a delayed step = %v, want about 0.53", got)
	}
}
