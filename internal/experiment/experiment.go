package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/spring"
)

type Config struct {
	AngularFrequency float64
	DampingRatio     float64
	Integrator       string
	Target           string
	TargetParams     TargetParams
	InitState        []float64
	Dt               float64
	Duration         float64
}

// Regime classifies the configured spring the same way spring.New will.
func (c Config) Regime() spring.Regime {
	return spring.Classify(c.AngularFrequency, c.DampingRatio)
}

type Experiment struct {
	cfg       Config
	dyn       *physics.DampedSpring
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the named integrator and target profile and attaches the
// default metrics.
func (e *Experiment) Setup(r *Registry) error {
	integ, err := r.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	targets, err := r.GetTarget(e.cfg.Target, e.cfg.TargetParams)
	if err != nil {
		return err
	}

	e.dyn = physics.NewDampedSpring(e.cfg.AngularFrequency, e.cfg.DampingRatio)
	e.simulator = sim.New(e.dyn, integ, targets)
	for _, m := range r.DefaultMetrics(e.dyn) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make(dynamo.State, len(e.cfg.InitState))
	copy(x0, e.cfg.InitState)

	return e.simulator.Run(ctx, x0, dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	})
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
