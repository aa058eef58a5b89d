package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/target"
)

// TargetParams configures a target profile. Unused fields are ignored by
// profiles that do not need them.
type TargetParams struct {
	Value     float64
	Amplitude float64
	Period    float64
	At        float64
}

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	targets     map[string]func(TargetParams) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		targets:     make(map[string]func(TargetParams) dynamo.Controller),
	}

	r.integrators["analytic"] = func() dynamo.Integrator { return integrators.NewAnalytic() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	r.targets["constant"] = func(p TargetParams) dynamo.Controller {
		return target.NewConstant(p.Value)
	}
	r.targets["step"] = func(p TargetParams) dynamo.Controller {
		return target.NewStep(0, p.Value, p.At)
	}
	r.targets["sine"] = func(p TargetParams) dynamo.Controller {
		return target.NewSine(p.Value, p.Amplitude, p.Period)
	}
	r.targets["square"] = func(p TargetParams) dynamo.Controller {
		return target.NewSquare(p.Value, p.Amplitude, p.Period)
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: integrator %q", dynamo.ErrUnknownName, name)
	}
	return fn(), nil
}

func (r *Registry) GetTarget(name string, params TargetParams) (dynamo.Controller, error) {
	fn, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: target profile %q", dynamo.ErrUnknownName, name)
	}
	return fn(params), nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListTargets() []string     { return sortedKeys(r.targets) }

// DefaultMetrics returns fresh metrics for one run of dyn.
func (r *Registry) DefaultMetrics(dyn dynamo.System) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewOvershoot(),
		metrics.NewSettlingTime(0.02),
		metrics.NewTrackingError(),
		metrics.NewEnergyGain(dyn),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
