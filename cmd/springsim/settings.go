package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
)

// resolveConfig layers the run settings: defaults, then the preset, then the
// config file, then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		log.Printf("preset %s", preset)
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		log.Printf("config %s", configFile)
		cfg = fileCfg
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("omega") {
		cfg.Spring.AngularFrequency = omega
	}
	if changed("zeta") {
		cfg.Spring.DampingRatio = zeta
	}
	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("time") {
		cfg.Duration = duration
	}
	if changed("pos") {
		cfg.InitState.Pos = pos
	}
	if changed("vel") {
		cfg.InitState.Vel = vel
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	if changed("precision") {
		cfg.Precision = precision
	}
	if changed("profile") {
		cfg.Target.Profile = profile
	}
	if changed("target") {
		cfg.Target.Value = goal
	}
	if changed("amplitude") {
		cfg.Target.Amplitude = amplitude
	}
	if changed("period") {
		cfg.Target.Period = period
	}
	if changed("at") {
		cfg.Target.At = stepAt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// precisionMetric returns the float32 shadow metric for float32 runs. It is
// only meaningful against the analytic integrator; with any other the gap
// would be dominated by integration error.
func precisionMetric(cfg *config.Config) dynamo.Metric {
	if cfg.Precision != "float32" || cfg.Integrator != "analytic" {
		return nil
	}
	dyn := physics.NewDampedSpring(cfg.Spring.AngularFrequency, cfg.Spring.DampingRatio)
	return metrics.NewPrecisionDrift(dyn, cfg.Dt)
}

func experimentConfig(cfg *config.Config) experiment.Config {
	return experiment.Config{
		AngularFrequency: cfg.Spring.AngularFrequency,
		DampingRatio:     cfg.Spring.DampingRatio,
		Integrator:       cfg.Integrator,
		Target:           cfg.Target.Profile,
		TargetParams: experiment.TargetParams{
			Value:     cfg.Target.Value,
			Amplitude: cfg.Target.Amplitude,
			Period:    cfg.Target.Period,
			At:        cfg.Target.At,
		},
		InitState: cfg.GetInitState(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
	}
}
