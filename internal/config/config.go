package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt               = 1.0 / 60
	DefaultDuration         = 5.0
	DefaultAngularFrequency = 6.0
	DefaultDampingRatio     = 0.5
	DefaultTarget           = 1.0
)

type Config struct {
	Spring     SpringConfig    `yaml:"spring"`
	Integrator string          `yaml:"integrator"`
	Precision  string          `yaml:"precision"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	InitState  InitStateConfig `yaml:"init_state"`
	Target     TargetConfig    `yaml:"target"`
}

// SpringConfig holds the physical parameters. Negative values are not an
// error; they are clamped to zero when coefficients are derived.
type SpringConfig struct {
	AngularFrequency float64 `yaml:"angular_frequency"`
	DampingRatio     float64 `yaml:"damping_ratio"`
}

type InitStateConfig struct {
	Pos float64 `yaml:"pos"`
	Vel float64 `yaml:"vel"`
}

type TargetConfig struct {
	Profile   string  `yaml:"profile"`
	Value     float64 `yaml:"value"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	At        float64 `yaml:"at"`
}

func DefaultConfig() *Config {
	return &Config{
		Spring: SpringConfig{
			AngularFrequency: DefaultAngularFrequency,
			DampingRatio:     DefaultDampingRatio,
		},
		Integrator: "analytic",
		Precision:  "float64",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Target: TargetConfig{
			Profile: "constant",
			Value:   DefaultTarget,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings. Spring parameters are left alone;
// negative values clamp to zero downstream.
func (c *Config) Validate() error {
	switch c.Precision {
	case "float32", "float64":
	default:
		return fmt.Errorf("precision must be float32 or float64, got %q", c.Precision)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	return nil
}

func (c *Config) GetInitState() []float64 {
	return []float64{c.InitState.Pos, c.InitState.Vel}
}
