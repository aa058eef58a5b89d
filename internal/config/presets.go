package config

import "sort"

func preset(omega, zeta float64, init InitStateConfig, tgt TargetConfig) *Config {
	cfg := DefaultConfig()
	cfg.Spring = SpringConfig{AngularFrequency: omega, DampingRatio: zeta}
	cfg.InitState = init
	cfg.Target = tgt
	return cfg
}

// Presets cover each regime once plus a couple of moving targets.
var Presets = map[string]*Config{
	"snappy":   preset(12.0, 1.0, InitStateConfig{}, TargetConfig{Profile: "constant", Value: 1}),
	"bouncy":   preset(8.0, 0.2, InitStateConfig{}, TargetConfig{Profile: "constant", Value: 1}),
	"critical": preset(6.0, 1.0, InitStateConfig{}, TargetConfig{Profile: "constant", Value: 1}),
	"sluggish": preset(6.0, 3.0, InitStateConfig{}, TargetConfig{Profile: "constant", Value: 1}),
	"undamped": preset(4.0, 0.0, InitStateConfig{Pos: 1}, TargetConfig{Profile: "constant", Value: 0}),
	"inert":    preset(0.0, 1.0, InitStateConfig{Pos: 0.5, Vel: 0}, TargetConfig{Profile: "constant", Value: 1}),
	"follow":   preset(10.0, 0.7, InitStateConfig{}, TargetConfig{Profile: "sine", Value: 0, Amplitude: 1, Period: 2}),
	"toggle":   preset(10.0, 0.4, InitStateConfig{}, TargetConfig{Profile: "square", Value: 0, Amplitude: 1, Period: 2}),
	"demo": {
		Spring:     SpringConfig{AngularFrequency: 10, DampingRatio: 10},
		Integrator: "analytic",
		Precision:  "float64",
		Dt:         1,
		Duration:   10,
		Target:     TargetConfig{Profile: "constant", Value: 100},
	},
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
