// Package config loads a simulation run's configuration — workload,
// policy, time quantum — from a YAML file via Viper.
//
// The two-step decode (Viper into an untyped envelope, re-marshal to
// YAML, unmarshal into the typed struct) mirrors the teacher's
// reinforcement.FromYaml, which exists because Viper's own Unmarshal
// doesn't always round-trip nested slices of structs cleanly through
// mapstructure; going via yaml.v3 sidesteps that.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"schedsim/internal/process"
)

// ProcessConfig is one workload entry as it appears in YAML.
type ProcessConfig struct {
	Arrival  int `mapstructure:"arrival" yaml:"arrival"`
	Burst    int `mapstructure:"burst" yaml:"burst"`
	Priority int `mapstructure:"priority" yaml:"priority"`
}

// RunConfig is a complete simulation run: which policy, what quantum,
// and the workload to feed it.
type RunConfig struct {
	Policy      string          `mapstructure:"policy" yaml:"policy"`
	TimeQuantum int             `mapstructure:"timeQuantum" yaml:"timeQuantum"`
	Processes   []ProcessConfig `mapstructure:"processes" yaml:"processes"`
}

// Specs converts the loaded workload into engine-ready process specs.
func (c *RunConfig) Specs() []process.Spec {
	specs := make([]process.Spec, len(c.Processes))
	for i, p := range c.Processes {
		specs[i] = process.Spec{Arrival: p.Arrival, Burst: p.Burst, Priority: p.Priority}
	}
	return specs
}

// Load reads a RunConfig from a YAML file at path.
func Load(path string) (*RunConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	spec, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal %s: %w", path, err)
	}

	cfg := &RunConfig{TimeQuantum: 2}
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	// Viper lower-cases keys, so the camel-case timeQuantum key does not
	// survive the round trip above; read it through Viper directly.
	if vp.IsSet("timeQuantum") {
		cfg.TimeQuantum = vp.GetInt("timeQuantum")
	}
	if cfg.TimeQuantum < 1 {
		cfg.TimeQuantum = 1
	}
	if cfg.Policy == "" {
		cfg.Policy = "FCFS"
	}

	return cfg, nil
}

// Demo returns a small built-in workload for the CLI when no config file
// is given — the scenario 1 workload from the spec's worked examples.
func Demo() *RunConfig {
	return &RunConfig{
		Policy:      "FCFS",
		TimeQuantum: 2,
		Processes: []ProcessConfig{
			{Arrival: 0, Burst: 5, Priority: 0},
			{Arrival: 1, Burst: 3, Priority: 0},
			{Arrival: 2, Burst: 8, Priority: 0},
		},
	}
}
