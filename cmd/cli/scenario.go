package main

import (
	"fmt"
	"strings"

	"panic-buying/internal/config"
	"panic-buying/internal/usage"

	"github.com/spf13/cobra"
)

// scenarioFlags are the flags shared by every command that runs a scenario.
// Flags override values loaded from --config.
type scenarioFlags struct {
	configPath    string
	policy        string
	rate          float64
	peakRate      float64
	shockStart    float64
	shockEnd      float64
	day           float64
	weeks         float64
	stockCapacity float64
	initialStock  float64
	initialLocal  float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "scenario YAML file")
	fl.StringVar(&f.policy, "policy", "", "usage policy: constant, shock or schedule")
	fl.Float64Var(&f.rate, "rate", usage.DefaultRatePerWeek, "baseline usage per week")
	fl.Float64Var(&f.peakRate, "peak-rate", usage.DefaultShockRatePerWeek, "usage per week during the shock")
	fl.Float64Var(&f.shockStart, "shock-start", usage.DefaultShockStartWeek, "shock start in weeks (inclusive)")
	fl.Float64Var(&f.shockEnd, "shock-end", usage.DefaultShockEndWeek, "shock end in weeks (exclusive)")
	fl.Float64Var(&f.day, "day", 0, "step length (default 1)")
	fl.Float64Var(&f.weeks, "weeks", 0, "horizon in weeks (default 20)")
	fl.Float64Var(&f.stockCapacity, "stock-capacity", 0, "store stock capacity (default 1)")
	fl.Float64Var(&f.initialStock, "initial-stock", 0, "initial store stock (default 0.6)")
	fl.Float64Var(&f.initialLocal, "initial-local", 0, "initial household storage (default 0.7)")
}

// load builds the scenario from --config plus any flags the user set.
func (f *scenarioFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if f.configPath != "" {
		c, err := config.LoadUnchecked(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	changed := cmd.Flags().Changed
	cfg.Simulation = config.MergeSimulation(cfg.Simulation, config.SimulationConfig{
		Day:           f.day,
		DurationWeeks: f.weeks,
		StockCapacity: f.stockCapacity,
		InitialStock:  f.initialStock,
		InitialLocal:  f.initialLocal,
	})

	// Switching policy drops the file's params; naming the same policy keeps
	// them (schedule windows included) and only flags the user set override.
	if f.policy != "" && !samePolicy(f.policy, cfg.Policy.Name) {
		cfg.Policy = config.PolicyConfig{Name: f.policy}
	}
	if cfg.Policy.Params == nil {
		cfg.Policy.Params = map[string]any{}
	}
	for flag, key := range map[string]string{
		"rate":        "rate_per_week",
		"peak-rate":   "peak_rate_per_week",
		"shock-start": "start_week",
		"shock-end":   "end_week",
	} {
		if !changed(flag) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(flag)
		if err != nil {
			return nil, fmt.Errorf("reading --%s: %w", flag, err)
		}
		cfg.Policy.Params[key] = v
	}
	return cfg, nil
}

func samePolicy(a, b string) bool {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return "constant"
		}
		return s
	}
	return norm(a) == norm(b)
}

// scenarioName picks a display name: explicit, from the file, or the policy.
func scenarioName(explicit string, cfg *config.Config) string {
	switch {
	case explicit != "":
		return explicit
	case cfg.Name != "":
		return cfg.Name
	case cfg.Policy.Name != "":
		return cfg.Policy.Name
	default:
		return "constant"
	}
}
