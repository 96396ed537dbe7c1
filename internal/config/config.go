package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"panic-buying/internal/model"
	"panic-buying/internal/usage"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML).
type Config struct {
	Name string `yaml:"name"`
	// Optional: load simulation settings from a separate YAML (e.g. examples/scenarios/*.yaml).
	// If both ScenarioFile and Simulation are provided, Simulation overrides ScenarioFile.
	ScenarioFile string           `yaml:"scenario_file"`
	Simulation   SimulationConfig `yaml:"simulation"`
	Policy       PolicyConfig     `yaml:"policy"`
}

// SimulationConfig mirrors model.Params. Zero values mean "use the default".
// Duration may be given in days or, more conveniently, in weeks.
type SimulationConfig struct {
	Day           float64 `yaml:"day"`
	Week          float64 `yaml:"week"`
	Duration      float64 `yaml:"duration"`
	DurationWeeks float64 `yaml:"duration_weeks"`
	StockCapacity float64 `yaml:"stock_capacity"`
	InitialStock  float64 `yaml:"initial_stock"`
	InitialLocal  float64 `yaml:"initial_local"`
}

type PolicyConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	// If scenario_file is set, load it and merge in any explicit overrides from c.Simulation.
	if c.ScenarioFile != "" {
		scenarioPath := c.ScenarioFile
		if !filepath.IsAbs(scenarioPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), scenarioPath)
			if _, err := os.Stat(cand); err == nil {
				scenarioPath = cand
			}
		}
		base, err := LoadUnchecked(scenarioPath)
		if err != nil {
			return nil, fmt.Errorf("loading scenario file %s: %w", c.ScenarioFile, err)
		}
		c.Simulation = MergeSimulation(base.Simulation, c.Simulation)
		if c.Policy.Name == "" {
			c.Policy = base.Policy
		}
		if c.Name == "" {
			c.Name = base.Name
		}
	}
	return c, nil
}

// Parse decodes YAML without resolving scenario_file.
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &c, nil
}

// Save writes the config as YAML.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	params := c.Simulation.ToModelParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("simulation config invalid: %w", err)
	}
	policy, err := c.Policy.Build()
	if err != nil {
		return fmt.Errorf("policy config invalid: %w: %w", model.ErrInvalidConfig, err)
	}
	if _, err := usage.Sample(policy, params); err != nil {
		return fmt.Errorf("policy config invalid: %w", err)
	}
	return nil
}

// ToModelParams fills unset fields with model defaults.
func (s SimulationConfig) ToModelParams() model.Params {
	p := model.DefaultParams()
	if s.Day != 0 {
		p.Day = s.Day
	}
	// Week follows Day unless set explicitly.
	p.Week = model.DaysPerWeek * p.Day
	if s.Week != 0 {
		p.Week = s.Week
	}
	p.Duration = model.DefaultWeeks * p.Week
	if s.DurationWeeks != 0 {
		p.Duration = s.DurationWeeks * p.Week
	}
	if s.Duration != 0 {
		p.Duration = s.Duration
	}
	if s.StockCapacity != 0 {
		p.StockCapacity = s.StockCapacity
	}
	if s.InitialStock != 0 {
		p.InitialStock = s.InitialStock
	}
	if s.InitialLocal != 0 {
		p.InitialLocal = s.InitialLocal
	}
	return p
}

func (p PolicyConfig) Build() (usage.Policy, error) {
	return usage.Build(p.Name, p.Params)
}

// Resolve returns the validated params and policy of a scenario.
func (c *Config) Resolve() (model.Params, usage.Policy, error) {
	if err := c.Validate(); err != nil {
		return model.Params{}, nil, err
	}
	policy, err := c.Policy.Build()
	if err != nil {
		return model.Params{}, nil, err
	}
	return c.Simulation.ToModelParams(), policy, nil
}

// MergeSimulation overlays non-zero fields from override onto base.
// This is used when loading a scenario file and then applying overrides from the request.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.Day != 0 {
		out.Day = override.Day
	}
	if override.Week != 0 {
		out.Week = override.Week
	}
	if override.Duration != 0 {
		out.Duration = override.Duration
		out.DurationWeeks = 0
	}
	if override.DurationWeeks != 0 {
		out.DurationWeeks = override.DurationWeeks
		out.Duration = 0
	}
	if override.StockCapacity != 0 {
		out.StockCapacity = override.StockCapacity
	}
	// Note: zero initial local storage is physically valid but reads as "unset" here.
	if override.InitialStock != 0 {
		out.InitialStock = override.InitialStock
	}
	if override.InitialLocal != 0 {
		out.InitialLocal = override.InitialLocal
	}
	return out
}
