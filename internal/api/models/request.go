package models

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Name     string          `json:"name,omitempty"`
	Scenario ScenarioConfig  `json:"scenario"`
	Options  SimulateOptions `json:"options,omitempty"`
}

// ScenarioConfig selects a preset and/or overrides its settings.
// Explicit Simulation fields override the preset; a named Policy replaces it.
type ScenarioConfig struct {
	ScenarioID string           `json:"scenario_id,omitempty"` // file name in SCENARIO_DIR without .yaml
	Simulation SimulationConfig `json:"simulation,omitempty"`
	Policy     PolicyConfig     `json:"policy,omitempty"`
}

// SimulationConfig defines the time grid and initial conditions. Zero means default.
type SimulationConfig struct {
	Day           float64 `json:"day,omitempty"`
	Week          float64 `json:"week,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	DurationWeeks float64 `json:"duration_weeks,omitempty"`
	StockCapacity float64 `json:"stock_capacity,omitempty"`
	InitialStock  float64 `json:"initial_stock,omitempty"`
	InitialLocal  float64 `json:"initial_local,omitempty"`
}

// PolicyConfig defines the usage policy and its parameters
type PolicyConfig struct {
	Name   string                 `json:"name,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeSeries bool `json:"include_series,omitempty"` // default: false
	Persist       bool `json:"persist,omitempty"`        // store in the run database
}

// CompareRequest represents a request to compare scenarios against a baseline
type CompareRequest struct {
	Baseline   ScenarioConfig `json:"baseline"`
	Variations []Variation    `json:"variations" binding:"required,min=1,dive"`
}

// Variation defines a scenario to compare; it is merged over the baseline
type Variation struct {
	Name     string         `json:"name" binding:"required"`
	Scenario ScenarioConfig `json:"scenario"`
}

// PhaseRequest asks for the phase portrait of a scenario
type PhaseRequest struct {
	Scenario ScenarioConfig `json:"scenario"`
	Grid     GridConfig     `json:"grid,omitempty"`
}

// GridConfig bounds the sampled state space. Zero counts take the defaults.
type GridConfig struct {
	StockMin    float64 `json:"stock_min,omitempty"`
	StockMax    float64 `json:"stock_max,omitempty"`
	StockPoints int     `json:"stock_points,omitempty"`
	LocalMin    float64 `json:"local_min,omitempty"`
	LocalMax    float64 `json:"local_max,omitempty"`
	LocalPoints int     `json:"local_points,omitempty"`
}

// EquilibriumRequest represents the query of GET /equilibrium
type EquilibriumRequest struct {
	RatePerWeek   float64 `form:"rate_per_week"`
	Day           float64 `form:"day"`
	Week          float64 `form:"week"`
	StockCapacity float64 `form:"stock_capacity"`
}

// RankRequest represents the query of GET /rank
type RankRequest struct {
	Limit int `form:"limit,omitempty"` // default: all presets
}

// ListRunsRequest represents the query of GET /runs
type ListRunsRequest struct {
	Limit int `form:"limit,omitempty"` // default: 50
}
