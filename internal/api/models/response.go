package models

import (
	"time"

	"panic-buying/internal/emit"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Status    string              `json:"status"`
	Persisted bool                `json:"persisted"`
	Params    ParamsInfo          `json:"params"`
	Summary   Summary             `json:"summary"`
	Series    *emit.SeriesPayload `json:"series,omitempty"`
}

// ParamsInfo echoes the resolved model parameters
type ParamsInfo struct {
	Day           float64 `json:"day"`
	Week          float64 `json:"week"`
	Duration      float64 `json:"duration"`
	StockCapacity float64 `json:"stock_capacity"`
	InitialStock  float64 `json:"initial_stock"`
	InitialLocal  float64 `json:"initial_local"`
}

// Summary contains aggregated run results
type Summary struct {
	Policy         string  `json:"policy"`
	Points         int     `json:"points"`
	InitialStock   float64 `json:"initial_stock"`
	FinalStock     float64 `json:"final_stock"`
	FinalLocal     float64 `json:"final_local"`
	MinStock       float64 `json:"min_stock"`
	MinStockWeek   float64 `json:"min_stock_week"`
	MaxLocal       float64 `json:"max_local"`
	MaxLocalWeek   float64 `json:"max_local_week"`
	PeakDemand     float64 `json:"peak_demand"`
	PeakDemandWeek float64 `json:"peak_demand_week"`
	ShortageSteps  int     `json:"shortage_steps"`
	HoardingSteps  int     `json:"hoarding_steps"`
	UnmetDemand    float64 `json:"unmet_demand"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Baseline   Summary            `json:"baseline"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name           string  `json:"name"`
	Summary        Summary `json:"summary"`
	MaxStockDip    float64 `json:"max_stock_dip"`
	MaxDipWeek     float64 `json:"max_dip_week"`
	MaxSurplus     float64 `json:"max_local_surplus"`
	MaxSurplusWeek float64 `json:"max_surplus_week"`
}

// RankResponse represents the response from ranking scenario presets
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked scenario
type Ranking struct {
	Rank     int     `json:"rank"`
	Scenario string  `json:"scenario"`
	Summary  Summary `json:"summary"`
}

// RunInfo represents a stored run
type RunInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Policy    string     `json:"policy"`
	Points    int        `json:"points"`
	Params    ParamsInfo `json:"params"`
	CreatedAt time.Time  `json:"created_at"`
}

// ScenarioInfo represents information about a scenario preset
type ScenarioInfo struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	File       string           `json:"file"`
	Policy     string           `json:"policy"`
	Simulation SimulationConfig `json:"simulation"`
}

// PolicyInfo represents information about a usage policy
type PolicyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a policy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "list"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// PhaseResponse is the phase-plane payload: (L, S) trajectory plus vector field
type PhaseResponse struct {
	XLabel     string        `json:"x_label"`
	YLabel     string        `json:"y_label"`
	Rate       float64       `json:"rate"`
	Grid       GridConfig    `json:"grid"`
	Trajectory [][2]float64  `json:"trajectory"` // [local, stock]
	Field      []FieldVector `json:"field"`
}

// FieldVector is one arrow of the vector field
type FieldVector struct {
	Local  float64 `json:"local"`
	Stock  float64 `json:"stock"`
	DLocal float64 `json:"d_local"`
	DStock float64 `json:"d_stock"`
}

// EquilibriumResponse is the analytic fixed point for a constant usage rate
type EquilibriumResponse struct {
	RatePerWeek float64 `json:"rate_per_week"`
	Stock       float64 `json:"stock"`
	Local       float64 `json:"local"`
	Wanted      float64 `json:"wanted"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
