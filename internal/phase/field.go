// Package phase samples the stock/local-storage state space: the vector
// field of the update equations at a fixed usage rate, and a run's
// trajectory through it.
package phase

import (
	"fmt"
	"math"

	"panic-buying/internal/model"
	"panic-buying/internal/simulate"
)

// Grid bounds the sampled region. Zero values take the defaults below.
type Grid struct {
	StockMin    float64 `json:"stock_min"`
	StockMax    float64 `json:"stock_max"`
	StockPoints int     `json:"stock_points"`
	LocalMin    float64 `json:"local_min"`
	LocalMax    float64 `json:"local_max"`
	LocalPoints int     `json:"local_points"`
}

const (
	defaultStockMin    = 0.05
	defaultStockMax    = 1.0
	defaultStockPoints = 25
	defaultLocalMin    = 0.05
	defaultLocalPoints = 35
	// Local storage axis extends to at least 1.5 or 10% past the trajectory.
	defaultLocalMax    = 1.5
	trajectoryHeadroom = 1.1
)

// DefaultGrid sizes the local-storage axis to fit the trajectory, if any.
func DefaultGrid(r *simulate.Result) Grid {
	localMax := defaultLocalMax
	if r != nil {
		for _, l := range r.Local() {
			localMax = math.Max(localMax, l*trajectoryHeadroom)
		}
	}
	return Grid{
		StockMin:    defaultStockMin,
		StockMax:    defaultStockMax,
		StockPoints: defaultStockPoints,
		LocalMin:    defaultLocalMin,
		LocalMax:    localMax,
		LocalPoints: defaultLocalPoints,
	}
}

func (g Grid) withDefaults() Grid {
	d := DefaultGrid(nil)
	if g.StockPoints == 0 {
		g.StockMin, g.StockMax, g.StockPoints = d.StockMin, d.StockMax, d.StockPoints
	}
	if g.LocalPoints == 0 {
		g.LocalMin, g.LocalMax, g.LocalPoints = d.LocalMin, d.LocalMax, d.LocalPoints
	}
	return g
}

func (g Grid) validate() error {
	if g.StockPoints < 2 || g.LocalPoints < 2 {
		return model.NewConfigError("grid", "needs at least 2 points per axis")
	}
	if !(g.StockMin > 0) || g.StockMax <= g.StockMin {
		return model.NewConfigError("grid", "stock range must satisfy 0 < min < max")
	}
	if g.LocalMin < 0 || g.LocalMax <= g.LocalMin {
		return model.NewConfigError("grid", "local range must satisfy 0 <= min < max")
	}
	return nil
}

// Vector is one arrow of the field: the per-step change at (Local, Stock).
type Vector struct {
	Local  float64 `json:"local"`
	Stock  float64 `json:"stock"`
	DLocal float64 `json:"d_local"`
	DStock float64 `json:"d_stock"`
}

// Field is a row-major sample, LocalPoints rows of StockPoints vectors.
type Field struct {
	Rate    float64  `json:"rate"`
	Grid    Grid     `json:"grid"`
	Vectors []Vector `json:"vectors"`
}

// VectorField samples the update equations on the grid for a constant daily
// usage rate. Consumption is clipped to [0, stock] exactly as in a run.
func VectorField(p model.Params, rate float64, g Grid) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, model.NewConfigError("rate", fmt.Sprintf("must be > 0, got %g", rate))
	}
	g = g.withDefaults()
	if err := g.validate(); err != nil {
		return nil, err
	}

	stocks := linspace(g.StockMin, g.StockMax, g.StockPoints)
	locals := linspace(g.LocalMin, g.LocalMax, g.LocalPoints)

	f := &Field{Rate: rate, Grid: g, Vectors: make([]Vector, 0, len(stocks)*len(locals))}
	for _, l := range locals {
		for _, s := range stocks {
			st := model.State{Stock: s, Local: l}
			dS, dL := p.Delta(st, p.ComputeFlows(st, rate))
			f.Vectors = append(f.Vectors, Vector{Local: l, Stock: s, DLocal: dL, DStock: dS})
		}
	}
	return f, nil
}

// TrajectoryPoint is one (L, S) sample of a run.
type TrajectoryPoint struct {
	Local float64 `json:"local"`
	Stock float64 `json:"stock"`
}

func Trajectory(r *simulate.Result) []TrajectoryPoint {
	stock, local := r.Stock(), r.Local()
	out := make([]TrajectoryPoint, len(stock))
	for i := range stock {
		out[i] = TrajectoryPoint{Local: local[i], Stock: stock[i]}
	}
	return out
}

// Portrait bundles a run's trajectory with the field at its initial usage rate.
type Portrait struct {
	Trajectory []TrajectoryPoint `json:"trajectory"`
	Field      *Field            `json:"field"`
}

// NewPortrait uses the first step's usage rate for the field.
func NewPortrait(r *simulate.Result, g Grid) (*Portrait, error) {
	if r.Steps() < 1 {
		return nil, fmt.Errorf("run has no derived steps")
	}
	if g == (Grid{}) {
		g = DefaultGrid(r)
	}
	f, err := VectorField(r.Params(), r.Usage()[0], g)
	if err != nil {
		return nil, err
	}
	return &Portrait{Trajectory: Trajectory(r), Field: f}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
