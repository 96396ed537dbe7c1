package model

import (
	"fmt"
	"math"
)

// Defaults reproduce the reference scenario: 20 weeks on a daily grid,
// store 60% stocked and households slightly above that.
const (
	DefaultDay           = 1.0
	DaysPerWeek          = 7.0
	DefaultWeeks         = 20.0
	DefaultStockCapacity = 1.0
	DefaultInitialStock  = 0.6
	DefaultInitialLocal  = 0.7
)

// MaxPoints bounds the grid so every run fits in memory. A run allocates
// six float64 series of this length.
const MaxPoints = 10_000_000

// Params defines the time grid, store capacity and initial conditions.
// Units:
// - Day, Week, Duration: model time units (Day is 1 by convention)
// - StockCapacity: nominal store capacity (1 by convention)
// - InitialStock, InitialLocal: fractions of nominal capacity
type Params struct {
	Day           float64
	Week          float64
	Duration      float64
	StockCapacity float64
	InitialStock  float64
	InitialLocal  float64
}

func DefaultParams() Params {
	return Params{
		Day:           DefaultDay,
		Week:          DaysPerWeek * DefaultDay,
		Duration:      DefaultWeeks * DaysPerWeek * DefaultDay,
		StockCapacity: DefaultStockCapacity,
		InitialStock:  DefaultInitialStock,
		InitialLocal:  DefaultInitialLocal,
	}
}

func (p Params) Validate() error {
	if !finite(p.Day) || p.Day <= 0 {
		return configErr("day", "must be > 0")
	}
	if !finite(p.Week) || p.Week <= 0 {
		return configErr("week", "must be > 0")
	}
	if !finite(p.Duration) || p.Duration <= p.Day {
		return configErr("duration", "must be > day")
	}
	if p.Duration/p.Day > MaxPoints {
		return configErr("duration", fmt.Sprintf("must be at most %d steps of day, got %g", MaxPoints, p.Duration/p.Day))
	}
	if !finite(p.StockCapacity) || p.StockCapacity <= 0 {
		return configErr("stock_capacity", "must be > 0")
	}
	if !finite(p.InitialStock) || p.InitialStock <= 0 {
		return configErr("initial_stock", "must be > 0")
	}
	if !finite(p.InitialLocal) || p.InitialLocal < 0 {
		return configErr("initial_local", "must be >= 0")
	}
	return nil
}

// Points returns the number of grid points n. The grid is t_i = i*Day for
// every t_i < Duration, so n = ceil(Duration/Day). It returns 0 when the
// grid is empty, undefined or longer than MaxPoints.
func (p Params) Points() int {
	n := math.Ceil(p.Duration / p.Day)
	if !(n > 0) || n > MaxPoints {
		return 0
	}
	return int(n)
}

// TimeAt returns t_i.
func (p Params) TimeAt(i int) float64 {
	return float64(i) * p.Day
}

// Initial returns the state at t_0.
func (p Params) Initial() State {
	return State{Stock: p.InitialStock, Local: p.InitialLocal}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
