package model

import "math"

// State is the pair of carried state variables.
type State struct {
	Stock float64 // S: store stock
	Local float64 // L: household local storage
}

// Flows are the per-step derived quantities. They are not carried forward.
type Flows struct {
	Usage       float64 // U
	Wanted      float64 // W
	Demand      float64 // D
	Consumption float64 // C
}

// StepResult captures what happened in one step.
type StepResult struct {
	Flows
	Start State
	Next  State
}

// ComputeFlows evaluates the usage/wanted/demand/consumption chain for one
// state. Stock must be > 0; callers that cannot guarantee it use Advance.
func (p Params) ComputeFlows(s State, usage float64) Flows {
	// Wanted buffer grows as shelves empty.
	wanted := (p.StockCapacity / s.Stock) * usage * p.Week
	demand := math.Max(0, (wanted-s.Local)/p.Week+usage)
	return Flows{
		Usage:       usage,
		Wanted:      wanted,
		Demand:      demand,
		Consumption: math.Min(s.Stock, demand),
	}
}

// Delta returns the per-step increments of stock and local storage.
// Replenishment toward capacity has a one-week time constant and does not
// depend on consumption.
func (p Params) Delta(s State, f Flows) (dStock, dLocal float64) {
	next := p.next(s, f)
	return next.Stock - s.Stock, next.Local - s.Local
}

// next is the only place the update equations are written down. Delta is
// derived from it so runs keep the literal evaluation order.
func (p Params) next(s State, f Flows) State {
	return State{
		Stock: s.Stock - p.Day*f.Consumption + p.Day*(p.StockCapacity-s.Stock)/p.Week,
		Local: s.Local + p.Day*f.Consumption - p.Day*f.Usage,
	}
}

// Advance applies one forward-Euler step from s. step is only used for
// error reporting.
func (p Params) Advance(step int, s State, usage float64) (StepResult, error) {
	if !(s.Stock > 0) || math.IsInf(s.Stock, 0) {
		return StepResult{}, &StockDepletedError{Step: step, Time: p.TimeAt(step), Stock: s.Stock}
	}
	f := p.ComputeFlows(s, usage)
	return StepResult{Flows: f, Start: s, Next: p.next(s, f)}, nil
}
