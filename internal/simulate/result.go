package simulate

import (
	"fmt"
	"slices"

	"panic-buying/internal/model"
)

// Result holds the six aligned series of one run. It is immutable once
// returned: accessors hand out copies.
//
// All series have Len() entries. U, W, C and D are only computed for the
// first Steps() = Len()-1 indices; their final entry is zero.
type Result struct {
	params model.Params
	policy string

	time        []float64
	stock       []float64
	local       []float64
	usage       []float64
	wanted      []float64
	consumption []float64
	demand      []float64
}

func newResult(params model.Params, policy string, n int) *Result {
	r := &Result{
		params:      params,
		policy:      policy,
		time:        make([]float64, n),
		stock:       make([]float64, n),
		local:       make([]float64, n),
		usage:       make([]float64, n),
		wanted:      make([]float64, n),
		consumption: make([]float64, n),
		demand:      make([]float64, n),
	}
	for i := range r.time {
		r.time[i] = params.TimeAt(i)
	}
	return r
}

func (r *Result) Params() model.Params { return r.params }
func (r *Result) Policy() string       { return r.policy }
func (r *Result) Len() int             { return len(r.time) }

// Steps is the number of indices with derived values.
func (r *Result) Steps() int { return len(r.time) - 1 }

func (r *Result) Time() []float64        { return slices.Clone(r.time) }
func (r *Result) Stock() []float64       { return slices.Clone(r.stock) }
func (r *Result) Local() []float64       { return slices.Clone(r.local) }
func (r *Result) Usage() []float64       { return slices.Clone(r.usage) }
func (r *Result) Wanted() []float64      { return slices.Clone(r.wanted) }
func (r *Result) Consumption() []float64 { return slices.Clone(r.consumption) }
func (r *Result) Demand() []float64      { return slices.Clone(r.demand) }

// TimeWeeks returns the time axis in weeks, as used for presentation.
func (r *Result) TimeWeeks() []float64 {
	out := make([]float64, len(r.time))
	for i, t := range r.time {
		out[i] = t / r.params.Week
	}
	return out
}

// Final returns the state at the last grid point.
func (r *Result) Final() model.State {
	last := len(r.time) - 1
	return model.State{Stock: r.stock[last], Local: r.local[last]}
}

// FromRows rebuilds a result from persisted rows, e.g. from the run store.
// Rows must be complete and ordered by index.
func FromRows(params model.Params, policy string, rows []Row) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := params.Points()
	if len(rows) != n {
		return nil, fmt.Errorf("expected %d rows, got %d", n, len(rows))
	}
	r := newResult(params, policy, n)
	for i, row := range rows {
		if row.Index != i {
			return nil, fmt.Errorf("row %d has index %d", i, row.Index)
		}
		r.stock[i] = row.Stock
		r.local[i] = row.Local
		r.usage[i] = row.Usage
		r.wanted[i] = row.Wanted
		r.consumption[i] = row.Consumption
		r.demand[i] = row.Demand
	}
	return r, nil
}
