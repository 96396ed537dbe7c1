package simulate

import "panic-buying/internal/model"

// Row is one index of a run, flattened for CSV/JSON/storage output.
// Derived is false on the final index, whose flows are never computed.
type Row struct {
	Index int
	Time  float64
	Weeks float64

	Stock float64
	Local float64

	Usage       float64
	Wanted      float64
	Consumption float64
	Demand      float64

	Derived bool
	Regime  model.Regime
}

// Row returns index i. It panics when i is out of range, like slice indexing.
func (r *Result) Row(i int) Row {
	row := Row{
		Index:       i,
		Time:        r.time[i],
		Weeks:       r.time[i] / r.params.Week,
		Stock:       r.stock[i],
		Local:       r.local[i],
		Usage:       r.usage[i],
		Wanted:      r.wanted[i],
		Consumption: r.consumption[i],
		Demand:      r.demand[i],
		Derived:     i < r.Steps(),
	}
	if row.Derived {
		row.Regime = model.RegimeFromFlows(model.Flows{
			Usage:       row.Usage,
			Wanted:      row.Wanted,
			Demand:      row.Demand,
			Consumption: row.Consumption,
		})
	}
	return row
}

func (r *Result) Rows() []Row {
	out := make([]Row, r.Len())
	for i := range out {
		out[i] = r.Row(i)
	}
	return out
}
