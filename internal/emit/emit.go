// Package emit hands finished runs to presentation and transport
// collaborators. Sinks only read results; they never feed back into a run.
package emit

import (
	"context"
	"errors"

	"panic-buying/internal/simulate"
)

// Axis labels used by every presentation payload.
const (
	TimeAxisLabel  = "time [weeks]"
	ValueAxisLabel = "nominal capacity"
)

// Sink consumes a finished run.
type Sink interface {
	Emit(ctx context.Context, name string, r *simulate.Result) error
}

// Multi fans a run out to several sinks. Every sink is attempted; errors are joined.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, name string, r *simulate.Result) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, name, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SeriesPayload is the presentation shape of a run: two curves (stock and
// local storage) against time in weeks, plus the derived series.
// Derived series have the same length as Stock; entries at index
// DerivedPoints and beyond are zero.
type SeriesPayload struct {
	Name          string    `json:"name"`
	Policy        string    `json:"policy"`
	XLabel        string    `json:"x_label"`
	YLabel        string    `json:"y_label"`
	Points        int       `json:"points"`
	DerivedPoints int       `json:"derived_points"`
	TimeWeeks     []float64 `json:"time_weeks"`
	Stock         []float64 `json:"stock"`
	LocalStorage  []float64 `json:"local_storage"`
	Usage         []float64 `json:"usage"`
	WantedLevel   []float64 `json:"wanted_level"`
	Consumption   []float64 `json:"consumption"`
	Demand        []float64 `json:"demand"`
}

func NewSeriesPayload(name string, r *simulate.Result) SeriesPayload {
	return SeriesPayload{
		Name:          name,
		Policy:        r.Policy(),
		XLabel:        TimeAxisLabel,
		YLabel:        ValueAxisLabel,
		Points:        r.Len(),
		DerivedPoints: r.Steps(),
		TimeWeeks:     r.TimeWeeks(),
		Stock:         r.Stock(),
		LocalStorage:  r.Local(),
		Usage:         r.Usage(),
		WantedLevel:   r.Wanted(),
		Consumption:   r.Consumption(),
		Demand:        r.Demand(),
	}
}

// RowPayload is the JSON shape of one index.
type RowPayload struct {
	Index        int      `json:"index"`
	Time         float64  `json:"time"`
	TimeWeeks    float64  `json:"time_weeks"`
	Stock        float64  `json:"stock"`
	LocalStorage float64  `json:"local_storage"`
	Usage        *float64 `json:"usage,omitempty"`
	WantedLevel  *float64 `json:"wanted_level,omitempty"`
	Consumption  *float64 `json:"consumption,omitempty"`
	Demand       *float64 `json:"demand,omitempty"`
	Regime       string   `json:"regime,omitempty"`
}

// NewRowPayload omits the flow fields on the final, non-derived index.
func NewRowPayload(row simulate.Row) RowPayload {
	p := RowPayload{
		Index:        row.Index,
		Time:         row.Time,
		TimeWeeks:    row.Weeks,
		Stock:        row.Stock,
		LocalStorage: row.Local,
		Regime:       string(row.Regime),
	}
	if row.Derived {
		u, w, c, d := row.Usage, row.Wanted, row.Consumption, row.Demand
		p.Usage, p.WantedLevel, p.Consumption, p.Demand = &u, &w, &c, &d
	}
	return p
}
