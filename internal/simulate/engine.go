package simulate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"panic-buying/internal/logging"
	"panic-buying/internal/model"
	"panic-buying/internal/usage"
)

type Engine struct {
	log *slog.Logger
}

// New returns an engine. A nil logger discards output.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{log: logger}
}

// Run integrates the coupled stock/local-storage recurrence over the whole
// grid. Parameters and the usage policy are validated before the first
// step; any failure aborts the run without a partial result.
func (e *Engine) Run(ctx context.Context, params model.Params, policy usage.Policy) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	rates, err := usage.Sample(policy, params)
	if err != nil {
		return nil, err
	}

	n := params.Points()
	r := newResult(params, policy.Name(), n)
	r.stock[0] = params.InitialStock
	r.local[0] = params.InitialLocal

	e.log.Debug("simulation started", "policy", policy.Name(), "points", n, "day", params.Day, "duration", params.Duration)

	trace := e.log.Enabled(ctx, logging.LevelTrace)
	state := params.Initial()
	for t := 0; t < n-1; t++ {
		if t%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("step %d: %w", t, err)
			}
		}
		step, err := params.Advance(t, state, rates[t])
		if err != nil {
			e.log.Warn("simulation aborted", "policy", policy.Name(), "step", t, "error", err)
			return nil, err
		}
		r.usage[t] = step.Usage
		r.wanted[t] = step.Wanted
		r.demand[t] = step.Demand
		r.consumption[t] = step.Consumption
		if trace {
			e.log.Log(ctx, logging.LevelTrace, "step",
				"t", t, "stock", step.Start.Stock, "local", step.Start.Local,
				"usage", step.Usage, "wanted", step.Wanted, "demand", step.Demand, "consumption", step.Consumption)
		}

		state = step.Next
		r.stock[t+1] = state.Stock
		r.local[t+1] = state.Local
	}

	e.log.Debug("simulation finished", "policy", policy.Name(), "final_stock", state.Stock, "final_local", state.Local)
	return r, nil
}
