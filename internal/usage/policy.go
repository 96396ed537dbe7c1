package usage

import (
	"fmt"
	"math"

	"panic-buying/internal/model"
)

// Context is everything a policy may look at. Policies must be pure
// functions of it so runs stay deterministic.
type Context struct {
	Index int
	Time  float64
	Week  float64
}

// Policy returns the daily usage rate U_t for a step.
type Policy interface {
	Name() string
	Rate(ctx Context) float64
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(ctx Context) float64

func (f PolicyFunc) Name() string             { return "func" }
func (f PolicyFunc) Rate(ctx Context) float64 { return f(ctx) }

// Sample evaluates the policy over every step that produces derived values
// (t = 0..n-2) and rejects non-positive or non-finite rates before any
// integration happens.
func Sample(p Policy, params model.Params) ([]float64, error) {
	if p == nil {
		return nil, model.NewConfigError("policy", "is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	steps := params.Points() - 1
	rates := make([]float64, steps)
	for i := 0; i < steps; i++ {
		r := p.Rate(Context{Index: i, Time: params.TimeAt(i), Week: params.Week})
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return nil, model.NewConfigError("policy", fmt.Sprintf("%s returned rate %g at step %d, must be > 0", p.Name(), r, i))
		}
		rates[i] = r
	}
	return rates, nil
}
