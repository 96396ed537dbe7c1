package usage

// DefaultRatePerWeek is the baseline household usage, in capacity per week.
const DefaultRatePerWeek = 0.4

// ConstantPolicy uses the same rate for every step.
type ConstantPolicy struct {
	RatePerWeek float64
}

func Constant(ratePerWeek float64) *ConstantPolicy {
	return &ConstantPolicy{RatePerWeek: ratePerWeek}
}

func (p *ConstantPolicy) Name() string { return "constant" }

func (p *ConstantPolicy) Rate(ctx Context) float64 {
	return p.RatePerWeek / ctx.Week
}
