package model

// Regime is a human-friendly label for a step.
// Keep these values stable; they are intended for CSV output.
type Regime string

const (
	RegimeSteady   Regime = "STEADY"
	RegimeHoarding Regime = "HOARDING"
	RegimeShortage Regime = "SHORTAGE"
)

// hoardingTolerance keeps near-equilibrium steps, where demand sits a rounding
// error above usage, classified as steady.
const hoardingTolerance = 1e-6

// RegimeFromFlows classifies a step. Shortage wins over hoarding: an
// unmet demand means the shelves are empty regardless of motive.
func RegimeFromFlows(f Flows) Regime {
	switch {
	case f.Consumption < f.Demand:
		return RegimeShortage
	case f.Demand > f.Usage*(1+hoardingTolerance):
		return RegimeHoarding
	default:
		return RegimeSteady
	}
}
