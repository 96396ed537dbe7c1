package analysis

import (
	"fmt"

	"panic-buying/internal/model"
)

// Point is a fixed point of the recurrence for a constant usage rate.
type Point struct {
	Stock  float64
	Local  float64
	Wanted float64
	Rate   float64 // daily usage
}

// Equilibrium solves the fixed point for a constant daily usage rate.
//
// With L constant, consumption equals usage; with S constant, consumption
// equals replenishment (S_cap - S)/week. Demand then equals usage, so local
// storage sits at the wanted level.
func Equilibrium(p model.Params, rate float64) (Point, error) {
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	if !(rate > 0) {
		return Point{}, model.NewConfigError("rate", "must be > 0")
	}
	stock := p.StockCapacity - rate*p.Week
	if stock <= 0 {
		return Point{}, fmt.Errorf("usage %g per step exceeds replenishment capacity: %w", rate, model.ErrStockDepleted)
	}
	wanted := (p.StockCapacity / stock) * rate * p.Week
	return Point{Stock: stock, Local: wanted, Wanted: wanted, Rate: rate}, nil
}
