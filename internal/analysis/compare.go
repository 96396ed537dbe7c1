package analysis

import (
	"fmt"
	"math"
	"sort"

	"panic-buying/internal/simulate"
)

// Comparison describes how a scenario deviates from a baseline on the same grid.
type Comparison struct {
	Baseline string
	Scenario string

	StockDelta []float64 // scenario - baseline
	LocalDelta []float64

	// MaxDipIndex is where scenario stock falls furthest below baseline.
	MaxDipIndex int
	MaxDip      float64
	// MaxSurplus is the largest extra local storage households accumulate.
	MaxSurplus      float64
	MaxSurplusIndex int
}

func Compare(baseline, scenario *simulate.Result) (Comparison, error) {
	if baseline.Len() != scenario.Len() {
		return Comparison{}, fmt.Errorf("grids differ: baseline has %d points, scenario %d", baseline.Len(), scenario.Len())
	}
	if baseline.Params().Day != scenario.Params().Day {
		return Comparison{}, fmt.Errorf("grids differ: day %g vs %g", baseline.Params().Day, scenario.Params().Day)
	}
	bs, ss := baseline.Stock(), scenario.Stock()
	bl, sl := baseline.Local(), scenario.Local()

	c := Comparison{
		Baseline:   baseline.Policy(),
		Scenario:   scenario.Policy(),
		StockDelta: make([]float64, len(bs)),
		LocalDelta: make([]float64, len(bs)),
	}
	for i := range bs {
		c.StockDelta[i] = ss[i] - bs[i]
		c.LocalDelta[i] = sl[i] - bl[i]
		if -c.StockDelta[i] > c.MaxDip {
			c.MaxDip = -c.StockDelta[i]
			c.MaxDipIndex = i
		}
		if c.LocalDelta[i] > c.MaxSurplus {
			c.MaxSurplus = c.LocalDelta[i]
			c.MaxSurplusIndex = i
		}
	}
	return c, nil
}

// Ranked pairs a scenario name with its summary.
type Ranked struct {
	Name string
	Summary
}

// RankBySeverity orders scenarios by how low store stock falls, worst first.
// Ties are broken by unmet demand, then by name.
func RankBySeverity(byName map[string]*simulate.Result) []Ranked {
	out := make([]Ranked, 0, len(byName))
	for name, r := range byName {
		out = append(out, Ranked{Name: name, Summary: Summarize(r)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MinStock != b.MinStock {
			return a.MinStock < b.MinStock
		}
		if math.Abs(a.UnmetDemand-b.UnmetDemand) > 0 {
			return a.UnmetDemand > b.UnmetDemand
		}
		return a.Name < b.Name
	})
	return out
}
