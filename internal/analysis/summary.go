package analysis

import (
	"math"

	"panic-buying/internal/model"
	"panic-buying/internal/simulate"
)

// Summary is a run-level digest you can use for ranking and reporting.
// Times are in model time units; "days" count derived steps.
type Summary struct {
	Policy string
	Points int

	InitialStock float64
	FinalStock   float64
	FinalLocal   float64

	MinStock       float64
	MinStockTime   float64
	MaxLocal       float64
	MaxLocalTime   float64
	PeakDemand     float64
	PeakDemandTime float64

	// ShortageSteps counts steps where demand exceeded available stock.
	ShortageSteps int
	// HoardingSteps counts steps where households bought above usage.
	HoardingSteps int

	// UnmetDemand is the total demand that could not be served, in capacity units.
	UnmetDemand float64
}

func Summarize(r *simulate.Result) Summary {
	s := Summary{
		Policy:   r.Policy(),
		Points:   r.Len(),
		MinStock: math.Inf(1),
		MaxLocal: math.Inf(-1),
	}
	if r.Len() == 0 {
		return s
	}
	day := r.Params().Day
	for _, row := range r.Rows() {
		if row.Index == 0 {
			s.InitialStock = row.Stock
		}
		if row.Stock < s.MinStock {
			s.MinStock = row.Stock
			s.MinStockTime = row.Time
		}
		if row.Local > s.MaxLocal {
			s.MaxLocal = row.Local
			s.MaxLocalTime = row.Time
		}
		if !row.Derived {
			continue
		}
		if row.Demand > s.PeakDemand {
			s.PeakDemand = row.Demand
			s.PeakDemandTime = row.Time
		}
		switch row.Regime {
		case model.RegimeShortage:
			s.ShortageSteps++
		case model.RegimeHoarding:
			s.HoardingSteps++
		}
		s.UnmetDemand += day * (row.Demand - row.Consumption)
	}
	final := r.Final()
	s.FinalStock = final.Stock
	s.FinalLocal = final.Local
	return s
}
