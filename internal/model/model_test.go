package model

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if p.Week != 7 {
		t.Errorf("expected week 7, got %v", p.Week)
	}
	if p.Duration != 140 {
		t.Errorf("expected duration 140, got %v", p.Duration)
	}
	if n := p.Points(); n != 140 {
		t.Errorf("expected 140 points, got %d", n)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"zero day", func(p *Params) { p.Day = 0 }, "day"},
		{"negative day", func(p *Params) { p.Day = -1 }, "day"},
		{"duration equal to day", func(p *Params) { p.Duration = p.Day }, "duration"},
		{"zero capacity", func(p *Params) { p.StockCapacity = 0 }, "stock_capacity"},
		{"zero week", func(p *Params) { p.Week = 0 }, "week"},
		{"zero initial stock", func(p *Params) { p.InitialStock = 0 }, "initial_stock"},
		{"negative local", func(p *Params) { p.InitialLocal = -0.1 }, "initial_local"},
		{"NaN duration", func(p *Params) { p.Duration = math.NaN() }, "duration"},
		{"huge duration", func(p *Params) { p.Duration = 1e300 }, "duration"},
		{"too many steps", func(p *Params) { p.Duration = 1e10 }, "duration"},
		{"tiny day", func(p *Params) { p.Day = 1e-9 }, "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ce.Field)
			}
		})
	}
}

func TestPointsRoundsUp(t *testing.T) {
	p := DefaultParams()
	p.Duration = 10.5
	if n := p.Points(); n != 11 {
		t.Errorf("expected 11 points for duration 10.5, got %d", n)
	}
	if got := p.TimeAt(3); got != 3 {
		t.Errorf("expected t_3 = 3, got %v", got)
	}
}

func TestPointsBounded(t *testing.T) {
	p := DefaultParams()
	p.Duration = MaxPoints * p.Day
	if err := p.Validate(); err != nil {
		t.Fatalf("horizon of MaxPoints steps rejected: %v", err)
	}
	if n := p.Points(); n != MaxPoints {
		t.Errorf("expected %d points, got %d", MaxPoints, n)
	}

	for _, d := range []float64{1e300, math.Inf(1), math.NaN(), -5} {
		p.Duration = d
		if n := p.Points(); n != 0 {
			t.Errorf("Points() with duration %g = %d, want 0", d, n)
		}
	}
}

func TestDeltaMatchesAdvance(t *testing.T) {
	p := DefaultParams()
	s := State{Stock: 0.45, Local: 0.9}
	step, err := p.Advance(0, s, 0.6/7)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	dS, dL := p.Delta(s, step.Flows)
	if got := s.Stock + dS; math.Abs(got-step.Next.Stock) > 1e-15 {
		t.Errorf("stock via Delta = %v, Advance = %v", got, step.Next.Stock)
	}
	if got := s.Local + dL; math.Abs(got-step.Next.Local) > 1e-15 {
		t.Errorf("local via Delta = %v, Advance = %v", got, step.Next.Local)
	}
}

func TestAdvanceFirstStep(t *testing.T) {
	p := DefaultParams()
	usage := 0.4 / p.Week
	res, err := p.Advance(0, p.Initial(), usage)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	wantW := (1 / 0.6) * usage * 7
	wantD := math.Max(0, (wantW-0.7)/7+usage)
	wantC := math.Min(0.6, wantD)
	if res.Wanted != wantW || res.Demand != wantD || res.Consumption != wantC {
		t.Errorf("flows mismatch: got %+v", res.Flows)
	}
	wantS := 0.6 - wantC + (1-0.6)/7
	wantL := 0.7 + wantC - usage
	if res.Next.Stock != wantS {
		t.Errorf("expected next stock %v, got %v", wantS, res.Next.Stock)
	}
	if res.Next.Local != wantL {
		t.Errorf("expected next local %v, got %v", wantL, res.Next.Local)
	}
}

func TestAdvanceConsumptionCappedByStock(t *testing.T) {
	p := DefaultParams()
	s := State{Stock: 0.05, Local: 0}
	res, err := p.Advance(4, s, 0.6/p.Week)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.Consumption != s.Stock {
		t.Errorf("expected consumption capped at %v, got %v", s.Stock, res.Consumption)
	}
	if RegimeFromFlows(res.Flows) != RegimeShortage {
		t.Errorf("expected shortage regime, got %s", RegimeFromFlows(res.Flows))
	}
}

func TestAdvanceDemandFloor(t *testing.T) {
	p := DefaultParams()
	// Households far above their wanted level buy nothing.
	res, err := p.Advance(0, State{Stock: 1, Local: 5}, 0.4/p.Week)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.Demand != 0 || res.Consumption != 0 {
		t.Errorf("expected zero demand and consumption, got %+v", res.Flows)
	}
}

func TestAdvanceDepletedStock(t *testing.T) {
	p := DefaultParams()
	for _, stock := range []float64{0, -0.1, math.NaN()} {
		_, err := p.Advance(12, State{Stock: stock, Local: 0.5}, 0.1)
		if !errors.Is(err, ErrStockDepleted) {
			t.Fatalf("stock=%v: expected ErrStockDepleted, got %v", stock, err)
		}
		var de *StockDepletedError
		if !errors.As(err, &de) || de.Step != 12 || de.Time != 12 {
			t.Errorf("stock=%v: unexpected error detail %+v", stock, de)
		}
	}
}

func TestRegimeFromFlows(t *testing.T) {
	tests := []struct {
		name string
		f    Flows
		want Regime
	}{
		{"steady", Flows{Usage: 0.1, Demand: 0.1, Consumption: 0.1}, RegimeSteady},
		{"rounding above usage", Flows{Usage: 0.1, Demand: 0.1 + 1e-12, Consumption: 0.1 + 1e-12}, RegimeSteady},
		{"hoarding", Flows{Usage: 0.1, Demand: 0.2, Consumption: 0.2}, RegimeHoarding},
		{"shortage", Flows{Usage: 0.1, Demand: 0.3, Consumption: 0.2}, RegimeShortage},
		{"idle", Flows{Usage: 0.1}, RegimeSteady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegimeFromFlows(tt.f); got != tt.want {
				t.Errorf("RegimeFromFlows(%+v) = %s, want %s", tt.f, got, tt.want)
			}
		})
	}
}
