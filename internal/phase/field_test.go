package phase

import (
	"context"
	"errors"
	"math"
	"testing"

	"panic-buying/internal/model"
	"panic-buying/internal/simulate"
	"panic-buying/internal/usage"
)

func TestVectorFieldDefaultGrid(t *testing.T) {
	p := model.DefaultParams()
	f, err := VectorField(p, 0.4/p.Week, Grid{})
	if err != nil {
		t.Fatalf("VectorField: %v", err)
	}
	if len(f.Vectors) != 25*35 {
		t.Fatalf("expected %d vectors, got %d", 25*35, len(f.Vectors))
	}
	first, last := f.Vectors[0], f.Vectors[len(f.Vectors)-1]
	if first.Stock != 0.05 || first.Local != 0.05 {
		t.Errorf("unexpected first sample %+v", first)
	}
	if last.Stock != 1.0 || last.Local != 1.5 {
		t.Errorf("unexpected last sample %+v", last)
	}
}

func TestVectorFieldMatchesStep(t *testing.T) {
	p := model.DefaultParams()
	rate := 0.4 / p.Week
	f, err := VectorField(p, rate, Grid{StockMin: 0.2, StockMax: 1, StockPoints: 5, LocalMin: 0, LocalMax: 2, LocalPoints: 3})
	if err != nil {
		t.Fatalf("VectorField: %v", err)
	}
	for _, v := range f.Vectors {
		step, err := p.Advance(0, model.State{Stock: v.Stock, Local: v.Local}, rate)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if math.Abs(step.Next.Stock-v.Stock-v.DStock) > 1e-12 {
			t.Errorf("dS mismatch at %+v", v)
		}
		if math.Abs(step.Next.Local-v.Local-v.DLocal) > 1e-12 {
			t.Errorf("dL mismatch at %+v", v)
		}
	}
}

func TestVectorFieldVanishesAtEquilibrium(t *testing.T) {
	p := model.DefaultParams()
	rate := 0.4 / p.Week
	s := p.StockCapacity - rate*p.Week
	l := (p.StockCapacity / s) * rate * p.Week
	f, err := VectorField(p, rate, Grid{StockMin: s, StockMax: s + 0.1, StockPoints: 2, LocalMin: l, LocalMax: l + 0.1, LocalPoints: 2})
	if err != nil {
		t.Fatalf("VectorField: %v", err)
	}
	v := f.Vectors[0]
	if math.Abs(v.DStock) > 1e-12 || math.Abs(v.DLocal) > 1e-12 {
		t.Errorf("expected zero vector at equilibrium, got %+v", v)
	}
}

func TestVectorFieldRejectsBadInput(t *testing.T) {
	p := model.DefaultParams()
	if _, err := VectorField(p, 0, Grid{}); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero rate, got %v", err)
	}
	bad := Grid{StockMin: 0, StockMax: 1, StockPoints: 3, LocalMin: 0, LocalMax: 1, LocalPoints: 3}
	if _, err := VectorField(p, 0.05, bad); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero stock bound, got %v", err)
	}
}

func TestNewPortrait(t *testing.T) {
	r, err := simulate.New(nil).Run(context.Background(), model.DefaultParams(), usage.DefaultShock())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pt, err := NewPortrait(r, Grid{})
	if err != nil {
		t.Fatalf("NewPortrait: %v", err)
	}
	if len(pt.Trajectory) != r.Len() {
		t.Errorf("expected %d trajectory points, got %d", r.Len(), len(pt.Trajectory))
	}
	if pt.Trajectory[0] != (TrajectoryPoint{Local: 0.7, Stock: 0.6}) {
		t.Errorf("unexpected start %+v", pt.Trajectory[0])
	}
	if pt.Field.Rate != 0.4/7 {
		t.Errorf("expected field at baseline rate, got %v", pt.Field.Rate)
	}
	maxLocal := 0.0
	for _, p := range pt.Trajectory {
		maxLocal = math.Max(maxLocal, p.Local)
	}
	if pt.Field.Grid.LocalMax < maxLocal {
		t.Errorf("grid (%v) does not cover trajectory (%v)", pt.Field.Grid.LocalMax, maxLocal)
	}
}
