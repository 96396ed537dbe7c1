package simulate

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"strings"
	"testing"

	"panic-buying/internal/logging"
	"panic-buying/internal/model"
	"panic-buying/internal/usage"
)

func runOrFatal(t *testing.T, params model.Params, p usage.Policy) *Result {
	t.Helper()
	res, err := New(nil).Run(context.Background(), params, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRunDeterministic(t *testing.T) {
	params := model.DefaultParams()
	a := runOrFatal(t, params, usage.DefaultShock())
	b := runOrFatal(t, params, usage.DefaultShock())

	series := []struct {
		name string
		a, b []float64
	}{
		{"stock", a.Stock(), b.Stock()},
		{"local", a.Local(), b.Local()},
		{"usage", a.Usage(), b.Usage()},
		{"wanted", a.Wanted(), b.Wanted()},
		{"consumption", a.Consumption(), b.Consumption()},
		{"demand", a.Demand(), b.Demand()},
	}
	for _, s := range series {
		for i := range s.a {
			if s.a[i] != s.b[i] {
				t.Fatalf("%s[%d] differs between runs: %v vs %v", s.name, i, s.a[i], s.b[i])
			}
		}
	}
}

func TestRunLengthsAndTimeGrid(t *testing.T) {
	params := model.DefaultParams()
	res := runOrFatal(t, params, usage.Constant(usage.DefaultRatePerWeek))

	n := int(math.Floor(params.Duration / params.Day))
	if res.Len() != n {
		t.Fatalf("expected %d points, got %d", n, res.Len())
	}
	if res.Steps() != n-1 {
		t.Errorf("expected %d steps, got %d", n-1, res.Steps())
	}
	for name, s := range map[string][]float64{
		"time": res.Time(), "stock": res.Stock(), "local": res.Local(),
		"usage": res.Usage(), "wanted": res.Wanted(),
		"consumption": res.Consumption(), "demand": res.Demand(),
	} {
		if len(s) != n {
			t.Errorf("%s: expected length %d, got %d", name, n, len(s))
		}
	}
	for i, tm := range res.Time() {
		if tm != float64(i)*params.Day {
			t.Fatalf("time[%d] = %v, want %v", i, tm, float64(i)*params.Day)
		}
	}
}

func TestRunFinalIndexFlowsAreZero(t *testing.T) {
	res := runOrFatal(t, model.DefaultParams(), usage.Constant(0.4))
	last := res.Len() - 1
	row := res.Row(last)
	if row.Derived {
		t.Error("expected final row to be marked as not derived")
	}
	if row.Usage != 0 || row.Wanted != 0 || row.Consumption != 0 || row.Demand != 0 {
		t.Errorf("expected zero flows on final index, got %+v", row)
	}
	if row.Regime != "" {
		t.Errorf("expected empty regime on final index, got %q", row.Regime)
	}
	if row.Stock == 0 || row.Local == 0 {
		t.Errorf("expected carried state on final index, got %+v", row)
	}
}

func TestRunNonNegativeFlows(t *testing.T) {
	for _, p := range []usage.Policy{usage.Constant(0.4), usage.DefaultShock()} {
		res := runOrFatal(t, model.DefaultParams(), p)
		stock, demand, cons := res.Stock(), res.Demand(), res.Consumption()
		for i := 0; i < res.Steps(); i++ {
			if demand[i] < 0 {
				t.Errorf("%s: demand[%d] = %v < 0", p.Name(), i, demand[i])
			}
			if cons[i] < 0 {
				t.Errorf("%s: consumption[%d] = %v < 0", p.Name(), i, cons[i])
			}
			if cons[i] > stock[i] {
				t.Errorf("%s: consumption[%d] = %v exceeds stock %v", p.Name(), i, cons[i], stock[i])
			}
		}
	}
}

func TestRunConvergesUnderConstantUsage(t *testing.T) {
	res := runOrFatal(t, model.DefaultParams(), usage.Constant(usage.DefaultRatePerWeek))
	s := res.Stock()
	if d := math.Abs(s[139] - s[138]); d >= 1e-4 {
		t.Errorf("expected |S[139]-S[138]| < 1e-4, got %v", d)
	}
	l := res.Local()
	if d := math.Abs(l[139] - l[138]); d >= 1e-4 {
		t.Errorf("expected |L[139]-L[138]| < 1e-4, got %v", d)
	}
	// Analytic fixed point: S* = 1 - 0.4, L* = 0.4/0.6.
	if math.Abs(s[139]-0.6) > 1e-3 {
		t.Errorf("expected stock near 0.6, got %v", s[139])
	}
	if math.Abs(l[139]-0.4/0.6) > 1e-3 {
		t.Errorf("expected local storage near %v, got %v", 0.4/0.6, l[139])
	}
}

func TestRunShockAmplifiesDepletion(t *testing.T) {
	params := model.DefaultParams()
	base := runOrFatal(t, params, usage.Constant(usage.DefaultRatePerWeek))
	shock := runOrFatal(t, params, usage.DefaultShock())

	bs, ss := base.Stock(), shock.Stock()
	if !(ss[30] < bs[30]) {
		t.Errorf("expected shocked stock below baseline at t=30: shock=%v baseline=%v", ss[30], bs[30])
	}
	// Identical up to and including the first shocked step's state.
	for i := 0; i <= 18; i++ {
		if ss[i] != bs[i] {
			t.Fatalf("stock[%d] diverged before the shock: %v vs %v", i, ss[i], bs[i])
		}
	}
	// The dip is far larger than the direct effect of extra usage.
	minShock := math.Inf(1)
	for _, v := range ss {
		minShock = math.Min(minShock, v)
	}
	if minShock > 0.45 {
		t.Errorf("expected a deep dip below 0.45, got min stock %v", minShock)
	}
}

func TestRunFullShelvesNeverExceedCapacity(t *testing.T) {
	params := model.DefaultParams()
	params.InitialStock = params.StockCapacity
	res := runOrFatal(t, params, usage.Constant(usage.DefaultRatePerWeek))
	s := res.Stock()

	for i := 0; i < 5; i++ {
		if !(s[i+1] < s[i]) {
			t.Errorf("expected stock to decrease at step %d: %v -> %v", i, s[i], s[i+1])
		}
	}
	for i, v := range s {
		if v > params.StockCapacity {
			t.Fatalf("stock[%d] = %v exceeds capacity", i, v)
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	bad := model.DefaultParams()
	bad.Day = 0
	huge := model.DefaultParams()
	huge.Duration = 1e300
	tests := []struct {
		name   string
		params model.Params
		policy usage.Policy
	}{
		{"zero day", bad, usage.Constant(0.4)},
		{"zero usage", model.DefaultParams(), usage.Constant(0)},
		{"nil policy", model.DefaultParams(), nil},
		{"unbounded horizon", huge, usage.Constant(0.4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(nil).Run(context.Background(), tt.params, tt.policy)
			if !errors.Is(err, model.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if res != nil {
				t.Error("expected no result on failure")
			}
		})
	}
}

func TestRunStockDepleted(t *testing.T) {
	// Overstocked shelves emptied in one step overshoot below zero once
	// replenishment pulls back toward capacity.
	params := model.DefaultParams()
	params.InitialStock = 2
	res, err := New(nil).Run(context.Background(), params, usage.Constant(100))
	if !errors.Is(err, model.ErrStockDepleted) {
		t.Fatalf("expected ErrStockDepleted, got %v", err)
	}
	var de *model.StockDepletedError
	if !errors.As(err, &de) {
		t.Fatalf("expected *StockDepletedError, got %T", err)
	}
	if de.Step != 1 {
		t.Errorf("expected failure at step 1, got %d", de.Step)
	}
	if res != nil {
		t.Error("expected no partial result")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Run(ctx, model.DefaultParams(), usage.Constant(0.4))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResultAccessorsReturnCopies(t *testing.T) {
	res := runOrFatal(t, model.DefaultParams(), usage.Constant(0.4))
	s := res.Stock()
	s[0] = -1
	if res.Stock()[0] != 0.6 {
		t.Errorf("mutating an accessor copy changed the result: %v", res.Stock()[0])
	}
}

func TestFromRows(t *testing.T) {
	params := model.DefaultParams()
	res := runOrFatal(t, params, usage.DefaultShock())
	back, err := FromRows(params, res.Policy(), res.Rows())
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if back.Final() != res.Final() {
		t.Errorf("expected final state %+v, got %+v", res.Final(), back.Final())
	}
	if back.Demand()[20] != res.Demand()[20] {
		t.Errorf("demand mismatch after rebuild")
	}

	if _, err := FromRows(params, "x", res.Rows()[:10]); err == nil {
		t.Error("expected error for truncated rows")
	}
}

func TestWriteCSV(t *testing.T) {
	res := runOrFatal(t, model.DefaultParams(), usage.DefaultShock())
	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(recs) != res.Len()+1 {
		t.Fatalf("expected %d records, got %d", res.Len()+1, len(recs))
	}
	if recs[0][3] != "stock" || recs[0][9] != "regime" {
		t.Errorf("unexpected header %v", recs[0])
	}
	last := recs[len(recs)-1]
	if last[5] != "" || last[9] != "" {
		t.Errorf("expected empty flow columns on final row, got %v", last)
	}
	if recs[1][3] != "0.600000" {
		t.Errorf("expected initial stock 0.600000, got %s", recs[1][3])
	}
}

func TestWriteCSVFile(t *testing.T) {
	res := runOrFatal(t, model.DefaultParams(), usage.Constant(0.4))
	path := t.TempDir() + "/series.csv"
	if err := WriteCSVFile(path, res); err != nil {
		t.Fatalf("WriteCSVFile: %v", err)
	}
}

func TestRunTraceLogging(t *testing.T) {
	var buf bytes.Buffer
	params := model.DefaultParams()
	params.Duration = 10
	if _, err := New(logging.NewLogger("trace", &buf)).Run(context.Background(), params, usage.Constant(0.4)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(buf.String(), "msg=step "); got != 9 {
		t.Errorf("expected 9 step lines, got %d", got)
	}
	if !strings.Contains(buf.String(), "simulation finished") {
		t.Error("expected finish line at trace level")
	}
}
