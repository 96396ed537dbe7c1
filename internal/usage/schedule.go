package usage

import (
	"fmt"
	"sort"
)

// Window raises usage to RatePerWeek during [StartWeek, EndWeek).
type Window struct {
	StartWeek   float64
	EndWeek     float64
	RatePerWeek float64
}

func (w Window) contains(weeks float64) bool {
	return weeks >= w.StartWeek && weeks < w.EndWeek
}

// SchedulePolicy implements a piecewise-constant usage profile:
// - the first window containing t wins
// - otherwise BaseRatePerWeek
//
// Window bounds are in weeks of model time, so the same schedule works
// for any day length.
type SchedulePolicy struct {
	BaseRatePerWeek float64
	Windows         []Window
}

func NewSchedule(base float64, windows []Window) (*SchedulePolicy, error) {
	ws := make([]Window, len(windows))
	copy(ws, windows)
	for i, w := range ws {
		if w.EndWeek <= w.StartWeek {
			return nil, fmt.Errorf("window %d: end_week (%g) must be after start_week (%g)", i, w.EndWeek, w.StartWeek)
		}
	}
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].StartWeek < ws[j].StartWeek })
	return &SchedulePolicy{BaseRatePerWeek: base, Windows: ws}, nil
}

func (p *SchedulePolicy) Name() string { return "schedule" }

func (p *SchedulePolicy) Rate(ctx Context) float64 {
	weeks := ctx.Time / ctx.Week
	for _, w := range p.Windows {
		if w.contains(weeks) {
			return w.RatePerWeek / ctx.Week
		}
	}
	return p.BaseRatePerWeek / ctx.Week
}

// Shock defaults: usage jumps from 0.4 to 0.6 per week between week 2.5 and 3.
const (
	DefaultShockRatePerWeek = 0.6
	DefaultShockStartWeek   = 2.5
	DefaultShockEndWeek     = 3.0
)

// ShockPolicy is a schedule with a single window: the panic stimulus.
type ShockPolicy struct {
	SchedulePolicy
}

func Shock(base, peak, startWeek, endWeek float64) (*ShockPolicy, error) {
	s, err := NewSchedule(base, []Window{{StartWeek: startWeek, EndWeek: endWeek, RatePerWeek: peak}})
	if err != nil {
		return nil, err
	}
	return &ShockPolicy{SchedulePolicy: *s}, nil
}

// DefaultShock returns the reference stimulus.
func DefaultShock() *ShockPolicy {
	p, _ := Shock(DefaultRatePerWeek, DefaultShockRatePerWeek, DefaultShockStartWeek, DefaultShockEndWeek)
	return p
}

func (p *ShockPolicy) Name() string { return "shock" }
