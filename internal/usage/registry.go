package usage

import (
	"fmt"
	"strings"
)

// Build constructs a policy from a config-style name + params map.
// Unknown keys are ignored; missing keys fall back to defaults.
func Build(name string, params map[string]any) (Policy, error) {
	base := num(params, "rate_per_week", DefaultRatePerWeek)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "constant":
		return Constant(base), nil
	case "shock":
		p, err := Shock(
			base,
			num(params, "peak_rate_per_week", DefaultShockRatePerWeek),
			num(params, "start_week", DefaultShockStartWeek),
			num(params, "end_week", DefaultShockEndWeek),
		)
		if err != nil {
			return nil, fmt.Errorf("shock policy: %w", err)
		}
		return p, nil
	case "schedule":
		windows, err := parseWindows(params["windows"], base)
		if err != nil {
			return nil, fmt.Errorf("schedule policy: %w", err)
		}
		p, err := NewSchedule(base, windows)
		if err != nil {
			return nil, fmt.Errorf("schedule policy: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported usage policy: %q", name)
	}
}

func parseWindows(raw any, base float64) ([]Window, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("windows must be a list, got %T", raw)
	}
	out := make([]Window, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("window %d must be a map, got %T", i, it)
		}
		out = append(out, Window{
			StartWeek:   num(m, "start_week", 0),
			EndWeek:     num(m, "end_week", 0),
			RatePerWeek: num(m, "rate_per_week", base),
		})
	}
	return out, nil
}

func num(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		case int:
			return float64(x)
		case int64:
			return float64(x)
		}
	}
	return def
}

// ParameterInfo describes one policy parameter.
type ParameterInfo struct {
	Name        string
	Type        string // "float", "list"
	Description string
	Default     any
}

// Info describes a policy for listings.
type Info struct {
	Name        string
	Description string
	Parameters  []ParameterInfo
}

// Catalog lists the policies Build understands.
func Catalog() []Info {
	rate := ParameterInfo{
		Name:        "rate_per_week",
		Type:        "float",
		Description: "Baseline usage in nominal capacity per week",
		Default:     DefaultRatePerWeek,
	}
	return []Info{
		{
			Name:        "constant",
			Description: "Constant daily usage for the whole horizon.",
			Parameters:  []ParameterInfo{rate},
		},
		{
			Name:        "shock",
			Description: "Baseline usage with a single elevated window modelling a panic stimulus.",
			Parameters: []ParameterInfo{
				rate,
				{Name: "peak_rate_per_week", Type: "float", Description: "Usage during the stimulus", Default: DefaultShockRatePerWeek},
				{Name: "start_week", Type: "float", Description: "Stimulus start (inclusive), in weeks", Default: DefaultShockStartWeek},
				{Name: "end_week", Type: "float", Description: "Stimulus end (exclusive), in weeks", Default: DefaultShockEndWeek},
			},
		},
		{
			Name:        "schedule",
			Description: "Piecewise-constant usage; the first matching window wins, otherwise the baseline.",
			Parameters: []ParameterInfo{
				rate,
				{Name: "windows", Type: "list", Description: "List of {start_week, end_week, rate_per_week}"},
			},
		},
	}
}
