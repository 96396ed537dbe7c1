package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const scheduleYAML = `name: waves
policy:
  name: schedule
  params:
    rate_per_week: 0.4
    windows:
      - {start_week: 4, end_week: 6, rate_per_week: 1.2}
      - {start_week: 10, end_week: 11, rate_per_week: 0.9}
`

func newScenarioCmd(t *testing.T, args map[string]string) (*scenarioFlags, *cobra.Command) {
	t.Helper()
	f := &scenarioFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	for name, value := range args {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
	}
	return f, cmd
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}
	return path
}

func TestLoadKeepsScheduleWindows(t *testing.T) {
	path := writeScenario(t, scheduleYAML)

	tests := []struct {
		name     string
		args     map[string]string
		wantRate float64
	}{
		{"config only", map[string]string{"config": path}, 0.4},
		{"same policy named", map[string]string{"config": path, "policy": "schedule"}, 0.4},
		{"same policy with rate", map[string]string{"config": path, "policy": "Schedule", "rate": "0.5"}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := newScenarioCmd(t, tt.args)
			cfg, err := f.load(cmd)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			windows, ok := cfg.Policy.Params["windows"].([]any)
			if !ok || len(windows) != 2 {
				t.Fatalf("expected 2 schedule windows, got %#v", cfg.Policy.Params["windows"])
			}
			if got := cfg.Policy.Params["rate_per_week"]; got != tt.wantRate {
				t.Errorf("rate_per_week = %v, want %v", got, tt.wantRate)
			}
			if _, _, err := cfg.Resolve(); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		})
	}
}

func TestLoadPolicySwitchDropsFileParams(t *testing.T) {
	path := writeScenario(t, scheduleYAML)
	f, cmd := newScenarioCmd(t, map[string]string{"config": path, "policy": "shock", "peak-rate": "2"})

	cfg, err := f.load(cmd)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Policy.Name != "shock" {
		t.Errorf("policy = %q, want shock", cfg.Policy.Name)
	}
	if _, ok := cfg.Policy.Params["windows"]; ok {
		t.Error("expected schedule windows to be dropped on policy switch")
	}
	if _, ok := cfg.Policy.Params["rate_per_week"]; ok {
		t.Error("unset --rate must not be written into params")
	}
	if got := cfg.Policy.Params["peak_rate_per_week"]; got != 2.0 {
		t.Errorf("peak_rate_per_week = %v, want 2", got)
	}
}

func TestPolicyFlagHelpListsSchedule(t *testing.T) {
	_, cmd := newScenarioCmd(t, nil)
	usage := cmd.Flags().Lookup("policy").Usage
	if usage != "usage policy: constant, shock or schedule" {
		t.Errorf("unexpected --policy help %q", usage)
	}
}
