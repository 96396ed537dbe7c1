package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"panic-buying/internal/phase"

	"github.com/spf13/cobra"
)

var (
	phaseScenario scenarioFlags
	phaseOut      string
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Write the phase-plane portrait (trajectory and vector field) as JSON",
	RunE:  runPhase,
}

func init() {
	phaseScenario.register(phaseCmd)
	phaseCmd.Flags().StringVar(&phaseOut, "out", "results/phase.json", "output JSON path")
	rootCmd.AddCommand(phaseCmd)
}

func runPhase(cmd *cobra.Command, args []string) error {
	cfg, err := phaseScenario.load(cmd)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	result, err := runConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	portrait, err := phase.NewPortrait(result, phase.Grid{})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(phaseOut), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(portrait, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(phaseOut, raw, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d trajectory points and %d vectors (rate %.4f/step) to %s\n",
		len(portrait.Trajectory), len(portrait.Field.Vectors), portrait.Field.Rate, phaseOut)
	return nil
}
