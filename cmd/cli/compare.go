package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"panic-buying/internal/analysis"
	"panic-buying/internal/config"
	"panic-buying/internal/simulate"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare BASELINE.yaml SCENARIO.yaml...",
	Short: "Compare scenarios against a baseline and rank them by severity",
	Long: `Runs every scenario file. The first is the baseline; each other scenario is
compared against it index by index. A directory argument expands to its *.yaml files.`,
	Example: `  panicsim compare examples/scenarios/baseline.yaml examples/scenarios/shock.yaml
  panicsim compare examples/scenarios/baseline.yaml examples/scenarios`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	paths, err := expandScenarioPaths(args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(paths))
	results := make(map[string]*simulate.Result, len(paths))
	for _, p := range paths {
		cfg, err := config.LoadUnchecked(p)
		if err != nil {
			return err
		}
		name := scenarioName("", cfg)
		if _, dup := results[name]; dup {
			name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		if _, dup := results[name]; dup {
			continue
		}
		r, err := runConfig(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		names = append(names, name)
		results[name] = r
	}

	baseName := names[0]
	baseline := results[baseName]
	week := baseline.Params().Week
	day := baseline.Params().Day

	fmt.Printf("baseline: %s\n\n", baseName)
	fmt.Printf("%-20s %-10s %-10s %-10s %-12s\n", "scenario", "max dip", "@ week", "surplus", "@ week")
	for _, name := range names[1:] {
		cmp, err := analysis.Compare(baseline, results[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("%-20s %-10.4f %-10.2f %-10.4f %-12.2f\n",
			name,
			cmp.MaxDip,
			float64(cmp.MaxDipIndex)*day/week,
			cmp.MaxSurplus,
			float64(cmp.MaxSurplusIndex)*day/week,
		)
	}

	fmt.Printf("\n%-4s %-20s %-10s %-10s %-10s %-9s %-9s\n", "rank", "scenario", "min S", "peak D", "max L", "hoarding", "shortage")
	for i, r := range analysis.RankBySeverity(results) {
		fmt.Printf("%-4d %-20s %-10.4f %-10.4f %-10.4f %-9d %-9d\n",
			i+1,
			r.Name,
			r.MinStock,
			r.PeakDemand,
			r.MaxLocal,
			r.HoardingSteps,
			r.ShortageSteps,
		)
	}
	return nil
}

// expandScenarioPaths keeps argument order; directories expand to their sorted *.yaml files.
func expandScenarioPaths(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		matches, err := filepath.Glob(filepath.Join(a, "*.yaml"))
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			out = append(out, matches...)
			continue
		}
		out = append(out, a)
	}
	seen := map[string]bool{}
	uniq := out[:0]
	for _, p := range out {
		if !seen[p] {
			seen[p] = true
			uniq = append(uniq, p)
		}
	}
	return uniq, nil
}
