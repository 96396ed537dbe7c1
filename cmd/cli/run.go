package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"panic-buying/internal/analysis"
	"panic-buying/internal/config"
	"panic-buying/internal/emit"
	"panic-buying/internal/simulate"

	"github.com/spf13/cobra"
)

var (
	runScenario   scenarioFlags
	runName       string
	runOutDir     string
	runFormat     string
	runPersist    bool
	runMQTTBroker string
	runMQTTPrefix string
	runMQTTSteps  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scenario and write its series",
	Long: `Runs a scenario and writes one row per time index to <out>/<name>.csv
and/or <out>/<name>.jsonl. Optionally stores the run and publishes it over MQTT.`,
	Example: `  panicsim run --config examples/scenarios/shock.yaml
  panicsim run --policy shock --peak-rate 0.8 --format jsonl
  panicsim run --config examples/config.yaml --persist --mqtt-broker localhost:1883`,
	RunE: runRun,
}

func init() {
	runScenario.register(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: scenario name)")
	runCmd.Flags().StringVar(&runOutDir, "out", "results", "output directory")
	runCmd.Flags().StringVar(&runFormat, "format", "csv", "output format: csv, jsonl, both or none")
	runCmd.Flags().BoolVar(&runPersist, "persist", false, "save the run in the run store (--db)")
	runCmd.Flags().StringVar(&runMQTTBroker, "mqtt-broker", "", "publish the run to this MQTT broker (host:port)")
	runCmd.Flags().StringVar(&runMQTTPrefix, "mqtt-prefix", "panic_buying", "MQTT topic prefix")
	runCmd.Flags().BoolVar(&runMQTTSteps, "mqtt-steps", false, "also publish one MQTT message per step")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := runScenario.load(cmd)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	name := scenarioName(runName, cfg)

	result, err := runConfig(ctx, cfg)
	if err != nil {
		return err
	}

	sinks, closeSinks, err := buildSinks()
	if err != nil {
		return err
	}
	defer closeSinks()
	if err := sinks.Emit(ctx, name, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if runFormat != "none" {
		fmt.Printf("Wrote %d rows for %q to %s\n", result.Len(), name, runOutDir)
	}

	if runPersist {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		id, err := db.SaveRun(ctx, name, result)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Printf("Stored run %s in %s\n", id, dbPath)
	}

	printSummary(name, analysis.Summarize(result), result.Params().Week)
	return nil
}

func runConfig(ctx context.Context, cfg *config.Config) (*simulate.Result, error) {
	params, policy, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return simulate.New(newLogger()).Run(ctx, params, policy)
}

func buildSinks() (emit.Multi, func(), error) {
	var sinks emit.Multi
	closeFn := func() {}

	switch runFormat {
	case "csv":
		sinks = append(sinks, emit.CSVSink{Dir: runOutDir})
	case "jsonl":
		sinks = append(sinks, emit.JSONLFileSink{Dir: runOutDir})
	case "both":
		sinks = append(sinks, emit.CSVSink{Dir: runOutDir}, emit.JSONLFileSink{Dir: runOutDir})
	case "none":
	default:
		return nil, closeFn, fmt.Errorf("unsupported --format %q", runFormat)
	}

	if runMQTTBroker != "" {
		mq, err := emit.NewMQTTSink(config.MQTTConfig{
			Broker:      runMQTTBroker,
			TopicPrefix: runMQTTPrefix,
			ClientID:    "panicsim",
		}, runMQTTSteps)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, mq)
		closeFn = mq.Close
	}
	return sinks, closeFn, nil
}

func printSummary(name string, s analysis.Summary, week float64) {
	fmt.Printf("%s (%s): %d points\n", name, s.Policy, s.Points)
	fmt.Printf("  stock:  initial=%.4f final=%.4f min=%.4f @ week %.2f\n", s.InitialStock, s.FinalStock, s.MinStock, s.MinStockTime/week)
	fmt.Printf("  local:  final=%.4f max=%.4f @ week %.2f\n", s.FinalLocal, s.MaxLocal, s.MaxLocalTime/week)
	fmt.Printf("  demand: peak=%.4f @ week %.2f unmet=%.4f\n", s.PeakDemand, s.PeakDemandTime/week, s.UnmetDemand)
	fmt.Printf("  steps:  hoarding=%d shortage=%d\n", s.HoardingSteps, s.ShortageSteps)
}
