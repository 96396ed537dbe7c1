package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"panic-buying/internal/logging"
	"panic-buying/internal/store"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "panicsim",
	Short: "Simulate the panic-buying feedback loop between store stock and household storage",
	Long: `panicsim integrates the coupled store-stock / household-storage model over a
fixed horizon and writes the resulting series as CSV or JSON Lines.

Scenarios come from YAML files (see examples/) or from flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "runs.db", "run store database file")
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logLevel, os.Stderr)
}

// openDB opens the run store, creating its directory if needed.
func openDB() (*store.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return store.New(dbPath)
}
