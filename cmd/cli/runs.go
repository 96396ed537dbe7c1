package main

import (
	"fmt"

	"panic-buying/internal/emit"

	"github.com/spf13/cobra"
)

var (
	runsLimit  int
	runsOutDir string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect runs saved with --persist",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs")
			return nil
		}
		fmt.Printf("%-36s %-20s %-10s %-7s %s\n", "id", "name", "policy", "points", "created")
		for _, r := range runs {
			fmt.Printf("%-36s %-20s %-10s %-7d %s\n", r.ID, r.Name, r.Policy, r.Points, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Write a stored run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		info, result, err := db.LoadRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := (emit.CSVSink{Dir: runsOutDir}).Emit(cmd.Context(), info.Name, result); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows for %q to %s\n", result.Len(), info.Name, runsOutDir)
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsExportCmd.Flags().StringVar(&runsOutDir, "out", "results", "output directory")
	runsCmd.AddCommand(runsListCmd, runsExportCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
