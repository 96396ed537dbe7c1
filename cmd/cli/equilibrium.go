package main

import (
	"fmt"

	"panic-buying/internal/analysis"
	"panic-buying/internal/model"
	"panic-buying/internal/usage"

	"github.com/spf13/cobra"
)

var (
	eqRate     float64
	eqCapacity float64
	eqWeek     float64
)

var equilibriumCmd = &cobra.Command{
	Use:   "equilibrium",
	Short: "Print the fixed point for a constant usage rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := model.DefaultParams()
		p.StockCapacity = eqCapacity
		if eqWeek != p.Week {
			p.Week = eqWeek
			p.Duration = model.DefaultWeeks * eqWeek
		}
		pt, err := analysis.Equilibrium(p, eqRate/p.Week)
		if err != nil {
			return err
		}
		fmt.Printf("usage %.4f/week: stock=%.4f local=%.4f wanted=%.4f\n", eqRate, pt.Stock, pt.Local, pt.Wanted)
		return nil
	},
}

func init() {
	equilibriumCmd.Flags().Float64Var(&eqRate, "rate", usage.DefaultRatePerWeek, "usage per week")
	equilibriumCmd.Flags().Float64Var(&eqCapacity, "stock-capacity", model.DefaultStockCapacity, "store stock capacity")
	equilibriumCmd.Flags().Float64Var(&eqWeek, "week", model.DaysPerWeek*model.DefaultDay, "week length in steps of one day")
	rootCmd.AddCommand(equilibriumCmd)
}
