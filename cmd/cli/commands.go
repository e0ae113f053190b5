package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/format"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

var plCmd = &cobra.Command{
	Use:   "pl",
	Short: "Print one territory's P&L",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, _ := cmd.Flags().GetString("territory")
		scen, err := scenarioFrom(cmd, "")
		if err != nil {
			return err
		}
		st, err := engine.Calculator(dataset, scen).TerritoryPL(model.Territory(t))
		if err != nil {
			return err
		}
		return emit(cmd, st)
	},
}

var combinedCmd = &cobra.Command{
	Use:   "combined",
	Short: "Print the combined P&L across all territories",
	RunE: func(cmd *cobra.Command, args []string) error {
		scen, err := scenarioFrom(cmd, "")
		if err != nil {
			return err
		}
		st, err := engine.Calculator(dataset, scen).CombinedPL()
		if err != nil {
			return err
		}
		return emit(cmd, st)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the combined P&L under two scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := scenarioFrom(cmd, "base-")
		if err != nil {
			return err
		}
		next, err := scenarioFrom(cmd, "new-")
		if err != nil {
			return err
		}
		cmp, err := engine.Compare(context.Background(), dataset, base, next)
		if err != nil {
			return err
		}
		printComparison(os.Stdout, cmp)
		return writeCSV(cmd, cmp.Difference)
	},
}

var waterfallCmd = &cobra.Command{
	Use:   "waterfall",
	Short: "Print the revenue to EBITDA walk of the combined P&L",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _ := cmd.Flags().GetString("mode")
		period, _ := cmd.Flags().GetString("period")
		mode, err := analysis.ParseMode(m)
		if err != nil {
			return err
		}
		scen, err := scenarioFrom(cmd, "")
		if err != nil {
			return err
		}
		st, err := engine.Calculator(dataset, scen).CombinedPL()
		if err != nil {
			return err
		}
		charts, err := analysis.Waterfall(st, mode, model.Period(period))
		if err != nil {
			return err
		}
		for _, ch := range charts {
			printWaterfall(os.Stdout, ch)
		}
		return nil
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Check the dataset for gaps, anomalies and reconciliation errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := analysis.CheckQuality(engine.Calculator(dataset, scenario.Base()), dataset)
		if err != nil {
			return err
		}
		printQuality(os.Stdout, report)
		return nil
	},
}

var marketingCmd = &cobra.Command{
	Use:   "marketing",
	Short: "Show marketing spend and revenue per £1 of marketing",
	RunE: func(cmd *cobra.Command, args []string) error {
		scen, err := scenarioFrom(cmd, "")
		if err != nil {
			return err
		}
		report, err := analysis.Marketing(engine.Calculator(dataset, scen), dataset)
		if err != nil {
			return err
		}
		var projection *analysis.MarketingProjection
		if change, _ := cmd.Flags().GetFloat64("change"); change != 0 {
			if change < -100 {
				return fmt.Errorf("--change must be at least -100")
			}
			assumed, _ := cmd.Flags().GetFloat64("assumed-return")
			p := report.Project(change, assumed)
			projection = &p
		}
		printMarketing(os.Stdout, report, projection)
		return nil
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank territories by EBITDA",
	RunE: func(cmd *cobra.Command, args []string) error {
		scen, err := scenarioFrom(cmd, "")
		if err != nil {
			return err
		}
		perTerritory, err := engine.Calculator(dataset, scen).PerTerritory()
		if err != nil {
			return err
		}
		ranked := analysis.RankByEBITDA(perTerritory)
		fmt.Printf("%-4s %-10s %14s %14s %8s %14s %14s\n", "rank", "territory", "revenue", "ebitda", "margin", "best month", "worst month")
		for _, r := range ranked {
			fmt.Printf("%-4d %-10s %14s %14s %8s %14s %14s\n",
				r.Rank,
				r.Territory,
				format.Currency(r.Revenue),
				format.Currency(r.EBITDA),
				format.Percent(r.EBITDAMarginPct),
				r.Monthly.Best,
				r.Monthly.Worst,
			)
		}
		return nil
	},
}

func init() {
	plCmd.Flags().String("territory", "", "territory code, e.g. UK")
	_ = plCmd.MarkFlagRequired("territory")
	for _, c := range []*cobra.Command{plCmd, combinedCmd, waterfallCmd, rankCmd, marketingCmd} {
		scenarioFlags(c, "")
	}
	scenarioFlags(compareCmd, "base-")
	scenarioFlags(compareCmd, "new-")
	for _, c := range []*cobra.Command{plCmd, combinedCmd, compareCmd} {
		c.Flags().String("out", "", "also write the statement as CSV to this path")
	}
	waterfallCmd.Flags().String("mode", "annual", "annual, monthly or quarterly")
	waterfallCmd.Flags().String("period", "", "period for monthly mode, e.g. 2026-02")
	marketingCmd.Flags().Float64("change", 0, "project a marketing budget change, in percent")
	marketingCmd.Flags().Float64("assumed-return", 3, "revenue per extra £1 of marketing for --change")
}

func emit(cmd *cobra.Command, st *pl.Statement) error {
	printStatement(os.Stdout, st)
	return writeCSV(cmd, st)
}

func writeCSV(cmd *cobra.Command, st *pl.Statement) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := pl.WriteStatementCSVFile(out, st); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(st.Lines()), out)
	return nil
}
