package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Rdwburns/budget-planning-app/internal/config"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/format"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// Demo:
// - Build a small twelve-month budget dataset in memory
// - Assemble the combined P&L under the base case and a growth scenario
// - Print headline totals per territory and the comparison
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	saveTo := flag.String("save", "", "Optional path to write the sample dataset (.json or .yaml)")
	outCSV := flag.String("out", "", "Optional path to write the combined statement CSV")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		panic(err)
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		panic(err)
	}
	engine := pl.New(
		pl.WithSettings(cfg.EngineSettings()),
		pl.WithResolver(resolver),
		pl.WithLogger(observability.NewLogger("text", "warn")),
	)

	ds := sampleDataset()
	if *saveTo != "" {
		if err := data.SaveDataset(ds, *saveTo); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote sample dataset to %s\n", *saveTo)
	}

	calc := engine.Calculator(ds, scenario.Base())
	perTerritory, err := calc.PerTerritory()
	if err != nil {
		panic(err)
	}
	fmt.Printf("%-10s %14s %14s %14s\n", "territory", "revenue", "cm2", "ebitda")
	for _, t := range engine.Settings().Territories {
		sum := perTerritory[t].Summary()
		if sum.Revenue == 0 && sum.Overheads == 0 {
			continue
		}
		fmt.Printf("%-10s %14s %14s %14s\n", t, format.Currency(sum.Revenue), format.Currency(sum.CM2), format.Currency(sum.EBITDA))
	}

	combined, err := calc.CombinedPL()
	if err != nil {
		panic(err)
	}
	sum := combined.Summary()
	fmt.Printf("%-10s %14s %14s %14s\n\n", model.Combined, format.Currency(sum.Revenue), format.Currency(sum.CM2), format.Currency(sum.EBITDA))

	growth, err := scenario.Parse("Growth", map[string]float64{
		"b2b_growth":     10,
		"dtc_revenue_UK": 15,
		"mp_growth":      5,
	})
	if err != nil {
		panic(err)
	}
	grown, err := engine.Calculator(ds, growth).CombinedPL()
	if err != nil {
		panic(err)
	}
	cmp := pl.NewComparison(combined, grown)
	diff := cmp.Difference.Summary()
	fmt.Printf("%s vs %s: revenue %s, EBITDA %s\n", growth.Name, combined.Scenario, format.Currency(diff.Revenue), format.Currency(diff.EBITDA))

	if *outCSV != "" {
		if err := pl.WriteStatementCSVFile(*outCSV, combined); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(combined.Lines()), *outCSV)
	}

	if len(combined.Diagnostics) > 0 {
		fmt.Fprintf(os.Stderr, "%d resolution notes\n", len(combined.Diagnostics))
	}
}
