package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// fetch-dataset downloads a published dataset document, checks it and keeps
// a local copy for the CLI and demo.
func main() {
	var (
		src        = flag.String("url", "", "Dataset URL (.json or .yaml)")
		outputPath = flag.String("output", "data/dataset.json", "Output file path (.json or .yaml)")
		timeout    = flag.Duration("timeout", time.Minute, "Fetch timeout")
		check      = flag.Bool("check", true, "Run the data quality checks before saving")
	)
	flag.Parse()

	_ = godotenv.Load()
	if *src == "" {
		log.Fatal("--url is required")
	}

	logger := observability.NewLogger("text", "info")
	client := data.NewRemoteClient(os.Getenv("BUDGET_DATA_TOKEN"), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Fetching dataset from %s\n", *src)
	ds, err := client.Fetch(ctx, *src)
	if err != nil {
		log.Fatalf("Failed to fetch dataset: %v", err)
	}
	customers := 0
	if ds.B2B != nil {
		customers = len(ds.B2B.Rows)
	}
	fmt.Printf("Loaded %d periods (%s to %s), %d customers, %d DTC tables, %d overhead rows\n",
		len(ds.Dates), ds.Dates[0], ds.Dates[len(ds.Dates)-1], customers, len(ds.DTC), len(ds.Overheads))

	if *check {
		calc := pl.New(pl.WithLogger(logger)).Calculator(ds, scenario.Base())
		report, err := analysis.CheckQuality(calc, ds)
		if err != nil {
			log.Fatalf("Quality check failed: %v", err)
		}
		fmt.Printf("Quality score %.0f (%s)\n", report.Score, report.Grade)
		for _, s := range report.Issues {
			fmt.Printf("  ⚠️  %s\n", s)
		}
		for _, s := range report.Warnings {
			fmt.Printf("  -  %s\n", s)
		}
	}

	if err := data.SaveDataset(ds, *outputPath); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}
	fmt.Printf("Saved dataset to %s\n", *outputPath)
}
