// Command budget builds P&L statements from a budget dataset on the
// command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rdwburns/budget-planning-app/internal/config"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// Loaded by the root command before any subcommand runs.
var (
	cfg     *config.Config
	engine  *pl.Engine
	dataset *model.Dataset
	named   map[string]scenario.Scenario
	known   scenario.Territories
	logger  *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "budget",
	Short:         "Build budget P&L statements from a dataset",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		level, _ := cmd.Flags().GetString("log-level")
		logger = observability.NewLogger("text", level)

		var err error
		cfgPath, _ := cmd.Flags().GetString("config")
		if cfgPath == "" {
			cfgPath = os.Getenv("BUDGET_CONFIG")
		}
		if cfg, err = config.LoadOrDefault(cfgPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		resolver, err := cfg.Resolver()
		if err != nil {
			return err
		}
		known = resolver
		if named, err = cfg.NamedScenariosWith(resolver); err != nil {
			return err
		}
		engine = pl.New(
			pl.WithSettings(cfg.EngineSettings()),
			pl.WithResolver(resolver),
			pl.WithLogger(logger),
		)

		src, _ := cmd.Flags().GetString("data")
		if src == "" {
			return fmt.Errorf("--data is required")
		}
		remote := data.NewRemoteClient(os.Getenv("BUDGET_DATA_TOKEN"), logger)
		if dataset, err = data.Open(context.Background(), src, remote); err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "engine config YAML (default: built-in settings, or $BUDGET_CONFIG)")
	rootCmd.PersistentFlags().String("data", "", "dataset file (.json, .yaml) or http(s) URL")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(plCmd)
	rootCmd.AddCommand(combinedCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(waterfallCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(marketingCmd)
}

// scenarioFlags registers --<prefix>scenario and --<prefix>scenario-name.
func scenarioFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().String(prefix+"scenario", "", "adjustments as key=value pairs, e.g. b2b_growth=10,cogs_rate_DTC=0.3")
	cmd.Flags().String(prefix+"scenario-name", "", "named scenario from the config")
}

func scenarioFrom(cmd *cobra.Command, prefix string) (scenario.Scenario, error) {
	raw, _ := cmd.Flags().GetString(prefix + "scenario")
	name, _ := cmd.Flags().GetString(prefix + "scenario-name")
	switch {
	case raw != "" && name != "":
		return scenario.Scenario{}, fmt.Errorf("give either --%sscenario or --%sscenario-name", prefix, prefix)
	case name != "":
		s, ok := named[name]
		if !ok {
			return scenario.Scenario{}, fmt.Errorf("unknown scenario %q", name)
		}
		return s, nil
	case raw != "":
		keys, err := parseKeys(raw)
		if err != nil {
			return scenario.Scenario{}, err
		}
		return scenario.ParseWith("Custom", keys, known)
	}
	return scenario.Base(), nil
}

// parseKeys reads "k=v,k=v".
func parseKeys(s string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("scenario entry %q: expected key=value", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("scenario entry %q: %w", part, err)
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
}
