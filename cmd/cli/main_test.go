package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

func TestParseKeys(t *testing.T) {
	keys, err := parseKeys(" b2b_growth=10, cogs_rate_DTC = 0.3,,")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"b2b_growth": 10, "cogs_rate_DTC": 0.3}, keys)

	_, err = parseKeys("b2b_growth")
	require.Error(t, err)
	_, err = parseKeys("b2b_growth=ten")
	require.Error(t, err)
}

func TestScenarioFrom(t *testing.T) {
	named = map[string]scenario.Scenario{"Base": scenario.Base()}

	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		scenarioFlags(cmd, "new-")
		require.NoError(t, cmd.Flags().Parse(args))
		return cmd
	}

	s, err := scenarioFrom(newCmd(), "new-")
	require.NoError(t, err)
	assert.True(t, s.IsBase())

	s, err = scenarioFrom(newCmd("--new-scenario", "mp_growth=5"), "new-")
	require.NoError(t, err)
	assert.Equal(t, "Custom", s.Name)
	assert.Equal(t, map[string]float64{"mp_growth": 5}, s.Keys())

	_, err = scenarioFrom(newCmd("--new-scenario-name", "Missing"), "new-")
	require.Error(t, err)

	_, err = scenarioFrom(newCmd("--new-scenario", "mp_growth=5", "--new-scenario-name", "Base"), "new-")
	require.Error(t, err)

	_, err = scenarioFrom(newCmd("--new-scenario", "ebitda_growth=5"), "new-")
	require.ErrorIs(t, err, scenario.ErrInvalidAdjustment)
}

func TestPrintMarketing(t *testing.T) {
	r := &analysis.MarketingReport{
		Total:           450,
		Revenue:         9000,
		PctOfRevenue:    5,
		RevenuePerPound: 20,
		Spend:           []analysis.MarketingSpend{{Source: "UK", Channel: "DTC", Annual: 450, SharePct: 100}},
		Returns:         []analysis.MarketingReturn{{Territory: "UK", Spend: 450, Revenue: 1800, RevenuePerPound: 4}},
	}
	p := r.Project(10, 3)

	var buf bytes.Buffer
	printMarketing(&buf, r, &p)
	out := buf.String()
	assert.Contains(t, out, "Revenue per £1 marketing: £20.00")
	assert.Contains(t, out, "£4.00")
	assert.Contains(t, out, "Budget +10%")
}
