package pl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

func TestCompare(t *testing.T) {
	next, err := scenario.Parse("Growth", map[string]float64{"b2b_growth": 10})
	require.NoError(t, err)

	cmp, err := New().Compare(context.Background(), fixture(), scenario.Base(), next)
	require.NoError(t, err)

	assert.Equal(t, "Base", cmp.Base.Scenario)
	assert.Equal(t, "Growth", cmp.New.Scenario)
	assert.Equal(t, "Growth vs Base", cmp.Difference.Scenario)

	// B2B is 3550 and 3570 in the base case
	diff := cmp.Difference.Channel(CategoryRevenue, model.ChannelB2B)
	assert.InDeltaSlice(t, []float64{355, 357}, []float64(diff), 1e-6)
	assert.Equal(t, model.Series{0, 0}, cmp.Difference.Channel(CategoryRevenue, model.ChannelDTC))

	pct := cmp.VariancePct.Channel(CategoryRevenue, model.ChannelB2B)
	assert.InDeltaSlice(t, []float64{10, 10}, []float64(pct), 1e-9)
}

func TestCompareIdenticalScenarios(t *testing.T) {
	cmp, err := New().Compare(context.Background(), fixture(), scenario.Base(), scenario.Base())
	require.NoError(t, err)

	for _, l := range cmp.Difference.Lines() {
		assert.Equal(t, model.Series{0, 0}, l.Values, l.Name)
	}
}

func TestVariancePercentZeroBase(t *testing.T) {
	ds := fixture()
	grown, err := scenario.Parse("DTC", map[string]float64{"dtc_revenue_UK": 50})
	require.NoError(t, err)

	base, err := New().Calculator(ds, scenario.Base()).TerritoryPL(model.TerritoryUK)
	require.NoError(t, err)
	next, err := New().Calculator(ds, grown).TerritoryPL(model.TerritoryUK)
	require.NoError(t, err)
	cmp := NewComparison(base, next)
	assert.Equal(t, model.Series{50, 50}, cmp.VariancePct.Channel(CategoryRevenue, model.ChannelDTC))

	// France has no data at all: every base value is zero
	empty, err := New().Calculator(ds, scenario.Base()).TerritoryPL(model.TerritoryFR)
	require.NoError(t, err)
	moved := empty.Map(func(cat Category, name string, v model.Series) model.Series {
		return v.Map(func(x float64) float64 { return x + 100 })
	})
	pct := VariancePercent(Subtract(moved, empty), empty)
	for _, l := range pct.Lines() {
		assert.Equal(t, model.Series{0, 0}, l.Values, l.Name)
	}
}

func TestVariancePercentNegativeBase(t *testing.T) {
	ds := fixture()
	base, err := New().Calculator(ds, scenario.Base()).TerritoryPL(model.TerritoryUK)
	require.NoError(t, err)

	next := base.Map(func(cat Category, name string, v model.Series) model.Series {
		if cat == CategoryOverheads {
			return v.Scale(2)
		}
		return v
	})
	pct := VariancePercent(Subtract(next, base), base)
	// -120 to -240 is a 100% move away from zero, reported as negative
	assert.Equal(t, model.Series{-100, -100}, pct.Total(CategoryOverheads))
}

func TestCompareMissingLedger(t *testing.T) {
	ds := fixture()
	ds.B2B = nil

	_, err := New().Compare(context.Background(), ds, scenario.Base(), scenario.Base())
	require.ErrorIs(t, err, ErrMissingInput)
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Compare(ctx, fixture(), scenario.Base(), scenario.Base())
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompareVariations(t *testing.T) {
	variations := []Variation{
		{Name: "Growth", Scenario: map[string]float64{"b2b_growth": 10}},
		{Name: "Typo", Scenario: map[string]float64{"b2b_grwoth": 10}},
		{Name: "Cheaper DTC", Scenario: map[string]float64{"cogs_rate_DTC": 0.1}},
		{Name: "Flat"},
	}

	results, err := New().CompareVariations(context.Background(), fixture(), scenario.Base(), variations)
	require.NoError(t, err)
	require.Len(t, results, len(variations))

	for i, v := range variations {
		assert.Equal(t, v.Name, results[i].Name)
	}
	assert.Empty(t, results[0].Error)
	require.NotNil(t, results[0].Comparison)
	assert.Greater(t, results[0].Comparison.Difference.Summary().Revenue, 0.0)

	assert.Nil(t, results[1].Comparison)
	assert.Contains(t, results[1].Error, "b2b_grwoth")

	require.NotNil(t, results[2].Comparison)
	assert.Greater(t, results[2].Comparison.Difference.Summary().EBITDA, 0.0)

	require.NotNil(t, results[3].Comparison)
	assert.Equal(t, Summary{}, results[3].Comparison.Difference.Summary())
}

func TestCompareVariationsFailingBase(t *testing.T) {
	ds := fixture()
	ds.B2B = nil

	_, err := New().CompareVariations(context.Background(), ds, scenario.Base(), []Variation{{Name: "x"}})
	require.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "base scenario")
}

func TestScenarioKeysForConfiguredTerritory(t *testing.T) {
	r, err := territory.NewResolver(append(territory.DefaultCatalogue(), territory.Entry{Code: "CA", Country: "Canada"}))
	require.NoError(t, err)
	settings := DefaultSettings()
	settings.Territories = append(settings.Territories, "CA")
	e := New(WithSettings(settings), WithResolver(r))

	ds := fixture()
	ds.DTC["CA"] = &model.DTCTable{Label: "CA", Metrics: []model.MetricRow{
		{Name: "Total Revenue", Values: model.Series{100, 100}},
	}}

	scen, err := e.ParseScenario("North", map[string]float64{"dtc_revenue_CA": 50, "fulfilment_rate_CA_DTC": -0.1})
	require.NoError(t, err)
	st, err := e.Calculator(ds, scen).TerritoryPL("CA")
	require.NoError(t, err)
	assert.Equal(t, model.Series{150, 150}, st.Channel(CategoryRevenue, model.ChannelDTC))
	assert.InDeltaSlice(t, []float64{-15, -15}, []float64(st.Channel(CategoryFulfilment, model.ChannelDTC)), 1e-9)

	results, err := e.CompareVariations(context.Background(), ds, scenario.Base(), []Variation{
		{Name: "North", Scenario: map[string]float64{"dtc_revenue_CA": 50}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, model.Series{50, 50}, results[0].Comparison.Difference.Channel(CategoryRevenue, model.ChannelDTC))

	// the default engine does not know CA
	_, err = New().ParseScenario("North", map[string]float64{"dtc_revenue_CA": 50})
	require.ErrorIs(t, err, scenario.ErrInvalidAdjustment)
}
