package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

func withMarketing() *model.Dataset {
	ds := b2bOnly(months(1, 2))
	ds.DTC = map[model.Territory]*model.DTCTable{
		model.TerritoryUK: {Label: "UK", Metrics: []model.MetricRow{
			{Name: "Total Revenue", Values: model.Series{500, 500}},
			{Name: "Marketing Budget", Values: model.Series{100, 100}},
		}},
		model.TerritoryES: {Label: "ES", Metrics: []model.MetricRow{
			{Name: "Total Revenue", Values: model.Series{300, 300}},
			{Name: "marketing budget", Values: model.Series{50, 100}},
		}},
		model.TerritoryIT: {Label: "IT", Metrics: []model.MetricRow{
			{Name: "Total Revenue", Values: model.Series{200, 200}},
			{Name: "Marketing Budget", Values: model.Series{0, 0}},
		}},
	}
	ds.Overheads = []model.OverheadRow{
		{Territory: "Group", Function: "Brand Marketing", Values: model.Series{-40, -60}},
		{Territory: "United Kingdom", Function: "People", Values: model.Series{-500, -500}},
	}
	return ds
}

func marketing(t *testing.T, ds *model.Dataset) *MarketingReport {
	t.Helper()
	r, err := Marketing(pl.New().Calculator(ds, scenario.Base()), ds)
	require.NoError(t, err)
	return r
}

func TestMarketing(t *testing.T) {
	r := marketing(t, withMarketing())

	require.Len(t, r.Spend, 3)
	assert.Equal(t, "UK", r.Spend[0].Source)
	assert.Equal(t, "DTC", r.Spend[0].Channel)
	assert.Equal(t, 200.0, r.Spend[0].Annual)
	assert.Equal(t, "ES", r.Spend[1].Source)
	assert.Equal(t, CentralMarketing, r.Spend[2].Source)
	assert.Equal(t, "Group", r.Spend[2].Channel)
	assert.Equal(t, model.Series{40, 60}, r.Spend[2].Monthly)
	assert.InDelta(t, 44.444, r.Spend[0].SharePct, 1e-3)

	assert.Equal(t, 450.0, r.Total)
	assert.Equal(t, model.Series{190, 260}, r.Monthly)
	assert.Equal(t, 225.0, r.AvgMonthly)
	assert.Equal(t, 2, r.Territories)

	// B2B 6000, DTC 1000 + 600 + 400
	assert.Equal(t, 8000.0, r.Revenue)
	assert.InDelta(t, 5.625, r.PctOfRevenue, 1e-9)
	assert.InDelta(t, 17.778, r.RevenuePerPound, 1e-3)

	require.Len(t, r.Returns, 2)
	assert.Equal(t, model.TerritoryUK, r.Returns[0].Territory)
	assert.InDelta(t, 5.0, r.Returns[0].RevenuePerPound, 1e-9)
	assert.Equal(t, model.TerritoryES, r.Returns[1].Territory)
	assert.InDelta(t, 4.0, r.Returns[1].RevenuePerPound, 1e-9)
}

func TestMarketingScenarioMovesRevenue(t *testing.T) {
	ds := withMarketing()
	scen, err := scenario.Parse("Growth", map[string]float64{"dtc_revenue_UK": 100})
	require.NoError(t, err)

	r, err := Marketing(pl.New().Calculator(ds, scen), ds)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, r.Revenue)
	assert.InDelta(t, 10.0, r.Returns[0].RevenuePerPound, 1e-9)
}

func TestMarketingWithoutSpend(t *testing.T) {
	r := marketing(t, b2bOnly(months(1, 2)))

	assert.Empty(t, r.Spend)
	assert.Empty(t, r.Returns)
	assert.Equal(t, 6000.0, r.Revenue)
	assert.Zero(t, r.Total)
	assert.Zero(t, r.PctOfRevenue)
	assert.Zero(t, r.RevenuePerPound)

	p := r.Project(50, 3)
	assert.Zero(t, p.Spend)
	assert.Zero(t, p.RevenueDelta)
	assert.Zero(t, p.PctOfRevenue)
}

func TestMarketingWithoutRevenue(t *testing.T) {
	ds := &model.Dataset{
		Dates: months(1, 2),
		DTC: map[model.Territory]*model.DTCTable{
			model.TerritoryRO: {Label: "RO", Metrics: []model.MetricRow{
				{Name: "Marketing Budget", Values: model.Series{10, 10}},
			}},
		},
	}
	r := marketing(t, ds)

	assert.Equal(t, 20.0, r.Total)
	assert.Zero(t, r.Revenue)
	assert.Zero(t, r.PctOfRevenue)
	assert.Zero(t, r.RevenuePerPound)
	require.Len(t, r.Returns, 1)
	assert.Zero(t, r.Returns[0].RevenuePerPound)
}

func TestMarketingProject(t *testing.T) {
	r := marketing(t, withMarketing())

	up := r.Project(10, 3)
	assert.InDelta(t, 495.0, up.Spend, 1e-9)
	assert.InDelta(t, 135.0, up.RevenueDelta, 1e-9)
	assert.InDelta(t, 8135.0, up.Revenue, 1e-9)
	assert.InDelta(t, 495.0/8135*100, up.PctOfRevenue, 1e-9)
	assert.InDelta(t, 495.0/8135*100-5.625, up.PointChange, 1e-9)

	// cuts carry a 20% penalty
	down := r.Project(-20, 3)
	assert.InDelta(t, 360.0, down.Spend, 1e-9)
	assert.InDelta(t, -324.0, down.RevenueDelta, 1e-9)
	assert.InDelta(t, 7676.0, down.Revenue, 1e-9)
}
