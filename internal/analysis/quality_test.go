package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// complete is a year of data that passes every check.
func complete() *model.Dataset {
	h := months(1, 12)
	ds := &model.Dataset{
		Dates: h,
		B2B: &model.CustomerLedger{HasGroupColumn: true, Rows: []model.CustomerRow{
			{Customer: "Harrods", Country: "United Kingdom", CountryGroup: "UK", Values: flat(12, 1_000_000)},
			{Customer: "Natura", Country: "Brazil", CountryGroup: "ROW", Values: flat(12, 50_000)},
		}},
		DTC: map[model.Territory]*model.DTCTable{},
		Marketplace: &model.MarketplaceTable{Rows: []model.LabeledRow{
			{Label: "Territory £", Values: flat(12, 0)},
			{Label: "UK", Values: flat(12, 40_000)},
		}},
		CogsRates: map[model.Channel]float64{model.ChannelDTC: 0.25},
	}
	for _, t := range model.DTCTerritories {
		ds.DTC[t] = &model.DTCTable{Label: string(t), Metrics: []model.MetricRow{
			{Name: "Total Revenue", Values: flat(12, 10_000)},
		}}
	}
	return ds
}

func check(t *testing.T, ds *model.Dataset) *QualityReport {
	t.Helper()
	r, err := CheckQuality(pl.New().Calculator(ds, scenario.Base()), ds)
	require.NoError(t, err)
	return r
}

func TestQualityComplete(t *testing.T) {
	r := check(t, complete())

	assert.Empty(t, r.Issues)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 100.0, r.Score)
	assert.Equal(t, GradeGood, r.Grade)
	assert.True(t, r.Reconciled)
	assert.Equal(t, 12_600_000.0, r.B2BRevenue)
	assert.Equal(t, 960_000.0, r.DTCRevenue)
	assert.Equal(t, 480_000.0, r.MarketplaceRevenue)
	assert.InDelta(t, r.ChannelRevenue, r.StatementRevenue, 1e-6)
}

func TestQualityEmpty(t *testing.T) {
	ds := &model.Dataset{Dates: months(1, 2)}
	r := check(t, ds)

	assert.Equal(t, []string{"missing B2B data", "DTC revenue is zero"}, r.Issues)
	assert.Len(t, r.Warnings, 3)
	assert.Len(t, r.MissingDTC, len(model.DTCTerritories))
	assert.Equal(t, 65.0, r.Score)
	assert.Equal(t, GradeAcceptable, r.Grade)
	assert.False(t, r.Reconciled)
}

func TestQualityAnomalies(t *testing.T) {
	ds := complete()
	ds.DTC[model.TerritoryUK].Metrics[0].Values[5] = 40_000
	ds.CogsRates[model.ChannelB2B] = 1.2

	r := check(t, ds)
	assert.Empty(t, r.Issues)
	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0], "UK DTC: +300% MoM growth in 2026-06")
	assert.Contains(t, r.Warnings[1], "unusual B2B CoGS rate (120.0%)")
	assert.Equal(t, 90.0, r.Score)
}

func TestQualityUnreconciled(t *testing.T) {
	ds := complete()
	// a customer in no reporting territory counts in the channel total only
	ds.B2B.Rows = append(ds.B2B.Rows, model.CustomerRow{
		Customer: "Unknown", Country: "Narnia", Values: flat(12, 500),
	})

	r := check(t, ds)
	assert.False(t, r.Reconciled)
	require.Len(t, r.Issues, 1)
	assert.Contains(t, r.Issues[0], "revenue reconciliation error: 6000 difference")
}

func TestQualityScoreFloor(t *testing.T) {
	assert.Equal(t, 0.0, qualityScore(12, 4))
	assert.Equal(t, GradePoor, gradeOf(0))
	assert.Equal(t, GradeAcceptable, gradeOf(60))
	assert.Equal(t, GradeGood, gradeOf(80))
}
