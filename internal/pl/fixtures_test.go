package pl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

func horizon(periods ...string) model.Horizon {
	h := make(model.Horizon, len(periods))
	for i, p := range periods {
		h[i] = model.Period(p)
	}
	return h
}

// twoCustomers is the ledger of the B2B worked example: one UK row and one
// Spain row over two months.
func twoCustomers() *model.Dataset {
	return &model.Dataset{
		Dates: horizon("2026-02", "2026-03"),
		B2B: &model.CustomerLedger{
			HasGroupColumn: true,
			Rows: []model.CustomerRow{
				{Customer: "Harrods", Country: "United Kingdom", CountryGroup: "UK", Values: model.Series{1000, 1000}},
				{Customer: "El Corte Inglés", Country: "Spain", CountryGroup: "CE", Values: model.Series{2000, 2000}},
			},
		},
	}
}

// fixture exercises every table: spellings, section rows, central overheads
// and a dataset fulfilment rate.
func fixture() *model.Dataset {
	return &model.Dataset{
		Dates: horizon("2026-02", "2026-03"),
		B2B: &model.CustomerLedger{
			HasGroupColumn: true,
			Rows: []model.CustomerRow{
				{Customer: "Harrods", Country: "United Kingdom", CountryGroup: "UK", Values: model.Series{1000, 1000}},
				{Customer: "El Corte Inglés", Country: "Spain", CountryGroup: "CE", Values: model.Series{2000, 2000}},
				{Customer: "Target", Country: "USA", CountryGroup: "NA", Values: model.Series{300, 300}},
				{Customer: "Nordstrom", Country: "United States", CountryGroup: "NA", Values: model.Series{200, 200}},
				{Customer: "Natura", Country: "Brazil", CountryGroup: "ROW", Values: model.Series{50, 70}},
			},
		},
		DTC: map[model.Territory]*model.DTCTable{
			model.TerritoryUK: {Label: "UK", Metrics: []model.MetricRow{
				{Name: "Sessions", Values: model.Series{5, 5}},
				{Name: "Total Revenue", Values: model.Series{500, 600}},
			}},
			model.TerritoryES: {Label: "ES", Metrics: []model.MetricRow{
				{Name: "Total Revenue", Values: model.Series{100, 100}},
			}},
		},
		Marketplace: &model.MarketplaceTable{Rows: []model.LabeledRow{
			{Label: "Units", Values: model.Series{9, 9}},
			{Label: "UK", Values: model.Series{9999, 9999}},
			{Label: "Territory £", Values: model.Series{0, 0}},
			{Label: "UK", Values: model.Series{200, 200}},
			{Label: "Spain", Values: model.Series{50, 50}},
		}},
		Overheads: []model.OverheadRow{
			{Territory: "United Kingdom", Function: "Marketing", Category: "Paid media", Values: model.Series{-100, -100}},
			{Territory: "United Kingdom", Function: "People", Category: "Salaries", Values: model.Series{-20, -20}},
			{Territory: "Spain", Function: "People", Category: "Salaries", Values: model.Series{-40, -40}},
			{Territory: "Group", Function: "Finance", Category: "Audit", Values: model.Series{-30, -30}},
			{Territory: "", Function: "Other", Category: "Sundry", Values: model.Series{-5, -5}},
		},
		Fulfilment: []model.FulfilmentRate{
			{Country: "United Kingdom", Channel: model.ChannelDTC, Rate: -0.1},
		},
	}
}

func calculator(t *testing.T, ds *model.Dataset, keys map[string]float64) *Calculator {
	t.Helper()
	scen := scenario.Base()
	if keys != nil {
		var err error
		scen, err = scenario.Parse("test", keys)
		require.NoError(t, err)
	}
	return New().Calculator(ds, scen)
}
