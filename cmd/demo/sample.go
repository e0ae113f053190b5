package main

import (
	"fmt"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// sampleDataset is a year of plausible figures for a handful of territories.
func sampleDataset() *model.Dataset {
	dates := make(model.Horizon, 12)
	for i := range dates {
		dates[i] = model.Period(fmt.Sprintf("2026-%02d", i+1))
	}
	ramp := func(start, step float64) model.Series {
		s := make(model.Series, len(dates))
		for i := range s {
			s[i] = start + step*float64(i)
		}
		return s
	}

	return &model.Dataset{
		Dates: dates,
		B2B: &model.CustomerLedger{
			HasGroupColumn: true,
			Rows: []model.CustomerRow{
				{Customer: "Harrods", Country: "United Kingdom", CountryGroup: "UK", Values: ramp(120000, 4000)},
				{Customer: "El Corte Inglés", Country: "Spain", CountryGroup: "CE", Values: ramp(60000, 1500)},
				{Customer: "Douglas", Country: "Germany", CountryGroup: "CE", Values: ramp(45000, 1000)},
				{Customer: "Notino", Country: "Czech Republic", CountryGroup: "EE", Values: ramp(20000, 800)},
				{Customer: "Sephora US", Country: "USA", CountryGroup: "ROW", Values: ramp(30000, 2000)},
				{Customer: "Mecca", Country: "Australia", CountryGroup: "ROW", Values: ramp(15000, 500)},
			},
		},
		DTC: map[model.Territory]*model.DTCTable{
			model.TerritoryUK: {Label: "UK", Metrics: []model.MetricRow{
				{Name: "Sessions", Values: ramp(400000, 10000)},
				{Name: "Total Revenue", Values: ramp(250000, 6000)},
			}},
			model.TerritoryES: {Label: "ES", Metrics: []model.MetricRow{
				{Name: "Total Revenue", Values: ramp(40000, 1200)},
			}},
			model.TerritoryIT: {Label: "IT", Metrics: []model.MetricRow{
				{Name: "Total Revenue", Values: ramp(30000, 900)},
			}},
		},
		Marketplace: &model.MarketplaceTable{Rows: []model.LabeledRow{
			{Label: "Territory £", Values: model.Zero(len(dates))},
			{Label: "UK", Values: ramp(80000, 2000)},
			{Label: "Germany", Values: ramp(35000, 1000)},
			{Label: "Spain", Values: ramp(12000, 300)},
			{Label: "United States", Values: ramp(25000, 1500)},
		}},
		Overheads: []model.OverheadRow{
			{Territory: "United Kingdom", Function: "Marketing", Category: "Paid media", Values: ramp(-60000, -1000)},
			{Territory: "United Kingdom", Function: "People", Category: "Salaries", Values: ramp(-90000, 0)},
			{Territory: "Spain", Function: "Marketing", Category: "Paid media", Values: ramp(-12000, 0)},
			{Territory: "Group", Function: "Finance", Category: "Audit", Values: ramp(-25000, 0)},
		},
		Fulfilment: []model.FulfilmentRate{
			{Country: "United Kingdom", Channel: model.ChannelDTC, Rate: -0.12},
			{Country: "United Kingdom", Channel: model.ChannelB2B, Rate: -0.05},
		},
	}
}
