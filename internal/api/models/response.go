package models

import (
	"time"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

// DatasetResponse summarises a stored dataset snapshot.
type DatasetResponse struct {
	ID              string             `json:"id"`
	Version         int                `json:"version"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Periods         []string           `json:"periods"`
	HasLedger       bool               `json:"has_ledger"`
	HasGroupColumn  bool               `json:"has_group_column"`
	Customers       int                `json:"customers"`
	DTCTables       []string           `json:"dtc_tables"`
	MarketplaceRows int                `json:"marketplace_rows"`
	OverheadRows    int                `json:"overhead_rows"`
	FulfilmentRows  int                `json:"fulfilment_rows"`
	CogsRates       map[string]float64 `json:"cogs_rates,omitempty"`
}

// RevenueResponse is one channel's revenue series.
type RevenueResponse struct {
	Channel     string          `json:"channel"`
	Territory   string          `json:"territory,omitempty"`
	Group       string          `json:"group,omitempty"`
	Scenario    string          `json:"scenario"`
	Periods     []string        `json:"periods"`
	Values      []float64       `json:"values"`
	Total       float64         `json:"total"`
	Diagnostics []pl.Diagnostic `json:"diagnostics,omitempty"`
}

// CompareVariationsResponse lists each variation against the base.
type CompareVariationsResponse struct {
	Base       pl.Summary            `json:"base"`
	Variations []VariationComparison `json:"variations"`
}

type VariationComparison struct {
	Name       string         `json:"name"`
	Summary    *pl.Summary    `json:"summary,omitempty"`
	Difference *pl.Summary    `json:"difference,omitempty"`
	Comparison *pl.Comparison `json:"comparison,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type WaterfallResponse struct {
	Mode   string                    `json:"mode"`
	Charts []analysis.WaterfallChart `json:"charts"`
}

// MarketingResponse carries the marketing report and, when asked for, a
// budget projection.
type MarketingResponse struct {
	Scenario   string                        `json:"scenario"`
	Report     *analysis.MarketingReport     `json:"report"`
	Projection *analysis.MarketingProjection `json:"projection,omitempty"`
}

// RankResponse represents the response from ranking territories
type RankResponse struct {
	Scenario string                     `json:"scenario"`
	Rankings []analysis.RankedTerritory `json:"rankings"`
}

// TerritoryInfo describes a catalogue entry and how it is spelled per table.
type TerritoryInfo struct {
	Code      string              `json:"code"`
	Country   string              `json:"country,omitempty"`
	Aggregate bool                `json:"aggregate"`
	Groups    []string            `json:"groups,omitempty"`
	Spellings map[string][]string `json:"spellings"`
}

// ScenarioInfo represents a configured scenario
type ScenarioInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Adjustments map[string]float64 `json:"adjustments"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
