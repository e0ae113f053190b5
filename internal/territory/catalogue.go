package territory

import "github.com/Rdwburns/budget-planning-app/internal/model"

// Entry describes how one territory is spelled in each input table.
type Entry struct {
	Code model.Territory `yaml:"code" json:"code" validate:"required"`
	// Country is the full name used by the customer ledger and overhead ledger.
	Country string `yaml:"country,omitempty" json:"country,omitempty"`
	// Aliases are extra spellings seen for the same country (e.g. "USA").
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// MarketplaceLabel is the row label in the marketplace allocation table.
	MarketplaceLabel string `yaml:"marketplace_label,omitempty" json:"marketplace_label,omitempty"`
	// Groups marks an aggregate territory: it selects customer rows by their
	// country-group tag instead of by country name.
	Groups []string `yaml:"groups,omitempty" json:"groups,omitempty"`
}

func (e Entry) Aggregate() bool { return len(e.Groups) > 0 }

// DefaultCatalogue is the built-in territory spelling table.
func DefaultCatalogue() []Entry {
	return []Entry{
		{Code: model.TerritoryUK, Country: "United Kingdom", Aliases: []string{"Great Britain", "GB"}, MarketplaceLabel: "UK"},
		{Code: model.TerritoryES, Country: "Spain", Aliases: []string{"España"}, MarketplaceLabel: "Spain"},
		{Code: model.TerritoryDE, Country: "Germany", Aliases: []string{"Deutschland"}, MarketplaceLabel: "Germany"},
		{Code: model.TerritoryIT, Country: "Italy", Aliases: []string{"Italia"}, MarketplaceLabel: "Italy"},
		{Code: model.TerritoryFR, Country: "France", MarketplaceLabel: "France"},
		{Code: model.TerritoryRO, Country: "Romania", Aliases: []string{"România"}, MarketplaceLabel: "Romania"},
		{Code: model.TerritoryPL, Country: "Poland", Aliases: []string{"Polska"}, MarketplaceLabel: "Poland"},
		{Code: model.TerritoryCZ, Country: "Czech Republic", Aliases: []string{"Czechia"}, MarketplaceLabel: "Czech Republic"},
		{Code: model.TerritoryHU, Country: "Hungary", Aliases: []string{"Magyarország"}, MarketplaceLabel: "Hungary"},
		{Code: model.TerritorySK, Country: "Slovakia", Aliases: []string{"Slovensko"}, MarketplaceLabel: "Slovakia"},
		{Code: model.TerritoryOtherEU, MarketplaceLabel: "Other EU", Groups: []string{"CE-Other", "EE-Other"}},
		{Code: model.TerritoryUS, Country: "United States", Aliases: []string{"US", "USA", "United States of America"}, MarketplaceLabel: "United States"},
		{Code: model.TerritoryAU, Country: "Australia", MarketplaceLabel: "Australia"},
		{Code: model.TerritoryROW, MarketplaceLabel: "Other RoW", Groups: []string{"ROW"}},
	}
}
