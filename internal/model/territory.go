package model

import "strings"

// Territory is a reporting territory code from a closed catalogue.
type Territory string

const (
	TerritoryUK      Territory = "UK"
	TerritoryES      Territory = "ES"
	TerritoryDE      Territory = "DE"
	TerritoryIT      Territory = "IT"
	TerritoryFR      Territory = "FR"
	TerritoryRO      Territory = "RO"
	TerritoryPL      Territory = "PL"
	TerritoryCZ      Territory = "CZ"
	TerritoryHU      Territory = "HU"
	TerritorySK      Territory = "SK"
	TerritoryOtherEU Territory = "Other EU"
	TerritoryUS      Territory = "US"
	TerritoryAU      Territory = "AU"
	TerritoryROW     Territory = "ROW"
)

// Combined labels the multi-territory statement.
const Combined = "Combined"

// ReportingTerritories is the catalogue summed into the combined P&L.
var ReportingTerritories = []Territory{
	TerritoryUK, TerritoryES, TerritoryDE, TerritoryIT, TerritoryFR,
	TerritoryRO, TerritoryPL, TerritoryCZ, TerritoryHU, TerritorySK,
	TerritoryOtherEU, TerritoryUS, TerritoryAU, TerritoryROW,
}

// DTCTerritories are expected to carry a DTC metric table.
var DTCTerritories = []Territory{
	TerritoryUK, TerritoryES, TerritoryIT, TerritoryRO,
	TerritoryCZ, TerritoryHU, TerritorySK, TerritoryOtherEU,
}

// MarketplaceTerritories sell through the marketplace; several of them are
// marketplace-only, so this is a strict superset of DTCTerritories.
var MarketplaceTerritories = ReportingTerritories

// ParseTerritory matches a code case-insensitively against the reporting catalogue.
func ParseTerritory(s string) (Territory, bool) {
	s = strings.TrimSpace(s)
	for _, t := range ReportingTerritories {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}
