package models

// ScenarioRequest selects a scenario either inline, as adjustment keys
// ({"b2b_growth": 10}), or by the name of a configured scenario. Neither
// means the base case.
type ScenarioRequest struct {
	Scenario     map[string]float64 `json:"scenario,omitempty"`
	ScenarioName string             `json:"scenario_name,omitempty"`
}

// RevenueRequest is the body of POST /api/v1/datasets/:id/revenue
type RevenueRequest struct {
	Channel   string `json:"channel" binding:"required"`
	Territory string `json:"territory,omitempty"`
	// Group filters B2B revenue by country-group tag instead of territory.
	Group string `json:"group,omitempty"`
	ScenarioRequest
}

// StatementRequest is the body of POST /api/v1/datasets/:id/pl
type StatementRequest struct {
	Territory string `json:"territory" binding:"required"`
	Format    string `json:"format,omitempty"` // "json" (default) or "csv"
	ScenarioRequest
}

// CombinedRequest is the body of POST /api/v1/datasets/:id/pl/combined
type CombinedRequest struct {
	Format string `json:"format,omitempty"`
	ScenarioRequest
}

// CompareRequest is the body of POST /api/v1/datasets/:id/compare
type CompareRequest struct {
	Base ScenarioRequest `json:"base"`
	New  ScenarioRequest `json:"new"`
}

// CompareVariationsRequest compares several named variations to one base.
type CompareVariationsRequest struct {
	Base       ScenarioRequest    `json:"base"`
	Variations []VariationRequest `json:"variations" binding:"required,min=1,dive"`
	// IncludeStatements returns full statements, not just summaries.
	IncludeStatements bool `json:"include_statements,omitempty"`
}

type VariationRequest struct {
	Name string `json:"name" binding:"required"`
	ScenarioRequest
}

// WaterfallRequest is the body of POST /api/v1/datasets/:id/waterfall
type WaterfallRequest struct {
	Mode   string `json:"mode,omitempty"`   // annual (default), monthly, quarterly
	Period string `json:"period,omitempty"` // required for monthly
	ScenarioRequest
}

// MarketingRequest is the body of POST /api/v1/datasets/:id/marketing. A
// non-zero ChangePct adds a budget projection at AssumedReturn revenue per £1
// (3 when omitted).
type MarketingRequest struct {
	ChangePct     float64  `json:"change_pct,omitempty" binding:"gte=-100"`
	AssumedReturn *float64 `json:"assumed_return,omitempty" binding:"omitempty,gte=0"`
	ScenarioRequest
}

// CustomerRequest appends one row to the customer ledger.
type CustomerRequest struct {
	Customer     string    `json:"customer" binding:"required"`
	Country      string    `json:"country" binding:"required"`
	CountryGroup string    `json:"country_group,omitempty"`
	Margin       float64   `json:"margin,omitempty"`
	Values       []float64 `json:"values" binding:"required"`
}

// ImportRequest is the body of POST /api/v1/datasets/import
type ImportRequest struct {
	URL string `json:"url" binding:"required,url"`
}
