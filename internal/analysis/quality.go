package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

const (
	qualityChecks           = 10
	minHorizonMonths        = 12
	maxMoMGrowthPct         = 200
	lowRevenueThreshold     = 10e6
	reconciliationTolerance = 100
)

// Grade buckets a quality score.
type Grade string

const (
	GradeGood       Grade = "good"
	GradeAcceptable Grade = "acceptable"
	GradePoor       Grade = "poor"
)

// QualityReport lists what is wrong with a dataset before anyone reads a
// statement built from it. Issues are critical; warnings count half.
type QualityReport struct {
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    float64  `json:"score"`
	Grade    Grade    `json:"grade"`

	MissingDTC []model.Territory `json:"missing_dtc,omitempty"`

	B2BRevenue         float64 `json:"b2b_revenue"`
	DTCRevenue         float64 `json:"dtc_revenue"`
	MarketplaceRevenue float64 `json:"marketplace_revenue"`
	ChannelRevenue     float64 `json:"channel_revenue"`
	StatementRevenue   float64 `json:"statement_revenue"`
	Reconciled         bool    `json:"reconciled"`
}

func (r *QualityReport) issue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

func (r *QualityReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// CheckQuality runs the completeness, anomaly and reconciliation checks. The
// channel totals are computed independently of the combined statement and
// compared with its Total Revenue.
func CheckQuality(calc *pl.Calculator, data *model.Dataset) (*QualityReport, error) {
	r := &QualityReport{Issues: []string{}, Warnings: []string{}}

	// completeness
	for _, t := range model.DTCTerritories {
		if tbl, ok := data.DTC[t]; !ok || tbl == nil {
			r.MissingDTC = append(r.MissingDTC, t)
		}
	}
	if len(r.MissingDTC) > 0 {
		r.warn("missing DTC data for %d territories", len(r.MissingDTC))
	}
	if n := len(data.Dates); n < minHorizonMonths {
		r.warn("horizon has only %d months (expected %d)", n, minHorizonMonths)
	}

	// revenue
	hasLedger := data.B2B != nil
	if hasLedger {
		b2b, err := calc.B2BRevenue("")
		if err != nil {
			return nil, err
		}
		r.B2BRevenue = b2b.Total()
		if r.B2BRevenue == 0 {
			r.issue("B2B revenue is zero")
		}
	} else {
		r.issue("missing B2B data")
	}
	dtcByTerritory := make(map[model.Territory]model.Series)
	for _, t := range model.DTCTerritories {
		if _, ok := data.DTC[t]; !ok {
			continue
		}
		s := calc.DTCRevenue(t)
		dtcByTerritory[t] = s
		r.DTCRevenue += s.Total()
	}
	if r.DTCRevenue == 0 {
		r.issue("DTC revenue is zero")
	}
	r.MarketplaceRevenue = calc.TotalMarketplaceRevenue().Total()
	r.ChannelRevenue = r.B2BRevenue + r.DTCRevenue + r.MarketplaceRevenue
	if r.ChannelRevenue < lowRevenueThreshold {
		r.warn("total revenue seems low (%.0f)", r.ChannelRevenue)
	}

	// anomalies
	for _, t := range model.DTCTerritories {
		s, ok := dtcByTerritory[t]
		if !ok {
			continue
		}
		for i := 1; i < len(s) && i < len(data.Dates); i++ {
			if s[i-1] <= 0 {
				continue
			}
			growth := (s[i] - s[i-1]) / s[i-1] * 100
			if math.Abs(growth) > maxMoMGrowthPct {
				r.warn("%s DTC: %+.0f%% MoM growth in %s", t, growth, data.Dates[i])
			}
		}
	}
	channels := make([]string, 0, len(data.CogsRates))
	for ch := range data.CogsRates {
		channels = append(channels, string(ch))
	}
	sort.Strings(channels)
	for _, ch := range channels {
		if rate := data.CogsRates[model.Channel(ch)]; rate < 0 || rate > 1 {
			r.warn("unusual %s CoGS rate (%.1f%%)", ch, rate*100)
		}
	}

	// reconciliation
	if hasLedger {
		st, err := calc.CombinedPL()
		if err != nil {
			return nil, err
		}
		r.StatementRevenue = st.Total(pl.CategoryRevenue).Total()
		diff := math.Abs(r.StatementRevenue - r.ChannelRevenue)
		r.Reconciled = diff < reconciliationTolerance
		if !r.Reconciled {
			r.issue("revenue reconciliation error: %.0f difference", diff)
		}
	}

	r.Score = qualityScore(len(r.Issues), len(r.Warnings))
	r.Grade = gradeOf(r.Score)
	return r, nil
}

func qualityScore(issues, warnings int) float64 {
	passed := float64(qualityChecks) - float64(issues) - 0.5*float64(warnings)
	if passed < 0 {
		return 0
	}
	return passed / qualityChecks * 100
}

func gradeOf(score float64) Grade {
	switch {
	case score >= 80:
		return GradeGood
	case score >= 60:
		return GradeAcceptable
	}
	return GradePoor
}
