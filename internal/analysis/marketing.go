package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

const (
	marketingMetric   = "Marketing Budget"
	marketingFunction = "marketing"
	// cutPenalty scales the revenue lost per £1 when spend is reduced.
	cutPenalty = 1.2
)

// CentralMarketing labels marketing booked in the overhead ledger.
const CentralMarketing = "Central"

// MarketingSpend is one source of marketing spend: a DTC territory's
// budget, or central marketing from the overhead ledger.
type MarketingSpend struct {
	Source   string       `json:"source"`
	Channel  string       `json:"channel"`
	Monthly  model.Series `json:"monthly"`
	Annual   float64      `json:"annual"`
	SharePct float64      `json:"share_pct"`
}

// MarketingReturn is revenue per £1 of marketing for one DTC territory.
type MarketingReturn struct {
	Territory       model.Territory `json:"territory"`
	Spend           float64         `json:"spend"`
	Revenue         float64         `json:"revenue"`
	RevenuePerPound float64         `json:"revenue_per_pound"`
}

type MarketingReport struct {
	// Spend is sorted by annual spend, largest first.
	Spend   []MarketingSpend `json:"spend"`
	Monthly model.Series     `json:"monthly"`

	Total           float64 `json:"total"`
	AvgMonthly      float64 `json:"avg_monthly"`
	Revenue         float64 `json:"revenue"`
	PctOfRevenue    float64 `json:"pct_of_revenue"`
	RevenuePerPound float64 `json:"revenue_per_pound"`
	// Territories counts DTC territories with spend; central marketing is
	// not a territory.
	Territories int `json:"territories"`

	// Returns is sorted by revenue per £1, best first.
	Returns []MarketingReturn `json:"returns"`
}

// Marketing collects marketing spend from the DTC "Marketing Budget" rows
// and from overhead rows whose function mentions marketing, and relates it
// to channel revenue. Ratios with no spend or no revenue are zero.
func Marketing(calc *pl.Calculator, data *model.Dataset) (*MarketingReport, error) {
	n := len(data.Dates)
	r := &MarketingReport{Spend: []MarketingSpend{}, Returns: []MarketingReturn{}, Monthly: model.Zero(n)}

	dtcRevenue := make(map[model.Territory]float64)
	for _, t := range model.DTCTerritories {
		tbl, ok := data.DTC[t]
		if !ok || tbl == nil {
			continue
		}
		dtcRevenue[t] = calc.DTCRevenue(t).Total()
		budget, ok := metric(tbl, marketingMetric)
		if !ok {
			continue
		}
		r.add(string(t), string(model.ChannelDTC), model.Sum(n, budget))
	}

	central := model.Zero(n)
	for _, row := range data.Overheads {
		if !strings.Contains(strings.ToLower(row.Function), marketingFunction) {
			continue
		}
		central = central.Add(model.Sum(n, row.Values))
	}
	r.add(CentralMarketing, "Group", central.Map(math.Abs))

	// revenue
	if data.B2B != nil {
		b2b, err := calc.B2BRevenue("")
		if err != nil {
			return nil, err
		}
		r.Revenue += b2b.Total()
	}
	for _, t := range model.DTCTerritories {
		r.Revenue += dtcRevenue[t]
	}
	r.Revenue += calc.TotalMarketplaceRevenue().Total()

	for i := range r.Spend {
		r.Total += r.Spend[i].Annual
		r.Monthly = r.Monthly.Add(r.Spend[i].Monthly)
		if r.Spend[i].Source != CentralMarketing {
			r.Territories++
		}
	}
	for i := range r.Spend {
		r.Spend[i].SharePct = ratio(r.Spend[i].Annual, r.Total) * 100
	}
	sort.SliceStable(r.Spend, func(i, j int) bool { return r.Spend[i].Annual > r.Spend[j].Annual })

	if n > 0 {
		r.AvgMonthly = r.Total / float64(n)
	}
	r.PctOfRevenue = ratio(r.Total, r.Revenue) * 100
	r.RevenuePerPound = ratio(r.Revenue, r.Total)

	for _, s := range r.Spend {
		t := model.Territory(s.Source)
		rev, ok := dtcRevenue[t]
		if !ok {
			continue
		}
		r.Returns = append(r.Returns, MarketingReturn{
			Territory:       t,
			Spend:           s.Annual,
			Revenue:         rev,
			RevenuePerPound: ratio(rev, s.Annual),
		})
	}
	sort.SliceStable(r.Returns, func(i, j int) bool {
		if r.Returns[i].RevenuePerPound != r.Returns[j].RevenuePerPound {
			return r.Returns[i].RevenuePerPound > r.Returns[j].RevenuePerPound
		}
		return r.Returns[i].Territory < r.Returns[j].Territory
	})
	return r, nil
}

// add records a source unless it has no positive spend over the horizon.
func (r *MarketingReport) add(source, channel string, monthly model.Series) {
	annual := monthly.Total()
	if annual <= 0 {
		return
	}
	r.Spend = append(r.Spend, MarketingSpend{Source: source, Channel: channel, Monthly: monthly, Annual: annual})
}

// MarketingProjection estimates total revenue after changing the marketing
// budget by ChangePct percent at an assumed return per £1.
type MarketingProjection struct {
	ChangePct     float64 `json:"change_pct"`
	AssumedReturn float64 `json:"assumed_return"`

	Spend        float64 `json:"spend"`
	SpendDelta   float64 `json:"spend_delta"`
	Revenue      float64 `json:"revenue"`
	RevenueDelta float64 `json:"revenue_delta"`
	PctOfRevenue float64 `json:"pct_of_revenue"`
	// PointChange is the move in marketing share of revenue, in percentage points.
	PointChange float64 `json:"point_change"`
}

// Project applies a budget change. Cuts lose revenue faster than increases
// gain it.
func (r *MarketingReport) Project(changePct, assumedReturn float64) MarketingProjection {
	p := MarketingProjection{ChangePct: changePct, AssumedReturn: assumedReturn}
	p.Spend = r.Total * (1 + changePct/100)
	p.SpendDelta = p.Spend - r.Total
	p.RevenueDelta = p.SpendDelta * assumedReturn
	if changePct < 0 {
		p.RevenueDelta *= cutPenalty
	}
	p.Revenue = r.Revenue + p.RevenueDelta
	p.PctOfRevenue = ratio(p.Spend, p.Revenue) * 100
	p.PointChange = p.PctOfRevenue - r.PctOfRevenue
	return p
}

func metric(tbl *model.DTCTable, name string) (model.Series, bool) {
	for _, m := range tbl.Metrics {
		if strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return m.Values, true
		}
	}
	return nil, false
}

// ratio is num/den, or zero when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
