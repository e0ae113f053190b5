package pl

import (
	"errors"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// B2BRevenue sums the customer ledger for a territory, or the whole ledger
// when t is empty. b2b_growth applies uniformly.
func (c *Calculator) B2BRevenue(t model.Territory) (model.Series, error) {
	ledger, err := c.ledger()
	if err != nil {
		return nil, err
	}
	var idx []int
	if t == "" {
		idx = allRows(len(ledger.Rows))
	} else {
		idx, _ = c.selectRows(t, territory.TableB2B, model.ChannelB2B, ledgerRows{ledger})
	}
	sum := c.sumRows(idx, func(i int) model.Series { return ledger.Rows[i].Values })
	return c.b2bGrowth(sum), nil
}

// B2BRevenueByGroup sums the customer ledger rows tagged with a country group
// (e.g. "UK", "CE", "EE", "ROW").
func (c *Calculator) B2BRevenueByGroup(group string) (model.Series, error) {
	ledger, err := c.ledger()
	if err != nil {
		return nil, err
	}
	if !ledger.HasGroupColumn {
		c.note(group, territory.TableB2B, model.ChannelB2B, territory.ErrMissingGroupColumn)
		return c.zero(), nil
	}
	var idx []int
	for i, r := range ledger.Rows {
		if strings.EqualFold(strings.TrimSpace(r.CountryGroup), strings.TrimSpace(group)) {
			idx = append(idx, i)
		}
	}
	sum := c.sumRows(idx, func(i int) model.Series { return ledger.Rows[i].Values })
	return c.b2bGrowth(sum), nil
}

func (c *Calculator) b2bGrowth(s model.Series) model.Series {
	return c.adjust(s, scenario.B2BGrowth{}.Key())
}

// adjust passes every value of s through the scenario adjustment under key.
func (c *Calculator) adjust(s model.Series, key string) model.Series {
	return s.Map(func(v float64) float64 { return c.scen.Apply(v, key) })
}

// DTCRevenue returns the territory's "Total Revenue" metric row. Territories
// without a DTC table legitimately have zero DTC revenue.
func (c *Calculator) DTCRevenue(t model.Territory) model.Series {
	res := c.engine.resolver.Resolve(t, territory.TableDTC)
	if res.Err != nil {
		c.note(string(t), territory.TableDTC, model.ChannelDTC, res.Err)
		return c.zero()
	}
	tbl, ok := c.data.DTC[model.Territory(res.Names[0])]
	if !ok || tbl == nil {
		return c.zero()
	}
	metric := c.engine.settings.DTCRevenueMetric
	var values model.Series
	found := false
	for _, m := range tbl.Metrics {
		if strings.EqualFold(strings.TrimSpace(m.Name), metric) {
			values, found = m.Values, true
			break
		}
	}
	if !found {
		c.note(string(t), territory.TableDTC, model.ChannelDTC, errors.New("dtc table has no \""+metric+"\" row"))
		return c.zero()
	}
	return c.adjust(c.align(values), scenario.DTCGrowth{Territory: t}.Key())
}

// TotalDTCRevenue sums DTC revenue over the reporting territories.
func (c *Calculator) TotalDTCRevenue() model.Series {
	out := c.zero()
	for _, t := range c.engine.settings.Territories {
		out = out.Add(c.DTCRevenue(t))
	}
	return out
}

// MarketplaceRevenue reads the territory's row in the marketplace table's
// absolute-revenue section. mp_growth applies uniformly.
func (c *Calculator) MarketplaceRevenue(t model.Territory) model.Series {
	mp := c.data.Marketplace
	if mp == nil || len(mp.Rows) == 0 {
		return c.zero()
	}
	section := labeledRows(c.marketplaceSection(mp.Rows))
	idx, ok := c.selectRows(t, territory.TableMarketplace, model.ChannelMarketplace, section)
	if !ok || len(idx) == 0 {
		return c.zero()
	}
	return c.adjust(c.align(section[idx[0]].Values), scenario.MarketplaceGrowth{}.Key())
}

// marketplaceSection returns the rows after the section label, bounded by
// the configured window, or every row when the label is absent.
func (c *Calculator) marketplaceSection(rows []model.LabeledRow) []model.LabeledRow {
	label := strings.TrimSpace(c.engine.settings.MarketplaceSectionLabel)
	for i, r := range rows {
		if strings.TrimSpace(r.Label) != label {
			continue
		}
		start := i + 1
		end := len(rows)
		if w := c.engine.settings.MarketplaceSectionRows; w > 0 && start+w < end {
			end = start + w
		}
		return rows[start:end]
	}
	return rows
}

// TotalMarketplaceRevenue sums marketplace revenue over every
// marketplace-eligible territory.
func (c *Calculator) TotalMarketplaceRevenue() model.Series {
	out := c.zero()
	for _, t := range c.engine.settings.MarketplaceTerritories {
		out = out.Add(c.MarketplaceRevenue(t))
	}
	return out
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
