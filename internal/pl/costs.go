package pl

import (
	"math"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// Cogs prices revenue at the channel's CoGS rate. The result is never
// positive whatever the sign of the revenue.
func (c *Calculator) Cogs(rev model.Series, ch model.Channel) model.Series {
	rate := c.CogsRate(ch)
	return rev.Map(func(v float64) float64 { return clean(-math.Abs(v * rate)) })
}

// CogsRate is the effective rate for ch: a scenario override, else the
// dataset's rate table, else the configured defaults.
func (c *Calculator) CogsRate(ch model.Channel) float64 {
	return c.scen.Apply(c.baseCogsRate(ch), scenario.CogsOverride{Channel: ch}.Key())
}

func (c *Calculator) baseCogsRate(ch model.Channel) float64 {
	if r, ok := c.data.CogsRates[ch]; ok {
		return r
	}
	if r, ok := c.engine.settings.CogsRates[ch]; ok {
		return r
	}
	return c.engine.settings.FallbackCogsRate
}

// Fulfilment prices revenue at the (territory, channel) fulfilment rate. The
// rate carries its own sign.
func (c *Calculator) Fulfilment(rev model.Series, t model.Territory, ch model.Channel) model.Series {
	rate := c.FulfilmentRate(t, ch)
	return rev.Map(func(v float64) float64 { return clean(v * rate) })
}

// FulfilmentRate is a scenario override, else the dataset's rate for the
// territory and channel, else the configured default.
func (c *Calculator) FulfilmentRate(t model.Territory, ch model.Channel) float64 {
	key := scenario.FulfilmentOverride{Territory: t, Channel: ch}.Key()
	return c.scen.Apply(c.baseFulfilmentRate(t, ch), key)
}

func (c *Calculator) baseFulfilmentRate(t model.Territory, ch model.Channel) float64 {
	rate := c.engine.settings.DefaultFulfilmentRate
	var rows fulfilmentRows
	for _, r := range c.data.Fulfilment {
		if strings.EqualFold(string(r.Channel), string(ch)) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return rate
	}
	idx, ok := c.selectRows(t, territory.TableFulfilment, ch, rows)
	if !ok || len(idx) == 0 {
		return rate
	}
	return rows[idx[0]].Rate
}

// Overheads sums the overhead ledger rows for a territory (all rows when t is
// empty), optionally restricted to one function. Overheads are entered
// already signed, so no rate applies.
func (c *Calculator) Overheads(t model.Territory, function string) model.Series {
	rows := overheadRows(c.data.Overheads)
	var idx []int
	if t == "" {
		idx = allRows(len(rows))
	} else {
		idx, _ = c.selectRows(t, territory.TableOverheads, "", rows)
	}
	if function = strings.TrimSpace(function); function != "" {
		var kept []int
		for _, i := range idx {
			if strings.EqualFold(strings.TrimSpace(rows[i].Function), function) {
				kept = append(kept, i)
			}
		}
		idx = kept
	}
	return c.sumRows(idx, func(i int) model.Series { return rows[i].Values })
}

// CentralOverheads sums the rows tagged as central/group cost. They belong to
// no territory and only ever reach the combined statement.
func (c *Calculator) CentralOverheads() model.Series {
	tags := make(map[string]struct{}, len(c.engine.settings.CentralOverheadTags))
	for _, tag := range c.engine.settings.CentralOverheadTags {
		tags[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	var idx []int
	for i, r := range c.data.Overheads {
		if _, ok := tags[strings.ToLower(strings.TrimSpace(r.Territory))]; ok {
			idx = append(idx, i)
		}
	}
	return c.sumRows(idx, func(i int) model.Series { return c.data.Overheads[i].Values })
}

// clean folds negative zero into zero.
func clean(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
