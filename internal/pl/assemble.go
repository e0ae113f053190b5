package pl

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// channelInputs are the series a statement is assembled from. Every
// subtotal is derived from them by assemble.
type channelInputs struct {
	revenue    map[model.Channel]model.Series
	cogs       map[model.Channel]model.Series
	fulfilment map[model.Channel]model.Series
	overheads  model.Series
}

func newChannelInputs(n int) channelInputs {
	in := channelInputs{
		revenue:    make(map[model.Channel]model.Series, len(model.Channels)),
		cogs:       make(map[model.Channel]model.Series, len(model.Channels)),
		fulfilment: make(map[model.Channel]model.Series, len(model.Channels)),
		overheads:  model.Zero(n),
	}
	for _, ch := range model.Channels {
		in.revenue[ch] = model.Zero(n)
		in.cogs[ch] = model.Zero(n)
		in.fulfilment[ch] = model.Zero(n)
	}
	return in
}

// assemble lays the inputs out in the fixed hierarchy. Totals are sums of
// their sibling channel lines, so the total-line identities hold by
// construction.
func assemble(label, scen string, h model.Horizon, in channelInputs) *Statement {
	n := len(h)
	st := newStatement(label, scen, h)

	cm1 := make(map[model.Channel]model.Series, len(model.Channels))
	for _, ch := range model.Channels {
		cm1[ch] = model.Sum(n, in.revenue[ch], in.cogs[ch])
	}

	addChannels(st, CategoryRevenue, n, in.revenue)
	addChannels(st, CategoryCoGS, n, in.cogs)
	totalCM1 := addChannels(st, CategoryCM1, n, cm1)
	totalFulfilment := addChannels(st, CategoryFulfilment, n, in.fulfilment)

	cm2 := model.Sum(n, totalCM1, totalFulfilment)
	st.add(CategoryCM2, TotalLine(CategoryCM2), cm2)
	st.add(CategoryOverheads, TotalLine(CategoryOverheads), model.Sum(n, in.overheads))
	st.add(CategoryEBITDA, TotalLine(CategoryEBITDA), model.Sum(n, cm2, in.overheads))
	return st
}

// addChannels adds the channel lines of cat followed by their total, and
// returns the total.
func addChannels(st *Statement, cat Category, n int, lines map[model.Channel]model.Series) model.Series {
	parts := make([]model.Series, 0, len(model.Channels))
	for _, ch := range model.Channels {
		v := model.Sum(n, lines[ch])
		st.add(cat, ChannelLine(cat, ch), v)
		parts = append(parts, v)
	}
	total := model.Sum(n, parts...)
	st.add(cat, TotalLine(cat), total)
	return total
}

// TerritoryPL assembles the statement for one territory. Channels without
// data for the territory contribute zero; only a missing customer ledger or
// an unknown territory fails.
func (c *Calculator) TerritoryPL(t model.Territory) (*Statement, error) {
	defer c.engine.metrics.ObserveSince("territory_pl", time.Now())
	if _, ok := c.engine.resolver.Entry(t); !ok {
		return nil, fmt.Errorf("%w: %q", territory.ErrUnknownTerritory, t)
	}
	mark := len(c.diags)
	in, err := c.territoryInputs(t)
	if err != nil {
		return nil, err
	}
	st := assemble(string(t), c.scen.Name, c.data.Dates, in)
	st.Diagnostics = uniqueDiagnostics(c.diags[mark:])
	c.engine.metrics.StatementBuilt("territory")
	c.engine.logger.Debug("statement assembled",
		slog.String("territory", string(t)),
		slog.String("scenario", c.scen.Name),
		slog.Int("diagnostics", len(st.Diagnostics)),
	)
	return st, nil
}

func (c *Calculator) territoryInputs(t model.Territory) (channelInputs, error) {
	b2b, err := c.B2BRevenue(t)
	if err != nil {
		return channelInputs{}, err
	}
	in := newChannelInputs(len(c.data.Dates))
	in.revenue[model.ChannelDTC] = c.DTCRevenue(t)
	in.revenue[model.ChannelB2B] = b2b
	in.revenue[model.ChannelMarketplace] = c.MarketplaceRevenue(t)
	for _, ch := range model.Channels {
		in.cogs[ch] = c.Cogs(in.revenue[ch], ch)
		in.fulfilment[ch] = c.Fulfilment(in.revenue[ch], t, ch)
	}
	in.overheads = c.Overheads(t, "")
	return in, nil
}

// PerTerritory assembles a statement for every reporting territory.
func (c *Calculator) PerTerritory() (map[model.Territory]*Statement, error) {
	out := make(map[model.Territory]*Statement, len(c.engine.settings.Territories))
	for _, t := range c.engine.settings.Territories {
		st, err := c.TerritoryPL(t)
		if err != nil {
			return nil, fmt.Errorf("territory %s: %w", t, err)
		}
		out[t] = st
	}
	return out, nil
}

// CombinedPL sums the per-territory statements line by line, then adds the
// central overhead to the combined Overheads only and derives EBITDA again.
func (c *Calculator) CombinedPL() (*Statement, error) {
	defer c.engine.metrics.ObserveSince("combined_pl", time.Now())
	if _, err := c.ledger(); err != nil {
		return nil, err
	}
	mark := len(c.diags)
	per, err := c.PerTerritory()
	if err != nil {
		return nil, err
	}

	in := newChannelInputs(len(c.data.Dates))
	for _, t := range c.engine.settings.Territories {
		st := per[t]
		for _, ch := range model.Channels {
			in.revenue[ch] = in.revenue[ch].Add(st.Channel(CategoryRevenue, ch))
			in.cogs[ch] = in.cogs[ch].Add(st.Channel(CategoryCoGS, ch))
			in.fulfilment[ch] = in.fulfilment[ch].Add(st.Channel(CategoryFulfilment, ch))
		}
		in.overheads = in.overheads.Add(st.Total(CategoryOverheads))
	}
	in.overheads = in.overheads.Add(c.CentralOverheads())

	st := assemble(model.Combined, c.scen.Name, c.data.Dates, in)
	st.Diagnostics = uniqueDiagnostics(c.diags[mark:])
	c.engine.metrics.StatementBuilt("combined")
	c.engine.logger.Debug("combined statement assembled",
		slog.String("scenario", c.scen.Name),
		slog.Int("territories", len(per)),
		slog.Int("diagnostics", len(st.Diagnostics)),
	)
	return st, nil
}
