package pl

import (
	"errors"
	"log/slog"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// ErrMissingInput is matched by every *MissingInputError.
var ErrMissingInput = errors.New("cannot compute: missing input")

// MissingInputError reports a required input table that was not supplied.
type MissingInputError struct {
	Input string
}

func (e *MissingInputError) Error() string { return "cannot compute: missing " + e.Input }

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// Diagnostic records a territory that could not be mapped onto a table. The
// affected series is zero, but unlike a genuine zero it is explained here.
type Diagnostic struct {
	Territory string          `json:"territory"`
	Table     territory.Table `json:"table"`
	Channel   model.Channel   `json:"channel,omitempty"`
	Reason    string          `json:"reason"`
}

// Calculator computes revenue, cost and statements for one (dataset,
// scenario) pair. It never mutates the dataset. Not safe for concurrent use:
// it accumulates diagnostics.
type Calculator struct {
	engine *Engine
	data   *model.Dataset
	scen   scenario.Scenario
	diags  []Diagnostic
}

func (c *Calculator) Dates() model.Horizon { return c.data.Dates }

func (c *Calculator) Scenario() scenario.Scenario { return c.scen }

// Diagnostics returns the distinct resolution failures seen so far.
func (c *Calculator) Diagnostics() []Diagnostic {
	return uniqueDiagnostics(c.diags)
}

func (c *Calculator) zero() model.Series { return model.Zero(len(c.data.Dates)) }

func (c *Calculator) ledger() (*model.CustomerLedger, error) {
	if c.data == nil || c.data.B2B == nil {
		return nil, &MissingInputError{Input: "customer ledger"}
	}
	return c.data.B2B, nil
}

// selectRows resolves t against a table and records a diagnostic when the
// resolution fails. ok is false only on failure.
func (c *Calculator) selectRows(t model.Territory, table territory.Table, ch model.Channel, rows territory.Rows) ([]int, bool) {
	idx, err := c.engine.resolver.Resolve(t, table).Select(rows)
	if err != nil {
		c.note(string(t), table, ch, err)
		return nil, false
	}
	return idx, true
}

func (c *Calculator) note(label string, table territory.Table, ch model.Channel, err error) {
	d := Diagnostic{Territory: label, Table: table, Channel: ch, Reason: err.Error()}
	c.diags = append(c.diags, d)
	c.engine.metrics.ResolutionFailure(string(table))
	c.engine.logger.Debug("territory resolution failed",
		slog.String("territory", label),
		slog.String("table", string(table)),
		slog.String("channel", string(ch)),
		slog.Any("error", err),
	)
}

func uniqueDiagnostics(in []Diagnostic) []Diagnostic {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Diagnostic]struct{}, len(in))
	out := make([]Diagnostic, 0, len(in))
	for _, d := range in {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// sumRows adds the selected rows' series.
func (c *Calculator) sumRows(idx []int, values func(i int) model.Series) model.Series {
	out := c.zero()
	for _, i := range idx {
		v := values(i)
		for p := range out {
			if p < len(v) {
				out[p] += v[p]
			}
		}
	}
	return out
}

// align copies s onto the horizon, padding with zeros.
func (c *Calculator) align(s model.Series) model.Series {
	out := c.zero()
	copy(out, s)
	return out
}

// row adapters for the resolver

type ledgerRows struct{ l *model.CustomerLedger }

func (r ledgerRows) Len() int             { return len(r.l.Rows) }
func (r ledgerRows) Name(i int) string    { return r.l.Rows[i].Country }
func (r ledgerRows) Group(i int) string   { return r.l.Rows[i].CountryGroup }
func (r ledgerRows) HasGroupColumn() bool { return r.l.HasGroupColumn }

type labeledRows []model.LabeledRow

func (r labeledRows) Len() int             { return len(r) }
func (r labeledRows) Name(i int) string    { return r[i].Label }
func (r labeledRows) Group(int) string     { return "" }
func (r labeledRows) HasGroupColumn() bool { return false }

type overheadRows []model.OverheadRow

func (r overheadRows) Len() int             { return len(r) }
func (r overheadRows) Name(i int) string    { return r[i].Territory }
func (r overheadRows) Group(int) string     { return "" }
func (r overheadRows) HasGroupColumn() bool { return false }

type fulfilmentRows []model.FulfilmentRate

func (r fulfilmentRows) Len() int             { return len(r) }
func (r fulfilmentRows) Name(i int) string    { return r[i].Country }
func (r fulfilmentRows) Group(int) string     { return "" }
func (r fulfilmentRows) HasGroupColumn() bool { return false }
