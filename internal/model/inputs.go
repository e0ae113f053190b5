package model

import (
	"errors"
	"fmt"
)

// Dataset is the canonical "inputs to the system" object: every table the
// calculators read, with period values already aligned to Dates.
//
// A Dataset is a snapshot. Calculators only read it; edits go through
// WithCustomer (or Clone) and produce a new snapshot.
type Dataset struct {
	Dates Horizon

	// B2B is required for any statement; nil means the ledger was not supplied.
	B2B         *CustomerLedger
	DTC         map[Territory]*DTCTable
	Marketplace *MarketplaceTable
	Overheads   []OverheadRow
	Fulfilment  []FulfilmentRate
	CogsRates   map[Channel]float64
}

// CustomerLedger holds one row per customer-revenue entry.
type CustomerLedger struct {
	// HasGroupColumn is false when the source table had no country-group
	// column; aggregate territories cannot be resolved against it.
	HasGroupColumn bool
	Rows           []CustomerRow
}

type CustomerRow struct {
	Customer     string
	Country      string
	CountryGroup string
	Margin       float64
	Values       Series
}

// DTCTable is one territory's direct-to-consumer metric sheet.
type DTCTable struct {
	Label   string
	Metrics []MetricRow
}

type MetricRow struct {
	Name   string
	Values Series
}

// MarketplaceTable keeps the sheet's rows in order, including the section
// boundary rows, because the per-territory revenue is located by position.
type MarketplaceTable struct {
	Rows []LabeledRow
}

type LabeledRow struct {
	Label  string
	Values Series
}

type OverheadRow struct {
	Territory string
	Function  string
	Category  string
	Values    Series
}

// FulfilmentRate is a signed fraction of revenue (e.g. -0.15).
type FulfilmentRate struct {
	Country string
	Channel Channel
	Rate    float64
}

var ErrSeriesLength = errors.New("series length does not match horizon")

func (d *Dataset) Validate() error {
	if d == nil {
		return errors.New("dataset is nil")
	}
	if err := d.Dates.Validate(); err != nil {
		return fmt.Errorf("dates: %w", err)
	}
	n := len(d.Dates)
	check := func(table string, i int, s Series) error {
		if len(s) != n {
			return fmt.Errorf("%s row %d: %w (got %d, want %d)", table, i, ErrSeriesLength, len(s), n)
		}
		return nil
	}
	if d.B2B != nil {
		for i, r := range d.B2B.Rows {
			if err := check("b2b", i, r.Values); err != nil {
				return err
			}
		}
	}
	for t, tbl := range d.DTC {
		if tbl == nil {
			continue
		}
		for i, r := range tbl.Metrics {
			if err := check("dtc "+string(t), i, r.Values); err != nil {
				return err
			}
		}
	}
	if d.Marketplace != nil {
		for i, r := range d.Marketplace.Rows {
			if err := check("amazon", i, r.Values); err != nil {
				return err
			}
		}
	}
	for i, r := range d.Overheads {
		if err := check("overheads", i, r.Values); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy safe to edit independently.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Dates:      append(Horizon(nil), d.Dates...),
		Overheads:  make([]OverheadRow, len(d.Overheads)),
		Fulfilment: append([]FulfilmentRate(nil), d.Fulfilment...),
	}
	if d.B2B != nil {
		l := &CustomerLedger{HasGroupColumn: d.B2B.HasGroupColumn, Rows: make([]CustomerRow, len(d.B2B.Rows))}
		for i, r := range d.B2B.Rows {
			r.Values = r.Values.Clone()
			l.Rows[i] = r
		}
		out.B2B = l
	}
	if d.DTC != nil {
		out.DTC = make(map[Territory]*DTCTable, len(d.DTC))
		for t, tbl := range d.DTC {
			if tbl == nil {
				continue
			}
			c := &DTCTable{Label: tbl.Label, Metrics: make([]MetricRow, len(tbl.Metrics))}
			for i, m := range tbl.Metrics {
				c.Metrics[i] = MetricRow{Name: m.Name, Values: m.Values.Clone()}
			}
			out.DTC[t] = c
		}
	}
	if d.Marketplace != nil {
		m := &MarketplaceTable{Rows: make([]LabeledRow, len(d.Marketplace.Rows))}
		for i, r := range d.Marketplace.Rows {
			m.Rows[i] = LabeledRow{Label: r.Label, Values: r.Values.Clone()}
		}
		out.Marketplace = m
	}
	for i, r := range d.Overheads {
		r.Values = r.Values.Clone()
		out.Overheads[i] = r
	}
	if d.CogsRates != nil {
		out.CogsRates = make(map[Channel]float64, len(d.CogsRates))
		for k, v := range d.CogsRates {
			out.CogsRates[k] = v
		}
	}
	return out
}

// WithCustomer returns a new snapshot with row appended to the customer ledger.
func (d *Dataset) WithCustomer(row CustomerRow) (*Dataset, error) {
	if len(row.Values) != len(d.Dates) {
		return nil, fmt.Errorf("customer %q: %w", row.Customer, ErrSeriesLength)
	}
	out := d.Clone()
	if out.B2B == nil {
		out.B2B = &CustomerLedger{HasGroupColumn: true}
	}
	row.Values = row.Values.Clone()
	out.B2B.Rows = append(out.B2B.Rows, row)
	return out, nil
}
