package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

var (
	ErrMalformedTable    = errors.New("data: malformed table")
	ErrUnsupportedFormat = errors.New("data: unsupported dataset format")
)

// Document is the on-disk and on-the-wire shape of a dataset: every sheet as
// a {columns, rows} table.
type Document struct {
	Dates      []string          `json:"dates" yaml:"dates"`
	B2B        *Table            `json:"b2b,omitempty" yaml:"b2b,omitempty"`
	DTC        map[string]*Table `json:"dtc,omitempty" yaml:"dtc,omitempty"`
	Amazon     *Table            `json:"amazon,omitempty" yaml:"amazon,omitempty"`
	Overheads  *Table            `json:"overheads,omitempty" yaml:"overheads,omitempty"`
	Fulfilment *Table            `json:"fulfilment,omitempty" yaml:"fulfilment,omitempty"`
	CogsRates  map[string]Cell   `json:"cogs_rates,omitempty" yaml:"cogs_rates,omitempty"`
}

// LoadDataset reads a .json, .yaml or .yml dataset file.
func LoadDataset(path string) (*model.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeDataset(raw)
	case ".yaml", ".yml":
		return DecodeDatasetYAML(raw)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// DecodeDataset decodes a JSON dataset document.
func DecodeDataset(raw []byte) (*model.Dataset, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return doc.Dataset()
}

func DecodeDatasetYAML(raw []byte) (*model.Dataset, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return doc.Dataset()
}

// Dataset converts the document into the typed input model.
func (doc *Document) Dataset() (*model.Dataset, error) {
	dates, err := model.NewHorizon(doc.Dates)
	if err != nil {
		return nil, fmt.Errorf("dates: %w", err)
	}
	ds := &model.Dataset{Dates: dates}

	if doc.B2B != nil {
		if ds.B2B, err = decodeLedger(doc.B2B, dates); err != nil {
			return nil, err
		}
	}
	if len(doc.DTC) > 0 {
		ds.DTC = make(map[model.Territory]*model.DTCTable, len(doc.DTC))
		for key, tbl := range doc.DTC {
			if tbl == nil {
				continue
			}
			t, err := decodeDTC(key, tbl, dates)
			if err != nil {
				return nil, err
			}
			ds.DTC[model.Territory(strings.TrimSpace(key))] = t
		}
	}
	if doc.Amazon != nil {
		ds.Marketplace = decodeMarketplace(doc.Amazon, dates)
	}
	if doc.Overheads != nil {
		if ds.Overheads, err = decodeOverheads(doc.Overheads, dates); err != nil {
			return nil, err
		}
	}
	if doc.Fulfilment != nil {
		if ds.Fulfilment, err = decodeFulfilment(doc.Fulfilment); err != nil {
			return nil, err
		}
	}
	if len(doc.CogsRates) > 0 {
		ds.CogsRates = make(map[model.Channel]float64, len(doc.CogsRates))
		for k, v := range doc.CogsRates {
			ds.CogsRates[channelOf(k)] = v.Num
		}
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// periodColumns maps each horizon period to its column, -1 when absent.
func periodColumns(t *Table, dates model.Horizon) []int {
	idx := make([]int, len(dates))
	for i, p := range dates {
		idx[i] = t.column(string(p))
	}
	return idx
}

func values(row []Cell, cols []int) model.Series {
	out := make(model.Series, len(cols))
	for i, c := range cols {
		if c >= 0 {
			out[i] = row[c].Num
		}
	}
	return out
}

func required(name string, t *Table, cols ...string) (int, error) {
	i := t.column(cols...)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s: missing column %q", ErrMalformedTable, name, cols[0])
	}
	return i, nil
}

func text(row []Cell, col int) string {
	if col < 0 {
		return ""
	}
	return row[col].String()
}

func decodeLedger(t *Table, dates model.Horizon) (*model.CustomerLedger, error) {
	t.normalize()
	country, err := required("b2b", t, "Country")
	if err != nil {
		return nil, err
	}
	customer := t.column("Customer Name", "Customer")
	group := t.column("Country Group")
	margin := t.column("Customer Margin")
	cols := periodColumns(t, dates)

	l := &model.CustomerLedger{HasGroupColumn: group >= 0, Rows: make([]model.CustomerRow, 0, len(t.Rows))}
	for _, r := range t.Rows {
		row := model.CustomerRow{
			Customer:     text(r, customer),
			Country:      text(r, country),
			CountryGroup: text(r, group),
			Values:       values(r, cols),
		}
		if margin >= 0 {
			row.Margin = r[margin].Num
		}
		l.Rows = append(l.Rows, row)
	}
	return l, nil
}

func decodeDTC(key string, t *Table, dates model.Horizon) (*model.DTCTable, error) {
	t.normalize()
	metric, err := required("dtc "+key, t, "Metric")
	if err != nil {
		return nil, err
	}
	label := t.column("Territory")
	cols := periodColumns(t, dates)

	out := &model.DTCTable{Label: strings.TrimSpace(key)}
	for _, r := range t.Rows {
		if l := text(r, label); l != "" {
			out.Label = l
		}
		out.Metrics = append(out.Metrics, model.MetricRow{Name: text(r, metric), Values: values(r, cols)})
	}
	return out, nil
}

// decodeMarketplace keeps every row in order; the first column is the label.
func decodeMarketplace(t *Table, dates model.Horizon) *model.MarketplaceTable {
	t.normalize()
	cols := periodColumns(t, dates)
	out := &model.MarketplaceTable{Rows: make([]model.LabeledRow, 0, len(t.Rows))}
	for _, r := range t.Rows {
		label := ""
		if len(r) > 0 {
			label = r[0].String()
		}
		out.Rows = append(out.Rows, model.LabeledRow{Label: label, Values: values(r, cols)})
	}
	return out
}

func decodeOverheads(t *Table, dates model.Horizon) ([]model.OverheadRow, error) {
	t.normalize()
	territory, err := required("overheads", t, "Territory")
	if err != nil {
		return nil, err
	}
	function := t.column("Function")
	category := t.column("Category")
	cols := periodColumns(t, dates)

	out := make([]model.OverheadRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, model.OverheadRow{
			Territory: text(r, territory),
			Function:  text(r, function),
			Category:  text(r, category),
			Values:    values(r, cols),
		})
	}
	return out, nil
}

func decodeFulfilment(t *Table) ([]model.FulfilmentRate, error) {
	t.normalize()
	country, err := required("fulfilment", t, "Country")
	if err != nil {
		return nil, err
	}
	channel, err := required("fulfilment", t, "Channel")
	if err != nil {
		return nil, err
	}
	rate, err := required("fulfilment", t, "Rate")
	if err != nil {
		return nil, err
	}
	out := make([]model.FulfilmentRate, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, model.FulfilmentRate{
			Country: text(r, country),
			Channel: channelOf(text(r, channel)),
			Rate:    r[rate].Num,
		})
	}
	return out, nil
}

// channelOf canonicalises known channel names and keeps others as written.
func channelOf(s string) model.Channel {
	if ch, err := model.ParseChannel(s); err == nil {
		return ch
	}
	return model.Channel(strings.TrimSpace(s))
}
