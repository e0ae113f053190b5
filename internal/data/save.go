package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// EncodeDataset lays a dataset out as the table document LoadDataset reads.
func EncodeDataset(ds *model.Dataset) *Document {
	dates := ds.Dates.Strings()
	doc := &Document{Dates: dates}

	withPeriods := func(cols ...string) []string { return append(cols, dates...) }
	amounts := func(head []Cell, v model.Series) []Cell {
		row := head
		for _, x := range v {
			row = append(row, Number(x))
		}
		return row
	}

	if ds.B2B != nil {
		cols := []string{"Customer Name", "Country"}
		if ds.B2B.HasGroupColumn {
			cols = append(cols, "Country Group")
		}
		cols = append(cols, "Customer Margin")
		t := &Table{Columns: withPeriods(cols...)}
		for _, r := range ds.B2B.Rows {
			head := []Cell{Text(r.Customer), Text(r.Country)}
			if ds.B2B.HasGroupColumn {
				head = append(head, Text(r.CountryGroup))
			}
			head = append(head, Number(r.Margin))
			t.Rows = append(t.Rows, amounts(head, r.Values))
		}
		doc.B2B = t
	}
	if len(ds.DTC) > 0 {
		doc.DTC = make(map[string]*Table, len(ds.DTC))
		for key, tbl := range ds.DTC {
			if tbl == nil {
				continue
			}
			t := &Table{Columns: withPeriods("Metric", "Territory")}
			for _, m := range tbl.Metrics {
				t.Rows = append(t.Rows, amounts([]Cell{Text(m.Name), Text(tbl.Label)}, m.Values))
			}
			doc.DTC[string(key)] = t
		}
	}
	if ds.Marketplace != nil {
		t := &Table{Columns: withPeriods("Label")}
		for _, r := range ds.Marketplace.Rows {
			t.Rows = append(t.Rows, amounts([]Cell{Text(r.Label)}, r.Values))
		}
		doc.Amazon = t
	}
	if len(ds.Overheads) > 0 {
		t := &Table{Columns: withPeriods("Territory", "Function", "Category")}
		for _, r := range ds.Overheads {
			t.Rows = append(t.Rows, amounts([]Cell{Text(r.Territory), Text(r.Function), Text(r.Category)}, r.Values))
		}
		doc.Overheads = t
	}
	if len(ds.Fulfilment) > 0 {
		t := &Table{Columns: []string{"Country", "Channel", "Rate"}}
		for _, r := range ds.Fulfilment {
			t.Rows = append(t.Rows, []Cell{Text(r.Country), Text(string(r.Channel)), Number(r.Rate)})
		}
		doc.Fulfilment = t
	}
	if len(ds.CogsRates) > 0 {
		keys := make([]string, 0, len(ds.CogsRates))
		for ch := range ds.CogsRates {
			keys = append(keys, string(ch))
		}
		sort.Strings(keys)
		doc.CogsRates = make(map[string]Cell, len(keys))
		for _, k := range keys {
			doc.CogsRates[k] = Number(ds.CogsRates[model.Channel(k)])
		}
	}
	return doc
}

// SaveDataset writes ds as JSON or YAML depending on the file extension.
func SaveDataset(ds *model.Dataset, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	doc := EncodeDataset(ds)
	var raw []byte
	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		raw, err = json.MarshalIndent(doc, "", "  ")
	case ".yaml", ".yml":
		raw, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}
