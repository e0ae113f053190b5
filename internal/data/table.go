package data

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cell is one spreadsheet cell. Numbers keep their value; text keeps its
// text and also yields a number when it reads as one ("1,200", "£300").
// Anything else reads as zero and never fails to decode.
type Cell struct {
	Num  float64
	Text string
	// Numeric is set when the source cell was a number, so a literal 0
	// still renders as a label.
	Numeric bool
}

func Number(v float64) Cell { return Cell{Num: v, Numeric: true} }

func Text(s string) Cell { return Cell{Text: s, Num: parseNumber(s)} }

// String renders the cell as a label. Blank and null cells are "".
func (c Cell) String() string {
	if c.Text != "" {
		return strings.TrimSpace(c.Text)
	}
	if !c.Numeric {
		return ""
	}
	return strconv.FormatFloat(c.Num, 'f', -1, 64)
}

func (c *Cell) UnmarshalJSON(raw []byte) error {
	*c = Cell{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		*c = Text(s)
	case 'n', 't', 'f', '[', '{':
		// null, booleans and nested values are not amounts
	default:
		if v, err := strconv.ParseFloat(string(raw), 64); err == nil {
			*c = Number(v)
		}
	}
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Text != "" {
		return json.Marshal(c.Text)
	}
	return json.Marshal(c.Num)
}

func (c *Cell) UnmarshalYAML(node *yaml.Node) error {
	*c = Cell{}
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	switch node.Tag {
	case "!!int", "!!float":
		if v, err := strconv.ParseFloat(strings.ReplaceAll(node.Value, "_", ""), 64); err == nil {
			*c = Number(v)
		}
	case "!!str":
		*c = Text(node.Value)
	}
	return nil
}

func (c Cell) MarshalYAML() (any, error) {
	if c.Text != "" {
		return c.Text, nil
	}
	return c.Num, nil
}

// parseNumber reads amounts the way finance sheets write them. Unreadable
// text is zero.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// Table is a sheet given as a header row and data rows.
type Table struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]Cell `json:"rows" yaml:"rows"`
}

// normalize pads or truncates every row to the column count.
func (t *Table) normalize() {
	n := len(t.Columns)
	for i, r := range t.Rows {
		switch {
		case len(r) < n:
			t.Rows[i] = append(r, make([]Cell, n-len(r))...)
		case len(r) > n:
			t.Rows[i] = r[:n]
		}
	}
}

// column returns the index of the first column whose header matches one of
// names, case-insensitively, or -1.
func (t *Table) column(names ...string) int {
	for i, c := range t.Columns {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(c), n) {
				return i
			}
		}
	}
	return -1
}
