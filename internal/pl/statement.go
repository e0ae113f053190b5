package pl

import (
	"encoding/json"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// Category is a tier of the P&L hierarchy.
type Category string

const (
	CategoryRevenue    Category = "Revenue"
	CategoryCoGS       Category = "CoGS"
	CategoryCM1        Category = "CM1"
	CategoryFulfilment Category = "Fulfilment"
	CategoryCM2        Category = "CM2"
	CategoryOverheads  Category = "Overheads"
	CategoryEBITDA     Category = "EBITDA"
)

// Categories in statement order.
var Categories = []Category{
	CategoryRevenue, CategoryCoGS, CategoryCM1, CategoryFulfilment,
	CategoryCM2, CategoryOverheads, CategoryEBITDA,
}

// channelled reports whether the category has per-channel lines.
func (c Category) channelled() bool {
	switch c {
	case CategoryRevenue, CategoryCoGS, CategoryCM1, CategoryFulfilment:
		return true
	}
	return false
}

// ChannelLine is the name of a channel sub-line, e.g. "DTC Revenue".
func ChannelLine(cat Category, ch model.Channel) string {
	return string(ch) + " " + string(cat)
}

// TotalLine is the name of the category's total line.
func TotalLine(cat Category) string {
	switch cat {
	case CategoryOverheads:
		return "Overheads"
	case CategoryEBITDA:
		return "EBITDA"
	}
	return "Total " + string(cat)
}

type Line struct {
	Category Category     `json:"category"`
	Name     string       `json:"name"`
	Values   model.Series `json:"values"`
}

// Statement is an assembled P&L. It is a read-only value: every accessor
// returns copies.
type Statement struct {
	Territory   string
	Scenario    string
	Horizon     model.Horizon
	Diagnostics []Diagnostic

	lines []Line
	index map[lineKey]int
}

type lineKey struct {
	cat  Category
	name string
}

func newStatement(label, scen string, h model.Horizon) *Statement {
	return &Statement{
		Territory: label,
		Scenario:  scen,
		Horizon:   h,
		index:     make(map[lineKey]int),
	}
}

func (s *Statement) add(cat Category, name string, v model.Series) {
	s.index[lineKey{cat, name}] = len(s.lines)
	s.lines = append(s.lines, Line{Category: cat, Name: name, Values: v})
}

// Lines returns every line in statement order.
func (s *Statement) Lines() []Line {
	out := make([]Line, len(s.lines))
	for i, l := range s.lines {
		out[i] = Line{Category: l.Category, Name: l.Name, Values: l.Values.Clone()}
	}
	return out
}

func (s *Statement) Line(cat Category, name string) (model.Series, bool) {
	i, ok := s.index[lineKey{cat, name}]
	if !ok {
		return nil, false
	}
	return s.lines[i].Values.Clone(), true
}

// Get returns the named line, or a zero series when the statement has no such line.
func (s *Statement) Get(cat Category, name string) model.Series {
	if v, ok := s.Line(cat, name); ok {
		return v
	}
	return model.Zero(len(s.Horizon))
}

func (s *Statement) Channel(cat Category, ch model.Channel) model.Series {
	return s.Get(cat, ChannelLine(cat, ch))
}

func (s *Statement) Total(cat Category) model.Series {
	return s.Get(cat, TotalLine(cat))
}

// Value reads one period of a line; unknown lines and periods read as zero.
func (s *Statement) Value(cat Category, name string, p model.Period) float64 {
	i := s.Horizon.Index(p)
	if i < 0 {
		return 0
	}
	v, ok := s.Line(cat, name)
	if !ok || i >= len(v) {
		return 0
	}
	return v[i]
}

// Summary holds horizon totals of the headline lines.
type Summary struct {
	Revenue    float64 `json:"revenue"`
	CoGS       float64 `json:"cogs"`
	CM1        float64 `json:"cm1"`
	Fulfilment float64 `json:"fulfilment"`
	CM2        float64 `json:"cm2"`
	Overheads  float64 `json:"overheads"`
	EBITDA     float64 `json:"ebitda"`
}

func (s *Statement) Summary() Summary {
	return Summary{
		Revenue:    s.Total(CategoryRevenue).Total(),
		CoGS:       s.Total(CategoryCoGS).Total(),
		CM1:        s.Total(CategoryCM1).Total(),
		Fulfilment: s.Total(CategoryFulfilment).Total(),
		CM2:        s.Total(CategoryCM2).Total(),
		Overheads:  s.Total(CategoryOverheads).Total(),
		EBITDA:     s.Total(CategoryEBITDA).Total(),
	}
}

// Map returns a statement of the same shape with fn applied to every line.
// fn receives the line's category, name and values.
func (s *Statement) Map(fn func(cat Category, name string, v model.Series) model.Series) *Statement {
	out := newStatement(s.Territory, s.Scenario, s.Horizon)
	for _, l := range s.lines {
		out.add(l.Category, l.Name, fn(l.Category, l.Name, l.Values.Clone()))
	}
	return out
}

type statementJSON struct {
	Territory   string       `json:"territory"`
	Scenario    string       `json:"scenario,omitempty"`
	Periods     []string     `json:"periods"`
	Lines       []Line       `json:"lines"`
	Summary     Summary      `json:"summary"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func (s *Statement) MarshalJSON() ([]byte, error) {
	return json.Marshal(statementJSON{
		Territory:   s.Territory,
		Scenario:    s.Scenario,
		Periods:     s.Horizon.Strings(),
		Lines:       s.lines,
		Summary:     s.Summary(),
		Diagnostics: s.Diagnostics,
	})
}
