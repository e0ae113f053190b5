package territory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// Table names an input table with its own spelling convention.
type Table string

const (
	TableB2B         Table = "b2b"
	TableDTC         Table = "dtc"
	TableMarketplace Table = "marketplace"
	TableOverheads   Table = "overheads"
	TableFulfilment  Table = "fulfilment"
)

var (
	ErrUnknownTerritory   = errors.New("territory: unknown territory")
	ErrMissingGroupColumn = errors.New("territory: table has no country-group column")
)

// Rows is the view of a table the resolver needs to select rows.
type Rows interface {
	Len() int
	// Name is the row's territory/country spelling.
	Name(i int) string
	// Group is the row's country-group tag ("" when absent).
	Group(i int) string
	HasGroupColumn() bool
}

// Resolver is the single source of truth for territory spellings.
type Resolver struct {
	entries map[model.Territory]Entry
	order   []model.Territory
}

func NewResolver(entries []Entry) (*Resolver, error) {
	r := &Resolver{entries: make(map[model.Territory]Entry, len(entries))}
	for _, e := range entries {
		if strings.TrimSpace(string(e.Code)) == "" {
			return nil, errors.New("territory: entry with empty code")
		}
		if _, dup := r.entries[e.Code]; dup {
			return nil, fmt.Errorf("territory: duplicate entry %q", e.Code)
		}
		r.entries[e.Code] = e
		r.order = append(r.order, e.Code)
	}
	return r, nil
}

// Default returns a resolver over DefaultCatalogue.
func Default() *Resolver {
	r, _ := NewResolver(DefaultCatalogue())
	return r
}

func (r *Resolver) Entry(t model.Territory) (Entry, bool) {
	e, ok := r.entries[t]
	return e, ok
}

// Lookup matches a code against the catalogue, case-insensitively.
func (r *Resolver) Lookup(code string) (model.Territory, bool) {
	code = strings.TrimSpace(code)
	if _, ok := r.entries[model.Territory(code)]; ok {
		return model.Territory(code), true
	}
	for _, t := range r.order {
		if strings.EqualFold(code, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Entries returns the catalogue in declaration order.
func (r *Resolver) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.entries[c])
	}
	return out
}

// Resolution is the row condition for one territory in one table.
type Resolution struct {
	Territory model.Territory
	Table     Table

	// Names are the primary spellings, matched by set membership.
	Names []string
	// Fallback spellings (the raw code) also select rows; they rank after
	// Names so single-row lookups prefer the primary spelling.
	Fallback []string
	// Groups, when set, select rows by country-group tag instead of name.
	Groups []string

	// Err is set when the territory cannot be mapped onto the table at all.
	Err error
}

func (r *Resolver) Resolve(t model.Territory, table Table) Resolution {
	res := Resolution{Territory: t, Table: table}
	e, ok := r.entries[t]
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrUnknownTerritory, t)
		return res
	}
	code := string(e.Code)

	switch table {
	case TableDTC:
		res.Names = []string{code}
	case TableMarketplace:
		label := e.MarketplaceLabel
		if label == "" {
			label = code
		}
		res.Names = []string{label}
	case TableB2B:
		if e.Aggregate() {
			res.Groups = append([]string(nil), e.Groups...)
			return res
		}
		res.Names, res.Fallback = countrySpellings(e)
	case TableOverheads, TableFulfilment:
		if e.Aggregate() {
			res.Names = []string{code}
			return res
		}
		res.Names, res.Fallback = countrySpellings(e)
	default:
		res.Err = fmt.Errorf("territory: unknown table %q", table)
	}
	return res
}

func countrySpellings(e Entry) (names, fallback []string) {
	if e.Country != "" {
		names = append(names, e.Country)
	}
	names = append(names, e.Aliases...)
	if len(names) == 0 {
		return []string{string(e.Code)}, nil
	}
	return names, []string{string(e.Code)}
}

// Select returns the indices of the rows matching the resolution: rows
// spelled with a primary name first, then rows spelled with the fallback.
// Each row is selected at most once. An error means the selection could not
// be made, which is not the same as an empty selection.
func (res Resolution) Select(rows Rows) ([]int, error) {
	if res.Err != nil {
		return nil, res.Err
	}
	if len(res.Groups) > 0 {
		if !rows.HasGroupColumn() {
			return nil, fmt.Errorf("%w: cannot resolve %q", ErrMissingGroupColumn, res.Territory)
		}
		return match(rows, rows.Group, setOf(res.Groups)), nil
	}
	primary := setOf(res.Names)
	idx := match(rows, rows.Name, primary)
	if len(res.Fallback) == 0 {
		return idx, nil
	}
	fallback := setOf(res.Fallback)
	for n := range primary {
		delete(fallback, n)
	}
	return append(idx, match(rows, rows.Name, fallback)...), nil
}

func match(rows Rows, field func(int) string, want map[string]struct{}) []int {
	var out []int
	for i := 0; i < rows.Len(); i++ {
		if _, ok := want[normalize(field(i))]; ok {
			out = append(out, i)
		}
	}
	return out
}

func setOf(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[normalize(s)] = struct{}{}
	}
	return m
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
