package territory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

type rows struct {
	names, groups []string
	hasGroups     bool
}

func (r rows) Len() int             { return len(r.names) }
func (r rows) Name(i int) string    { return r.names[i] }
func (r rows) Group(i int) string   { return r.groups[i] }
func (r rows) HasGroupColumn() bool { return r.hasGroups }

func TestResolveSpellingsPerTable(t *testing.T) {
	r := Default()

	cases := []struct {
		territory model.Territory
		table     Table
		names     []string
		fallback  []string
		groups    []string
	}{
		{model.TerritoryUK, TableDTC, []string{"UK"}, nil, nil},
		{model.TerritoryUK, TableMarketplace, []string{"UK"}, nil, nil},
		{model.TerritoryUK, TableB2B, []string{"United Kingdom", "Great Britain", "GB"}, []string{"UK"}, nil},
		{model.TerritoryES, TableMarketplace, []string{"Spain"}, nil, nil},
		{model.TerritoryUS, TableOverheads, []string{"United States", "US", "USA", "United States of America"}, []string{"US"}, nil},
		{model.TerritoryROW, TableB2B, nil, nil, []string{"ROW"}},
		{model.TerritoryROW, TableOverheads, []string{"ROW"}, nil, nil},
		{model.TerritoryOtherEU, TableMarketplace, []string{"Other EU"}, nil, nil},
	}
	for _, tc := range cases {
		res := r.Resolve(tc.territory, tc.table)
		require.NoError(t, res.Err)
		assert.Equal(t, tc.names, res.Names, "%s/%s", tc.territory, tc.table)
		assert.Equal(t, tc.fallback, res.Fallback, "%s/%s", tc.territory, tc.table)
		assert.Equal(t, tc.groups, res.Groups, "%s/%s", tc.territory, tc.table)
	}
}

func TestResolveUnknown(t *testing.T) {
	res := Default().Resolve("Atlantis", TableB2B)
	require.ErrorIs(t, res.Err, ErrUnknownTerritory)

	_, err := res.Select(rows{})
	require.ErrorIs(t, err, ErrUnknownTerritory)
}

func TestSelectByName(t *testing.T) {
	r := Default()
	table := rows{names: []string{"USA", " united states ", "Spain", "US"}}

	idx, err := r.Resolve(model.TerritoryUS, TableB2B).Select(table)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, idx)
}

func TestSelectMatchesCodeSpelledRows(t *testing.T) {
	r := Default()

	idx, err := r.Resolve(model.TerritoryUK, TableB2B).Select(rows{names: []string{"UK", "Spain"}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, idx)

	// Mixed spellings in one table: both rows count, primary spelling first.
	idx, err = r.Resolve(model.TerritoryUK, TableOverheads).Select(rows{names: []string{"UK", "United Kingdom", "Spain"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, idx)
}

func TestSelectCountsRowOnceWhenCodeIsAlsoAlias(t *testing.T) {
	idx, err := Default().Resolve(model.TerritoryUS, TableB2B).Select(rows{names: []string{"US", "USA", "United States"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, idx)
	assert.Len(t, idx, 3)
}

func TestSelectByGroup(t *testing.T) {
	r := Default()
	table := rows{
		names:     []string{"Brazil", "Italy", "Chile"},
		groups:    []string{"ROW", "CE", "row"},
		hasGroups: true,
	}

	idx, err := r.Resolve(model.TerritoryROW, TableB2B).Select(table)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)

	table.hasGroups = false
	_, err = r.Resolve(model.TerritoryROW, TableB2B).Select(table)
	require.ErrorIs(t, err, ErrMissingGroupColumn)
}

func TestSelectEmptyIsNotAnError(t *testing.T) {
	idx, err := Default().Resolve(model.TerritoryFR, TableOverheads).Select(rows{names: []string{"Spain"}})
	require.NoError(t, err)
	assert.Empty(t, idx)
}

func TestNewResolverRejectsBadCatalogue(t *testing.T) {
	_, err := NewResolver([]Entry{{Code: "UK"}, {Code: "UK"}})
	require.Error(t, err)

	_, err = NewResolver([]Entry{{Code: " "}})
	require.Error(t, err)
}

func TestEntriesKeepOrder(t *testing.T) {
	entries := Default().Entries()
	require.Len(t, entries, len(model.ReportingTerritories))
	for i, e := range entries {
		assert.Equal(t, model.ReportingTerritories[i], e.Code)
	}
	e, ok := Default().Entry(model.TerritoryROW)
	require.True(t, ok)
	assert.True(t, e.Aggregate())
}
