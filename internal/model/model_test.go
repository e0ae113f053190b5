package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesArithmetic(t *testing.T) {
	a := Series{1, 2, 3}
	b := Series{10, 20}

	assert.Equal(t, Series{11, 22, 3}, a.Add(b))
	assert.Equal(t, Series{-9, -18, 3}, a.Sub(b))
	assert.Equal(t, Series{2, 4, 6}, a.Scale(2))
	assert.Equal(t, 6.0, a.Total())
	assert.Equal(t, Series{11, 22, 3, 0}, Sum(4, a, b))

	c := a.Clone()
	c[0] = 99
	assert.Equal(t, 1.0, a[0])
}

func TestHorizon(t *testing.T) {
	h, err := NewHorizon([]string{"2026-02", "2026-03", "2026-04"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Index("2026-03"))
	assert.Equal(t, -1, h.Index("2026-05"))
	assert.Equal(t, []string{"2026-02", "2026-03", "2026-04"}, h.Strings())
	assert.Equal(t, 2, Period("2026-04").Quarter())

	_, err = NewHorizon(nil)
	require.Error(t, err)
	_, err = NewHorizon([]string{"2026-03", "2026-02"})
	require.Error(t, err)
	_, err = NewHorizon([]string{"Feb 2026"})
	require.Error(t, err)
}

func TestSeriesByPeriod(t *testing.T) {
	h := Horizon{"2026-02", "2026-03"}
	assert.Equal(t, map[Period]float64{"2026-02": 5, "2026-03": 0}, Series{5}.ByPeriod(h))
}

func TestParseChannelAndTerritory(t *testing.T) {
	ch, err := ParseChannel(" dtc ")
	require.NoError(t, err)
	assert.Equal(t, ChannelDTC, ch)
	_, err = ParseChannel("Wholesale")
	require.Error(t, err)

	terr, ok := ParseTerritory("other eu")
	assert.True(t, ok)
	assert.Equal(t, TerritoryOtherEU, terr)
	_, ok = ParseTerritory("Atlantis")
	assert.False(t, ok)
}

func dataset() *Dataset {
	return &Dataset{
		Dates: Horizon{"2026-02", "2026-03"},
		B2B: &CustomerLedger{HasGroupColumn: true, Rows: []CustomerRow{
			{Customer: "Harrods", Country: "United Kingdom", Values: Series{1, 2}},
		}},
		DTC: map[Territory]*DTCTable{
			TerritoryUK: {Label: "UK", Metrics: []MetricRow{{Name: "Total Revenue", Values: Series{3, 4}}}},
		},
		CogsRates: map[Channel]float64{ChannelDTC: 0.2},
	}
}

func TestDatasetValidate(t *testing.T) {
	require.NoError(t, dataset().Validate())

	ds := dataset()
	ds.DTC[TerritoryUK].Metrics[0].Values = Series{1}
	require.ErrorIs(t, ds.Validate(), ErrSeriesLength)

	var nilDS *Dataset
	require.Error(t, nilDS.Validate())
}

func TestDatasetWithCustomer(t *testing.T) {
	ds := dataset()

	next, err := ds.WithCustomer(CustomerRow{Customer: "Target", Country: "USA", Values: Series{5, 6}})
	require.NoError(t, err)
	assert.Len(t, next.B2B.Rows, 2)
	// the original snapshot is untouched
	assert.Len(t, ds.B2B.Rows, 1)

	next.DTC[TerritoryUK].Metrics[0].Values[0] = 100
	assert.Equal(t, 3.0, ds.DTC[TerritoryUK].Metrics[0].Values[0])

	_, err = ds.WithCustomer(CustomerRow{Customer: "Short", Values: Series{1}})
	require.ErrorIs(t, err, ErrSeriesLength)
}

func TestDatasetWithCustomerCreatesLedger(t *testing.T) {
	ds := dataset()
	ds.B2B = nil

	next, err := ds.WithCustomer(CustomerRow{Customer: "First", Country: "Spain", Values: Series{1, 1}})
	require.NoError(t, err)
	require.NotNil(t, next.B2B)
	assert.True(t, next.B2B.HasGroupColumn)
	assert.Nil(t, ds.B2B)
}
