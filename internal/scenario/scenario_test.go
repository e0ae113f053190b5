package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

func TestParseKeys(t *testing.T) {
	s, err := Parse("Plan B", map[string]float64{
		"b2b_growth":             10,
		"mp_growth":              -5,
		"dtc_revenue_UK":         20,
		"cogs_rate_DTC":          0.2,
		"fulfilment_rate_ES_B2B": -0.1,
	})
	require.NoError(t, err)
	assert.False(t, s.IsBase())

	assert.InDelta(t, 110.0, s.Apply(100, B2BGrowth{}.Key()), 1e-9)
	assert.InDelta(t, 95.0, s.Apply(100, MarketplaceGrowth{}.Key()), 1e-9)
	assert.InDelta(t, 120.0, s.Apply(100, DTCGrowth{Territory: model.TerritoryUK}.Key()), 1e-9)
	assert.Equal(t, 100.0, s.Apply(100, DTCGrowth{Territory: model.TerritoryES}.Key()))
	assert.Equal(t, 0.2, s.Apply(0.24, CogsOverride{Channel: model.ChannelDTC}.Key()))
	assert.Equal(t, -0.1, s.Apply(-0.15, FulfilmentOverride{Territory: model.TerritoryES, Channel: model.ChannelB2B}.Key()))
}

func TestParseMultiWordTerritory(t *testing.T) {
	s, err := Parse("x", map[string]float64{"fulfilment_rate_Other EU_DTC": -0.2})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"fulfilment_rate_Other EU_DTC": -0.2}, s.Keys())
	assert.Equal(t, -0.2, s.Apply(-0.15, FulfilmentOverride{Territory: model.TerritoryOtherEU, Channel: model.ChannelDTC}.Key()))
}

func TestParseRejectsInvalidKeys(t *testing.T) {
	for key, v := range map[string]float64{
		"b2b_grwoth":                10,
		"dtc_revenue_Atlantis":      10,
		"cogs_rate_Wholesale":       0.2,
		"cogs_rate_DTC":             1.5,
		"fulfilment_rate_UK":        -0.1,
		"fulfilment_rate_UK_TikTok": -0.1,
		"fulfilment_rate_UK_DTC":    -2,
		"b2b_growth":                -150,
	} {
		_, err := Parse("bad", map[string]float64{key: v})
		assert.ErrorIs(t, err, ErrInvalidAdjustment, key)
	}
}

type codes []model.Territory

func (c codes) Lookup(code string) (model.Territory, bool) {
	for _, t := range c {
		if string(t) == code {
			return t, true
		}
	}
	return "", false
}

func TestParseWithCatalogue(t *testing.T) {
	known := codes{"UK", "CA"}

	s, err := ParseWith("North", map[string]float64{
		"dtc_revenue_CA":         10,
		"fulfilment_rate_CA_B2B": -0.05,
	}, known)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"dtc_revenue_CA": 10, "fulfilment_rate_CA_B2B": -0.05}, s.Keys())

	// the reporting territories are not implied
	_, err = ParseWith("x", map[string]float64{"dtc_revenue_ES": 10}, known)
	require.ErrorIs(t, err, ErrInvalidAdjustment)
	_, err = NewWith("x", known, DTCGrowth{Territory: "ES", Pct: 5})
	require.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = Parse("x", map[string]float64{"dtc_revenue_CA": 10})
	require.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New("dup", B2BGrowth{Pct: 1}, B2BGrowth{Pct: 2})
	require.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = New("nil", nil)
	require.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestBaseIsNoOp(t *testing.T) {
	s := Base()
	assert.True(t, s.IsBase())
	assert.Equal(t, 123.0, s.Apply(123, "b2b_growth"))
	assert.Equal(t, 0.24, s.Apply(0.24, "cogs_rate_DTC"))
	assert.Empty(t, s.Keys())
	assert.Equal(t, "Base (base case)", s.String())
}

func TestApply(t *testing.T) {
	s, err := New("x", B2BGrowth{Pct: 50}, CogsOverride{Channel: model.ChannelB2B, Rate: 0.3})
	require.NoError(t, err)

	assert.Equal(t, 150.0, s.Apply(100, "b2b_growth"))
	assert.Equal(t, 0.3, s.Apply(0.26, "cogs_rate_B2B"))
	assert.Equal(t, 7.0, s.Apply(7, "mp_growth"))
	assert.Equal(t, "x {b2b_growth=50, cogs_rate_B2B=0.3}", s.String())

	s, err = New("y", DTCGrowth{Territory: model.TerritoryUK, Pct: -100}, FulfilmentOverride{Territory: model.TerritoryES, Channel: model.ChannelB2B, Rate: -0.05})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Apply(400, DTCGrowth{Territory: model.TerritoryUK}.Key()))
	assert.Equal(t, -0.05, s.Apply(-0.15, FulfilmentOverride{Territory: model.TerritoryES, Channel: model.ChannelB2B}.Key()))
}

func TestKeysRoundTrip(t *testing.T) {
	keys := map[string]float64{"b2b_growth": 10, "fulfilment_rate_UK_DTC": -0.12}
	s, err := Parse("x", keys)
	require.NoError(t, err)
	assert.Equal(t, keys, s.Keys())

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back Scenario
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, keys, back.Keys())

	require.ErrorIs(t, json.Unmarshal([]byte(`{"nope": 1}`), &back), ErrInvalidAdjustment)
}
