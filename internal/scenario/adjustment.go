package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

var ErrInvalidAdjustment = errors.New("scenario: invalid adjustment")

// Adjustment is one named perturbation of the base case. The set of
// implementations is closed: B2BGrowth, DTCGrowth, MarketplaceGrowth,
// CogsOverride and FulfilmentOverride.
type Adjustment interface {
	// Key is the adjustment's string key, e.g. "dtc_revenue_UK".
	Key() string
	Value() float64
	Validate() error
	adjustment()
}

// B2BGrowth scales all B2B revenue by Pct percent.
type B2BGrowth struct{ Pct float64 }

// DTCGrowth scales one territory's DTC revenue by Pct percent.
type DTCGrowth struct {
	Territory model.Territory
	Pct       float64
}

// MarketplaceGrowth scales all marketplace revenue by Pct percent.
type MarketplaceGrowth struct{ Pct float64 }

// CogsOverride replaces a channel's CoGS rate (0..1).
type CogsOverride struct {
	Channel model.Channel
	Rate    float64
}

// FulfilmentOverride replaces the signed fulfilment rate for a territory and channel.
type FulfilmentOverride struct {
	Territory model.Territory
	Channel   model.Channel
	Rate      float64
}

const (
	keyB2BGrowth = "b2b_growth"
	keyMPGrowth  = "mp_growth"
	prefixDTC    = "dtc_revenue_"
	prefixCogs   = "cogs_rate_"
	prefixFulfil = "fulfilment_rate_"
	minGrowthPct = -100
)

func (a B2BGrowth) Key() string          { return keyB2BGrowth }
func (a DTCGrowth) Key() string          { return prefixDTC + string(a.Territory) }
func (a MarketplaceGrowth) Key() string  { return keyMPGrowth }
func (a CogsOverride) Key() string       { return prefixCogs + string(a.Channel) }
func (a FulfilmentOverride) Key() string { return prefixFulfil + string(a.Territory) + "_" + string(a.Channel) }

func (a B2BGrowth) Value() float64          { return a.Pct }
func (a DTCGrowth) Value() float64          { return a.Pct }
func (a MarketplaceGrowth) Value() float64  { return a.Pct }
func (a CogsOverride) Value() float64       { return a.Rate }
func (a FulfilmentOverride) Value() float64 { return a.Rate }

func (B2BGrowth) adjustment()          {}
func (DTCGrowth) adjustment()          {}
func (MarketplaceGrowth) adjustment()  {}
func (CogsOverride) adjustment()       {}
func (FulfilmentOverride) adjustment() {}

func (a B2BGrowth) Validate() error         { return validPct(a.Key(), a.Pct) }
func (a MarketplaceGrowth) Validate() error { return validPct(a.Key(), a.Pct) }

func (a DTCGrowth) Validate() error {
	if err := validTerritory(a.Key(), a.Territory); err != nil {
		return err
	}
	return validPct(a.Key(), a.Pct)
}

func (a CogsOverride) Validate() error {
	if _, err := model.ParseChannel(string(a.Channel)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAdjustment, a.Key(), err)
	}
	if !finite(a.Rate) || a.Rate < 0 || a.Rate > 1 {
		return fmt.Errorf("%w: %s: rate must be within [0, 1], got %v", ErrInvalidAdjustment, a.Key(), a.Rate)
	}
	return nil
}

func (a FulfilmentOverride) Validate() error {
	if err := validTerritory(a.Key(), a.Territory); err != nil {
		return err
	}
	if !isPLChannel(a.Channel) {
		return fmt.Errorf("%w: %s: unknown channel %q", ErrInvalidAdjustment, a.Key(), a.Channel)
	}
	if !finite(a.Rate) || a.Rate < -1 || a.Rate > 1 {
		return fmt.Errorf("%w: %s: rate must be within [-1, 1], got %v", ErrInvalidAdjustment, a.Key(), a.Rate)
	}
	return nil
}

func validPct(key string, pct float64) error {
	if !finite(pct) {
		return fmt.Errorf("%w: %s: percentage must be finite", ErrInvalidAdjustment, key)
	}
	if pct < minGrowthPct {
		return fmt.Errorf("%w: %s: percentage below -100 makes revenue negative", ErrInvalidAdjustment, key)
	}
	return nil
}

// validTerritory only checks the code is present; catalogue membership is
// checked by NewWith.
func validTerritory(key string, t model.Territory) error {
	if strings.TrimSpace(string(t)) == "" {
		return fmt.Errorf("%w: %s: missing territory", ErrInvalidAdjustment, key)
	}
	return nil
}

func isPLChannel(c model.Channel) bool {
	for _, ch := range model.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ApplyPercent scales v by pct percent.
func ApplyPercent(v, pct float64) float64 {
	return v * (1 + pct/100)
}
