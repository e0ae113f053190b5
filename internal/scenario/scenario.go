package scenario

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// Scenario is an immutable, sparse set of adjustments. The zero value is the
// base case: every lookup is a no-op.
type Scenario struct {
	Name        string
	adjustments map[string]Adjustment
}

func Base() Scenario { return Scenario{Name: "Base"} }

// Territories looks up the territory codes adjustment keys may name.
// *territory.Resolver satisfies it with the configured catalogue.
type Territories interface {
	Lookup(code string) (model.Territory, bool)
}

type reportingTerritories struct{}

func (reportingTerritories) Lookup(code string) (model.Territory, bool) {
	return model.ParseTerritory(code)
}

func orReporting(known Territories) Territories {
	if known == nil {
		return reportingTerritories{}
	}
	return known
}

// New validates the adjustments against the reporting territories and
// builds a scenario.
func New(name string, adjs ...Adjustment) (Scenario, error) {
	return NewWith(name, nil, adjs...)
}

// NewWith validates the adjustments and builds a scenario. Territory-scoped
// adjustments must name a territory known to known (the reporting
// territories when nil). Two adjustments with the same key are rejected
// rather than silently overwritten.
func NewWith(name string, known Territories, adjs ...Adjustment) (Scenario, error) {
	known = orReporting(known)
	s := Scenario{Name: name, adjustments: make(map[string]Adjustment, len(adjs))}
	for _, a := range adjs {
		if a == nil {
			return Scenario{}, fmt.Errorf("%w: nil adjustment", ErrInvalidAdjustment)
		}
		if err := a.Validate(); err != nil {
			return Scenario{}, err
		}
		if t, ok := territoryOf(a); ok {
			if _, found := known.Lookup(string(t)); !found {
				return Scenario{}, fmt.Errorf("%w: %s: unknown territory %q", ErrInvalidAdjustment, a.Key(), t)
			}
		}
		if _, dup := s.adjustments[a.Key()]; dup {
			return Scenario{}, fmt.Errorf("%w: duplicate adjustment %s", ErrInvalidAdjustment, a.Key())
		}
		s.adjustments[a.Key()] = a
	}
	return s, nil
}

// Parse builds a scenario from string keys such as "b2b_growth" or
// "fulfilment_rate_UK_DTC", naming the reporting territories. Unknown keys
// are errors.
func Parse(name string, keys map[string]float64) (Scenario, error) {
	return ParseWith(name, keys, nil)
}

// ParseWith is Parse with territory codes looked up in known.
func ParseWith(name string, keys map[string]float64, known Territories) (Scenario, error) {
	known = orReporting(known)
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	adjs := make([]Adjustment, 0, len(keys))
	for _, k := range names {
		a, err := ParseKeyWith(k, keys[k], known)
		if err != nil {
			return Scenario{}, err
		}
		adjs = append(adjs, a)
	}
	return NewWith(name, known, adjs...)
}

// ParseKey turns one string key and its value into a typed adjustment.
func ParseKey(key string, v float64) (Adjustment, error) {
	return ParseKeyWith(key, v, nil)
}

func ParseKeyWith(key string, v float64, known Territories) (Adjustment, error) {
	known = orReporting(known)
	switch {
	case key == keyB2BGrowth:
		return B2BGrowth{Pct: v}, nil
	case key == keyMPGrowth:
		return MarketplaceGrowth{Pct: v}, nil
	case strings.HasPrefix(key, prefixDTC):
		t, ok := known.Lookup(strings.TrimPrefix(key, prefixDTC))
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown territory", ErrInvalidAdjustment, key)
		}
		return DTCGrowth{Territory: t, Pct: v}, nil
	case strings.HasPrefix(key, prefixCogs):
		ch, err := model.ParseChannel(strings.TrimPrefix(key, prefixCogs))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAdjustment, key, err)
		}
		return CogsOverride{Channel: ch, Rate: v}, nil
	case strings.HasPrefix(key, prefixFulfil):
		rest := strings.TrimPrefix(key, prefixFulfil)
		i := strings.LastIndex(rest, "_")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %s: expected fulfilment_rate_<territory>_<channel>", ErrInvalidAdjustment, key)
		}
		t, ok := known.Lookup(rest[:i])
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown territory", ErrInvalidAdjustment, key)
		}
		ch, err := model.ParseChannel(rest[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAdjustment, key, err)
		}
		return FulfilmentOverride{Territory: t, Channel: ch, Rate: v}, nil
	}
	return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidAdjustment, key)
}

func territoryOf(a Adjustment) (model.Territory, bool) {
	switch a := a.(type) {
	case DTCGrowth:
		return a.Territory, true
	case FulfilmentOverride:
		return a.Territory, true
	}
	return "", false
}

func (s Scenario) IsBase() bool { return len(s.adjustments) == 0 }

// Adjustments returns the adjustments sorted by key.
func (s Scenario) Adjustments() []Adjustment {
	out := make([]Adjustment, 0, len(s.adjustments))
	for _, a := range s.adjustments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Keys renders the scenario back to its string-key form.
func (s Scenario) Keys() map[string]float64 {
	out := make(map[string]float64, len(s.adjustments))
	for k, a := range s.adjustments {
		out[k] = a.Value()
	}
	return out
}

// Apply adjusts base by the adjustment stored under key: growth keys
// multiply, rate overrides replace, absent keys pass base through. Every
// calculator value a scenario can move goes through here.
func (s Scenario) Apply(base float64, key string) float64 {
	a, ok := s.adjustments[key]
	if !ok {
		return base
	}
	switch a := a.(type) {
	case B2BGrowth, DTCGrowth, MarketplaceGrowth:
		return ApplyPercent(base, a.Value())
	default:
		return a.Value()
	}
}

func (s Scenario) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON parses against the reporting territories; use ParseWith for
// a configured catalogue.
func (s *Scenario) UnmarshalJSON(raw []byte) error {
	var keys map[string]float64
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAdjustment, err)
	}
	parsed, err := Parse(s.Name, keys)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Scenario) String() string {
	if s.IsBase() {
		return s.Name + " (base case)"
	}
	parts := make([]string, 0, len(s.adjustments))
	for _, a := range s.Adjustments() {
		parts = append(parts, fmt.Sprintf("%s=%g", a.Key(), a.Value()))
	}
	return s.Name + " {" + strings.Join(parts, ", ") + "}"
}
