package model

import (
	"errors"
	"fmt"
	"time"
)

// PeriodLayout is the calendar-month key format used by every input table.
const PeriodLayout = "2006-01"

// Period is a calendar-month key, e.g. "2026-02".
type Period string

func ParsePeriod(s string) (Period, error) {
	if _, err := time.Parse(PeriodLayout, s); err != nil {
		return "", fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	return Period(s), nil
}

// Time returns the first instant of the month in UTC.
func (p Period) Time() time.Time {
	t, _ := time.Parse(PeriodLayout, string(p))
	return t
}

// Quarter returns the calendar quarter (1..4) of the period.
func (p Period) Quarter() int {
	return (int(p.Time().Month())-1)/3 + 1
}

// Horizon is the ordered sequence of periods every series is defined over.
type Horizon []Period

// NewHorizon parses and validates a list of period keys.
func NewHorizon(keys []string) (Horizon, error) {
	h := make(Horizon, 0, len(keys))
	for _, k := range keys {
		p, err := ParsePeriod(k)
		if err != nil {
			return nil, err
		}
		h = append(h, p)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h Horizon) Validate() error {
	if len(h) == 0 {
		return errors.New("horizon is empty")
	}
	for i, p := range h {
		if _, err := ParsePeriod(string(p)); err != nil {
			return err
		}
		if i > 0 && !h[i-1].Time().Before(p.Time()) {
			return fmt.Errorf("horizon must be strictly ascending: %s does not follow %s", p, h[i-1])
		}
	}
	return nil
}

// Index returns the position of p in the horizon, or -1.
func (h Horizon) Index(p Period) int {
	for i, q := range h {
		if q == p {
			return i
		}
	}
	return -1
}

func (h Horizon) Strings() []string {
	out := make([]string, len(h))
	for i, p := range h {
		out[i] = string(p)
	}
	return out
}
