package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
)

type Mode string

const (
	ModeAnnual    Mode = "annual"
	ModeMonthly   Mode = "monthly"
	ModeQuarterly Mode = "quarterly"
)

var (
	ErrInvalidMode   = errors.New("analysis: invalid waterfall mode")
	ErrUnknownPeriod = errors.New("analysis: period not in horizon")
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAnnual, ModeMonthly, ModeQuarterly:
		return m, nil
	case "":
		return ModeAnnual, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Measure tells a chart how to stack a bar.
type Measure string

const (
	MeasureAbsolute Measure = "absolute"
	MeasureRelative Measure = "relative"
	MeasureTotal    Measure = "total"
)

type Bar struct {
	Label   string  `json:"label"`
	Measure Measure `json:"measure"`
	Value   float64 `json:"value"`
}

// Margins are percentages of revenue; all zero when revenue is not positive.
type Margins struct {
	CM1Pct    float64 `json:"cm1_pct"`
	CM2Pct    float64 `json:"cm2_pct"`
	EBITDAPct float64 `json:"ebitda_pct"`
	CoGSPct   float64 `json:"cogs_pct"`
}

// WaterfallChart walks from revenue to EBITDA over one slice of the horizon.
type WaterfallChart struct {
	Label   string         `json:"label"`
	Periods []model.Period `json:"periods"`
	Bars    []Bar          `json:"bars"`
	Margins Margins        `json:"margins"`
}

// Waterfall builds the revenue-to-EBITDA walk of st. Annual mode sums the
// whole horizon, monthly mode reads period, and quarterly mode returns one
// chart per calendar quarter present in the horizon.
func Waterfall(st *pl.Statement, mode Mode, period model.Period) ([]WaterfallChart, error) {
	switch mode {
	case ModeAnnual, "":
		return []WaterfallChart{chart(st, "Annual Total", st.Horizon)}, nil
	case ModeMonthly:
		if st.Horizon.Index(period) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
		}
		return []WaterfallChart{chart(st, string(period), model.Horizon{period})}, nil
	case ModeQuarterly:
		var out []WaterfallChart
		var periods model.Horizon
		label := ""
		for _, p := range st.Horizon {
			l := fmt.Sprintf("Q%d %d", p.Quarter(), p.Time().Year())
			if l != label && len(periods) > 0 {
				out = append(out, chart(st, label, periods))
				periods = nil
			}
			label = l
			periods = append(periods, p)
		}
		if len(periods) > 0 {
			out = append(out, chart(st, label, periods))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

func chart(st *pl.Statement, label string, periods model.Horizon) WaterfallChart {
	sum := func(cat pl.Category) float64 {
		name := pl.TotalLine(cat)
		t := 0.0
		for _, p := range periods {
			t += st.Value(cat, name, p)
		}
		return t
	}
	revenue := sum(pl.CategoryRevenue)
	cogs := sum(pl.CategoryCoGS)
	fulfilment := sum(pl.CategoryFulfilment)
	overheads := sum(pl.CategoryOverheads)
	ebitda := sum(pl.CategoryEBITDA)

	cm1 := revenue + cogs
	cm2 := cm1 + fulfilment
	return WaterfallChart{
		Label:   label,
		Periods: append([]model.Period(nil), periods...),
		Bars: []Bar{
			{Label: "Revenue", Measure: MeasureAbsolute, Value: revenue},
			{Label: "CoGS", Measure: MeasureRelative, Value: cogs},
			{Label: "Fulfilment", Measure: MeasureRelative, Value: fulfilment},
			{Label: "Overheads", Measure: MeasureRelative, Value: overheads},
			{Label: "EBITDA", Measure: MeasureTotal, Value: ebitda},
		},
		Margins: Margins{
			CM1Pct:    marginPct(cm1, revenue),
			CM2Pct:    marginPct(cm2, revenue),
			EBITDAPct: marginPct(ebitda, revenue),
			CoGSPct:   math.Abs(marginPct(cogs, revenue)),
		},
	}
}
