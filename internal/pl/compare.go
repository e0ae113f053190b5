package pl

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// Comparison is the structural diff of two combined statements.
type Comparison struct {
	Base        *Statement `json:"base"`
	New         *Statement `json:"new"`
	Difference  *Statement `json:"difference"`
	VariancePct *Statement `json:"variance_pct"`
}

func NewComparison(base, next *Statement) *Comparison {
	diff := Subtract(next, base)
	return &Comparison{
		Base:        base,
		New:         next,
		Difference:  diff,
		VariancePct: VariancePercent(diff, base),
	}
}

// Compare assembles the combined statement under both scenarios, in
// parallel, and diffs them.
func (e *Engine) Compare(ctx context.Context, data *model.Dataset, base, next scenario.Scenario) (*Comparison, error) {
	defer e.metrics.ObserveSince("compare", time.Now())

	var baseSt, nextSt *Statement
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := e.combined(ctx, data, base)
		baseSt = st
		return err
	})
	g.Go(func() error {
		st, err := e.combined(ctx, data, next)
		nextSt = st
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewComparison(baseSt, nextSt), nil
}

func (e *Engine) combined(ctx context.Context, data *model.Dataset, scen scenario.Scenario) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Calculator(data, scen).CombinedPL()
}

// Variation is a named scenario given as adjustment keys.
type Variation struct {
	Name     string             `json:"name"`
	Scenario map[string]float64 `json:"scenario"`
}

// VariationResult carries either a comparison or the reason the variation
// could not be evaluated.
type VariationResult struct {
	Name       string      `json:"name"`
	Comparison *Comparison `json:"comparison,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// CompareVariations compares each variation to the base. A variation that
// fails to parse or compute is reported in its own result; only a failing
// base aborts the batch.
func (e *Engine) CompareVariations(ctx context.Context, data *model.Dataset, base scenario.Scenario, variations []Variation) ([]VariationResult, error) {
	defer e.metrics.ObserveSince("compare_variations", time.Now())

	baseSt, err := e.combined(ctx, data, base)
	if err != nil {
		return nil, fmt.Errorf("base scenario: %w", err)
	}

	results := make([]VariationResult, len(variations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range variations {
		g.Go(func() error {
			res := VariationResult{Name: v.Name}
			scen, err := e.ParseScenario(v.Name, v.Scenario)
			if err == nil {
				var st *Statement
				if st, err = e.combined(ctx, data, scen); err == nil {
					res.Comparison = NewComparison(baseSt, st)
				}
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Subtract returns next - base line by line, shaped like next.
func Subtract(next, base *Statement) *Statement {
	out := next.Map(func(cat Category, name string, v model.Series) model.Series {
		return v.Sub(base.Get(cat, name)).Map(clean)
	})
	out.Scenario = next.Scenario + " vs " + base.Scenario
	return out
}

// VariancePercent returns diff / |base| * 100 per value; zero where base is zero.
func VariancePercent(diff, base *Statement) *Statement {
	out := diff.Map(func(cat Category, name string, v model.Series) model.Series {
		b := base.Get(cat, name)
		pct := make(model.Series, len(v))
		for i := range v {
			if i < len(b) && b[i] != 0 {
				pct[i] = clean(v[i] / math.Abs(b[i]) * 100)
			}
		}
		return pct
	})
	out.Scenario = diff.Scenario
	return out
}
