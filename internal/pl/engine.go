package pl

import (
	"log/slog"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// Settings are the engine constants that vary by business rather than by dataset.
type Settings struct {
	// CogsRates are used when the dataset carries no rate for a channel.
	CogsRates map[model.Channel]float64
	// FallbackCogsRate applies when neither the dataset nor CogsRates know the channel.
	FallbackCogsRate float64
	// DefaultFulfilmentRate is signed (negative reduces profit).
	DefaultFulfilmentRate float64
	// CentralOverheadTags mark overhead rows not attributable to a territory.
	// An empty tag matches rows with a blank territory.
	CentralOverheadTags []string

	MarketplaceSectionLabel string
	// MarketplaceSectionRows bounds the search window after the section label.
	MarketplaceSectionRows int
	DTCRevenueMetric       string

	// Territories are summed into the combined statement.
	Territories []model.Territory
	// MarketplaceTerritories are summed by TotalMarketplaceRevenue.
	MarketplaceTerritories []model.Territory
}

func DefaultSettings() Settings {
	return Settings{
		CogsRates: map[model.Channel]float64{
			model.ChannelDTC:         0.24,
			model.ChannelB2B:         0.26,
			model.ChannelMarketplace: 0.18,
			model.ChannelTikTok:      0.24,
		},
		FallbackCogsRate:        0.24,
		DefaultFulfilmentRate:   -0.15,
		CentralOverheadTags:     []string{"Group", "Shared", "Central", "Corporate", "HQ", ""},
		MarketplaceSectionLabel: "Territory £",
		MarketplaceSectionRows:  15,
		DTCRevenueMetric:        "Total Revenue",
		Territories:             append([]model.Territory(nil), model.ReportingTerritories...),
		MarketplaceTerritories:  append([]model.Territory(nil), model.MarketplaceTerritories...),
	}
}

// Engine holds what every calculation shares. It is safe for concurrent use;
// the calculators it builds are not.
type Engine struct {
	settings Settings
	resolver *territory.Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

type Option func(*Engine)

func WithSettings(s Settings) Option { return func(e *Engine) { e.settings = s } }

func WithResolver(r *territory.Resolver) Option { return func(e *Engine) { e.resolver = r } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithMetrics(m *observability.Metrics) Option { return func(e *Engine) { e.metrics = m } }

func New(opts ...Option) *Engine {
	e := &Engine{settings: DefaultSettings()}
	for _, o := range opts {
		o(e)
	}
	if e.resolver == nil {
		e.resolver = territory.Default()
	}
	if e.logger == nil {
		e.logger = observability.Discard()
	}
	return e
}

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) Resolver() *territory.Resolver { return e.resolver }

// ParseScenario parses adjustment keys against the engine's territory catalogue.
func (e *Engine) ParseScenario(name string, keys map[string]float64) (scenario.Scenario, error) {
	return scenario.ParseWith(name, keys, e.resolver)
}

// Calculator builds a fresh calculator over one dataset snapshot and scenario.
func (e *Engine) Calculator(data *model.Dataset, scen scenario.Scenario) *Calculator {
	return &Calculator{engine: e, data: data, scen: scen}
}
