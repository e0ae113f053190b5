package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the territory catalogue and named scenarios from separate
	// YAML files. Inline entries override file entries with the same code/name.
	TerritoriesFile string `yaml:"territories_file"`
	ScenariosFile   string `yaml:"scenarios_file"`

	Engine      EngineConfig      `yaml:"engine"`
	Territories []territory.Entry `yaml:"territories" validate:"dive"`
	Scenarios   []ScenarioConfig  `yaml:"scenarios" validate:"dive"`
}

type EngineConfig struct {
	CogsRates        map[string]float64 `yaml:"cogs_rates" validate:"dive,gte=0,lte=1"`
	FallbackCogsRate float64            `yaml:"fallback_cogs_rate" validate:"gte=0,lte=1"`
	// DefaultFulfilmentRate is signed; nil means the built-in default.
	DefaultFulfilmentRate *float64 `yaml:"default_fulfilment_rate" validate:"omitempty,gte=-1,lte=1"`
	// CentralOverheadTags may contain "" to match blank territories.
	CentralOverheadTags     []string `yaml:"central_overhead_tags"`
	MarketplaceSectionLabel string   `yaml:"marketplace_section_label"`
	MarketplaceSectionRows  int      `yaml:"marketplace_section_rows" validate:"gte=0"`
	DTCRevenueMetric        string   `yaml:"dtc_revenue_metric"`
	// Territories are summed into the combined statement, in order.
	Territories            []string `yaml:"territories" validate:"dive,required"`
	MarketplaceTerritories []string `yaml:"marketplace_territories" validate:"dive,required"`
}

type ScenarioConfig struct {
	Name        string             `yaml:"name" json:"name" validate:"required"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Adjustments map[string]float64 `yaml:"adjustments" json:"adjustments"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{Territories: territory.DefaultCatalogue()}
	c.applyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.TerritoriesFile != "" {
		var w struct {
			Territories []territory.Entry `yaml:"territories"`
		}
		if err := loadYAML(resolvePath(path, c.TerritoriesFile), &w); err != nil {
			return nil, fmt.Errorf("territories_file: %w", err)
		}
		c.Territories = MergeTerritories(w.Territories, c.Territories)
	}
	if c.ScenariosFile != "" {
		var w struct {
			Scenarios []ScenarioConfig `yaml:"scenarios"`
		}
		if err := loadYAML(resolvePath(path, c.ScenariosFile), &w); err != nil {
			return nil, fmt.Errorf("scenarios_file: %w", err)
		}
		c.Scenarios = MergeScenarios(w.Scenarios, c.Scenarios)
	}
	return &c, nil
}

// resolvePath prefers interpreting a relative path as relative to the config
// file directory, but falls back to the path as given (relative to cwd).
func resolvePath(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(configPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func loadYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

func (c *Config) applyDefaults() {
	if len(c.Territories) == 0 {
		c.Territories = territory.DefaultCatalogue()
	}
	c.Engine = MergeEngine(engineDefaults(), c.Engine)
}

func engineDefaults() EngineConfig {
	s := pl.DefaultSettings()
	rates := make(map[string]float64, len(s.CogsRates))
	for ch, r := range s.CogsRates {
		rates[string(ch)] = r
	}
	fulfilment := s.DefaultFulfilmentRate
	return EngineConfig{
		CogsRates:               rates,
		FallbackCogsRate:        s.FallbackCogsRate,
		DefaultFulfilmentRate:   &fulfilment,
		CentralOverheadTags:     append([]string(nil), s.CentralOverheadTags...),
		MarketplaceSectionLabel: s.MarketplaceSectionLabel,
		MarketplaceSectionRows:  s.MarketplaceSectionRows,
		DTCRevenueMetric:        s.DTCRevenueMetric,
		Territories:             territoryStrings(s.Territories),
		MarketplaceTerritories:  territoryStrings(s.MarketplaceTerritories),
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	r, err := territory.NewResolver(c.Territories)
	if err != nil {
		return fmt.Errorf("territories invalid: %w", err)
	}
	for _, list := range [][]string{c.Engine.Territories, c.Engine.MarketplaceTerritories} {
		for _, t := range list {
			if _, ok := r.Entry(model.Territory(t)); !ok {
				return fmt.Errorf("engine territory %q is not in the catalogue", t)
			}
		}
	}
	for ch := range c.Engine.CogsRates {
		if _, err := model.ParseChannel(ch); err != nil {
			return fmt.Errorf("engine.cogs_rates: %w", err)
		}
	}
	if _, err := c.NamedScenariosWith(r); err != nil {
		return err
	}
	return nil
}

// Resolver builds the territory resolver for the configured catalogue.
func (c *Config) Resolver() (*territory.Resolver, error) {
	return territory.NewResolver(c.Catalogue())
}

func (c *Config) Catalogue() []territory.Entry {
	return append([]territory.Entry(nil), c.Territories...)
}

// EngineSettings converts the engine section into calculator settings.
func (c *Config) EngineSettings() pl.Settings {
	e := c.Engine
	s := pl.DefaultSettings()
	if len(e.CogsRates) > 0 {
		s.CogsRates = make(map[model.Channel]float64, len(e.CogsRates))
		for k, v := range e.CogsRates {
			ch, err := model.ParseChannel(k)
			if err != nil {
				continue
			}
			s.CogsRates[ch] = v
		}
	}
	if e.FallbackCogsRate != 0 {
		s.FallbackCogsRate = e.FallbackCogsRate
	}
	if e.DefaultFulfilmentRate != nil {
		s.DefaultFulfilmentRate = *e.DefaultFulfilmentRate
	}
	if e.CentralOverheadTags != nil {
		s.CentralOverheadTags = append([]string(nil), e.CentralOverheadTags...)
	}
	if e.MarketplaceSectionLabel != "" {
		s.MarketplaceSectionLabel = e.MarketplaceSectionLabel
	}
	if e.MarketplaceSectionRows != 0 {
		s.MarketplaceSectionRows = e.MarketplaceSectionRows
	}
	if e.DTCRevenueMetric != "" {
		s.DTCRevenueMetric = e.DTCRevenueMetric
	}
	if len(e.Territories) > 0 {
		s.Territories = toTerritories(e.Territories)
	}
	if len(e.MarketplaceTerritories) > 0 {
		s.MarketplaceTerritories = toTerritories(e.MarketplaceTerritories)
	}
	return s
}

// NamedScenarios parses the configured scenarios, keyed by name, against the
// configured territory catalogue.
func (c *Config) NamedScenarios() (map[string]scenario.Scenario, error) {
	r, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("territories invalid: %w", err)
	}
	return c.NamedScenariosWith(r)
}

func (c *Config) NamedScenariosWith(known scenario.Territories) (map[string]scenario.Scenario, error) {
	out := make(map[string]scenario.Scenario, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		if _, dup := out[sc.Name]; dup {
			return nil, fmt.Errorf("scenario %q defined twice", sc.Name)
		}
		s, err := scenario.ParseWith(sc.Name, sc.Adjustments, known)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		out[sc.Name] = s
	}
	return out, nil
}

// MergeEngine overlays the set fields of override onto base.
func MergeEngine(base, override EngineConfig) EngineConfig {
	out := base
	if len(override.CogsRates) > 0 {
		out.CogsRates = make(map[string]float64, len(base.CogsRates)+len(override.CogsRates))
		for k, v := range base.CogsRates {
			out.CogsRates[k] = v
		}
		for k, v := range override.CogsRates {
			out.CogsRates[k] = v
		}
	}
	if override.FallbackCogsRate != 0 {
		out.FallbackCogsRate = override.FallbackCogsRate
	}
	if override.DefaultFulfilmentRate != nil {
		out.DefaultFulfilmentRate = override.DefaultFulfilmentRate
	}
	// An explicit empty list turns central overhead off.
	if override.CentralOverheadTags != nil {
		out.CentralOverheadTags = override.CentralOverheadTags
	}
	if override.MarketplaceSectionLabel != "" {
		out.MarketplaceSectionLabel = override.MarketplaceSectionLabel
	}
	if override.MarketplaceSectionRows != 0 {
		out.MarketplaceSectionRows = override.MarketplaceSectionRows
	}
	if override.DTCRevenueMetric != "" {
		out.DTCRevenueMetric = override.DTCRevenueMetric
	}
	if len(override.Territories) > 0 {
		out.Territories = override.Territories
	}
	if len(override.MarketplaceTerritories) > 0 {
		out.MarketplaceTerritories = override.MarketplaceTerritories
	}
	return out
}

// MergeTerritories overlays override entries onto base by code; entries with
// new codes are appended.
func MergeTerritories(base, override []territory.Entry) []territory.Entry {
	out := append([]territory.Entry(nil), base...)
	pos := make(map[model.Territory]int, len(out))
	for i, e := range out {
		pos[e.Code] = i
	}
	for _, o := range override {
		i, ok := pos[o.Code]
		if !ok {
			pos[o.Code] = len(out)
			out = append(out, o)
			continue
		}
		e := out[i]
		if o.Country != "" {
			e.Country = o.Country
		}
		if o.Aliases != nil {
			e.Aliases = o.Aliases
		}
		if o.MarketplaceLabel != "" {
			e.MarketplaceLabel = o.MarketplaceLabel
		}
		if o.Groups != nil {
			e.Groups = o.Groups
		}
		out[i] = e
	}
	return out
}

// MergeScenarios replaces base scenarios by name and appends new ones.
func MergeScenarios(base, override []ScenarioConfig) []ScenarioConfig {
	out := append([]ScenarioConfig(nil), base...)
	pos := make(map[string]int, len(out))
	for i, s := range out {
		pos[s.Name] = i
	}
	for _, o := range override {
		if i, ok := pos[o.Name]; ok {
			out[i] = o
			continue
		}
		pos[o.Name] = len(out)
		out = append(out, o)
	}
	return out
}

func territoryStrings(ts []model.Territory) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func toTerritories(ss []string) []model.Territory {
	out := make([]model.Territory, len(ss))
	for i, s := range ss {
		out[i] = model.Territory(s)
	}
	return out
}
