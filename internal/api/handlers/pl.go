package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/api/models"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// PLHandler handles revenue, statement and comparison requests
type PLHandler struct {
	env *Env
}

// NewPLHandler creates a new P&L handler
func NewPLHandler(env *Env) *PLHandler {
	return &PLHandler{env: env}
}

// Revenue handles POST /api/v1/datasets/:id/revenue
func (h *PLHandler) Revenue(c *gin.Context) {
	var req models.RevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ch, err := model.ParseChannel(req.Channel)
	if err != nil {
		bindError(c, err)
		return
	}
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	scen, err := h.env.scenarioFor(req.ScenarioRequest)
	if err != nil {
		writeError(c, err)
		return
	}
	t := model.Territory(strings.TrimSpace(req.Territory))
	if t != "" {
		if _, known := h.env.Engine.Resolver().Entry(t); !known {
			writeError(c, fmt.Errorf("%w: %q", territory.ErrUnknownTerritory, t))
			return
		}
	}

	calc := h.env.Engine.Calculator(snap.Dataset, scen)
	var values model.Series
	switch {
	case ch == model.ChannelB2B && req.Group != "":
		values, err = calc.B2BRevenueByGroup(req.Group)
	case ch == model.ChannelB2B:
		values, err = calc.B2BRevenue(t)
	case ch == model.ChannelDTC && t == "":
		values = calc.TotalDTCRevenue()
	case ch == model.ChannelDTC:
		values = calc.DTCRevenue(t)
	case ch == model.ChannelMarketplace && t == "":
		values = calc.TotalMarketplaceRevenue()
	case ch == model.ChannelMarketplace:
		values = calc.MarketplaceRevenue(t)
	default:
		bindError(c, fmt.Errorf("channel %s has no revenue", ch))
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RevenueResponse{
		Channel:     string(ch),
		Territory:   string(t),
		Group:       req.Group,
		Scenario:    scen.Name,
		Periods:     snap.Dataset.Dates.Strings(),
		Values:      values,
		Total:       values.Total(),
		Diagnostics: calc.Diagnostics(),
	})
}

// TerritoryPL handles POST /api/v1/datasets/:id/pl
func (h *PLHandler) TerritoryPL(c *gin.Context) {
	var req models.StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	scen, err := h.env.scenarioFor(req.ScenarioRequest)
	if err != nil {
		writeError(c, err)
		return
	}
	t := model.Territory(strings.TrimSpace(req.Territory))
	st, err := h.env.Engine.Calculator(snap.Dataset, scen).TerritoryPL(t)
	if err != nil {
		writeError(c, err)
		return
	}
	writeStatement(c, req.Format, st)
}

// CombinedPL handles POST /api/v1/datasets/:id/pl/combined
func (h *PLHandler) CombinedPL(c *gin.Context) {
	var req models.CombinedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	scen, err := h.env.scenarioFor(req.ScenarioRequest)
	if err != nil {
		writeError(c, err)
		return
	}
	st, err := h.env.Engine.Calculator(snap.Dataset, scen).CombinedPL()
	if err != nil {
		writeError(c, err)
		return
	}
	writeStatement(c, req.Format, st)
}

// Compare handles POST /api/v1/datasets/:id/compare
func (h *PLHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	base, err := h.env.scenarioFor(req.Base)
	if err != nil {
		writeError(c, err)
		return
	}
	next, err := h.env.scenarioFor(req.New)
	if err != nil {
		writeError(c, err)
		return
	}
	cmp, err := h.env.Engine.Compare(c.Request.Context(), snap.Dataset, base, next)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// CompareVariations handles POST /api/v1/datasets/:id/compare/variations
func (h *PLHandler) CompareVariations(c *gin.Context) {
	var req models.CompareVariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	base, err := h.env.scenarioFor(req.Base)
	if err != nil {
		writeError(c, err)
		return
	}

	variations := make([]pl.Variation, len(req.Variations))
	for i, v := range req.Variations {
		keys := v.Scenario
		if v.ScenarioName != "" {
			named, err := h.env.scenarioFor(v.ScenarioRequest)
			if err != nil {
				writeError(c, err)
				return
			}
			keys = named.Keys()
		}
		variations[i] = pl.Variation{Name: v.Name, Scenario: keys}
	}

	results, err := h.env.Engine.CompareVariations(c.Request.Context(), snap.Dataset, base, variations)
	if err != nil {
		writeError(c, err)
		return
	}

	var resp models.CompareVariationsResponse
	haveBase := false
	resp.Variations = make([]models.VariationComparison, len(results))
	for i, res := range results {
		out := models.VariationComparison{Name: res.Name, Error: res.Error}
		if cmp := res.Comparison; cmp != nil {
			resp.Base, haveBase = cmp.Base.Summary(), true
			summary := cmp.New.Summary()
			diff := cmp.Difference.Summary()
			out.Summary, out.Difference = &summary, &diff
			if req.IncludeStatements {
				out.Comparison = cmp
			}
		}
		resp.Variations[i] = out
	}
	if !haveBase {
		st, err := h.env.Engine.Calculator(snap.Dataset, base).CombinedPL()
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Base = st.Summary()
	}
	c.JSON(http.StatusOK, resp)
}

func writeStatement(c *gin.Context, format string, st *pl.Statement) {
	switch strings.ToLower(format) {
	case "", "json":
		c.JSON(http.StatusOK, st)
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvName(st)))
		c.Status(http.StatusOK)
		if err := pl.WriteStatementCSV(c.Writer, st); err != nil {
			_ = c.Error(err)
		}
	default:
		bindError(c, fmt.Errorf("unknown format %q", format))
	}
}

func csvName(st *pl.Statement) string {
	name := strings.ToLower(strings.ReplaceAll(st.Territory, " ", "_"))
	return "pl_" + name + ".csv"
}
