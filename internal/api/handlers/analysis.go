package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/api/models"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
)

// AnalysisHandler serves the views built on top of statements
type AnalysisHandler struct {
	env *Env
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(env *Env) *AnalysisHandler {
	return &AnalysisHandler{env: env}
}

// Waterfall handles POST /api/v1/datasets/:id/waterfall
func (h *AnalysisHandler) Waterfall(c *gin.Context) {
	var req models.WaterfallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	mode, err := analysis.ParseMode(req.Mode)
	if err != nil {
		writeError(c, err)
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
	charts, err := analysis.Waterfall(st, mode, model.Period(strings.TrimSpace(req.Period)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WaterfallResponse{Mode: string(mode), Charts: charts})
}

// Quality handles GET /api/v1/datasets/:id/quality
func (h *AnalysisHandler) Quality(c *gin.Context) {
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	calc := h.env.Engine.Calculator(snap.Dataset, scenario.Base())
	report, err := analysis.CheckQuality(calc, snap.Dataset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

const defaultAssumedReturn = 3.0

// Marketing handles POST /api/v1/datasets/:id/marketing
func (h *AnalysisHandler) Marketing(c *gin.Context) {
	var req models.MarketingRequest
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
	report, err := analysis.Marketing(h.env.Engine.Calculator(snap.Dataset, scen), snap.Dataset)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := models.MarketingResponse{Scenario: scen.Name, Report: report}
	if req.ChangePct != 0 {
		assumed := defaultAssumedReturn
		if req.AssumedReturn != nil {
			assumed = *req.AssumedReturn
		}
		p := report.Project(req.ChangePct, assumed)
		resp.Projection = &p
	}
	c.JSON(http.StatusOK, resp)
}

// Rank handles GET /api/v1/datasets/:id/rank?scenario_name=...
func (h *AnalysisHandler) Rank(c *gin.Context) {
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	scen, err := h.env.scenarioFor(models.ScenarioRequest{ScenarioName: c.Query("scenario_name")})
	if err != nil {
		writeError(c, err)
		return
	}
	perTerritory, err := h.env.Engine.Calculator(snap.Dataset, scen).PerTerritory()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RankResponse{
		Scenario: scen.Name,
		Rankings: analysis.RankByEBITDA(perTerritory),
	})
}
