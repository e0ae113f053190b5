package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler handles scenario-related requests
type ScenarioHandler struct {
	env *Env
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(env *Env) *ScenarioHandler {
	return &ScenarioHandler{env: env}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scenarios": h.env.ScenarioInfo,
	})
}
