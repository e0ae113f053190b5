package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/api/models"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

var tables = []territory.Table{
	territory.TableB2B,
	territory.TableDTC,
	territory.TableMarketplace,
	territory.TableOverheads,
	territory.TableFulfilment,
}

// TerritoryHandler handles territory catalogue requests
type TerritoryHandler struct {
	env *Env
}

// NewTerritoryHandler creates a new territory handler
func NewTerritoryHandler(env *Env) *TerritoryHandler {
	return &TerritoryHandler{env: env}
}

// ListTerritories handles GET /api/v1/territories
func (h *TerritoryHandler) ListTerritories(c *gin.Context) {
	r := h.env.Engine.Resolver()
	entries := r.Entries()
	out := make([]models.TerritoryInfo, 0, len(entries))
	for _, e := range entries {
		info := models.TerritoryInfo{
			Code:      string(e.Code),
			Country:   e.Country,
			Aggregate: e.Aggregate(),
			Groups:    e.Groups,
			Spellings: make(map[string][]string, len(tables)),
		}
		for _, t := range tables {
			res := r.Resolve(e.Code, t)
			if res.Err != nil {
				continue
			}
			spellings := append(append([]string{}, res.Names...), res.Fallback...)
			if len(res.Groups) > 0 {
				spellings = append(spellings, res.Groups...)
			}
			info.Spellings[string(t)] = spellings
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{
		"territories": out,
	})
}
