package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/api/models"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// DatasetHandler handles dataset uploads and edits
type DatasetHandler struct {
	env *Env
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(env *Env) *DatasetHandler {
	return &DatasetHandler{env: env}
}

// Upload handles POST /api/v1/datasets. The body is a dataset document in
// JSON, or YAML when the content type says so.
func (h *DatasetHandler) Upload(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	decode := data.DecodeDataset
	if strings.Contains(c.ContentType(), "yaml") {
		decode = data.DecodeDatasetYAML
	}
	ds, err := decode(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATASET",
				Message: err.Error(),
			},
		})
		return
	}
	snap := h.env.Store.Put(ds)
	h.env.Logger.Info("dataset stored",
		"id", snap.ID,
		"periods", len(ds.Dates),
	)
	c.JSON(http.StatusCreated, datasetResponse(snap))
}

// Import handles POST /api/v1/datasets/import, fetching the document from a URL.
func (h *DatasetHandler) Import(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if h.env.Remote == nil {
		c.JSON(http.StatusNotImplemented, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "IMPORT_DISABLED",
				Message: "remote dataset import is not configured",
			},
		})
		return
	}
	ds, err := h.env.Remote.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		var remote *data.RemoteError
		if !errors.As(err, &remote) && !errors.Is(err, data.ErrOutsideBase) && !errors.Is(err, data.ErrDatasetTooLarge) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_DATASET",
					Message: err.Error(),
				},
			})
			return
		}
		writeError(c, err)
		return
	}
	snap := h.env.Store.Put(ds)
	h.env.Logger.Info("dataset imported", "id", snap.ID, "url", req.URL)
	c.JSON(http.StatusCreated, datasetResponse(snap))
}

// Get handles GET /api/v1/datasets/:id
func (h *DatasetHandler) Get(c *gin.Context) {
	snap, ok := h.env.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, datasetResponse(snap))
}

// AddCustomer handles POST /api/v1/datasets/:id/customers. The stored
// snapshot is replaced by a new version; earlier reads are unaffected.
func (h *DatasetHandler) AddCustomer(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row := model.CustomerRow{
		Customer:     req.Customer,
		Country:      req.Country,
		CountryGroup: req.CountryGroup,
		Margin:       req.Margin,
		Values:       model.Series(req.Values),
	}
	snap, err := h.env.Store.Update(c.Param("id"), func(ds *model.Dataset) (*model.Dataset, error) {
		return ds.WithCustomer(row)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, datasetResponse(snap))
}

func datasetResponse(snap data.Snapshot) models.DatasetResponse {
	ds := snap.Dataset
	resp := models.DatasetResponse{
		ID:             snap.ID,
		Version:        snap.Version,
		UpdatedAt:      snap.UpdatedAt,
		Periods:        ds.Dates.Strings(),
		HasLedger:      ds.B2B != nil,
		DTCTables:      make([]string, 0, len(ds.DTC)),
		OverheadRows:   len(ds.Overheads),
		FulfilmentRows: len(ds.Fulfilment),
	}
	if ds.B2B != nil {
		resp.HasGroupColumn = ds.B2B.HasGroupColumn
		resp.Customers = len(ds.B2B.Rows)
	}
	for t := range ds.DTC {
		resp.DTCTables = append(resp.DTCTables, string(t))
	}
	sort.Strings(resp.DTCTables)
	if ds.Marketplace != nil {
		resp.MarketplaceRows = len(ds.Marketplace.Rows)
	}
	if len(ds.CogsRates) > 0 {
		resp.CogsRates = make(map[string]float64, len(ds.CogsRates))
		for ch, r := range ds.CogsRates {
			resp.CogsRates[string(ch)] = r
		}
	}
	return resp
}
