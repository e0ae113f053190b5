package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/analysis"
	"github.com/Rdwburns/budget-planning-app/internal/api/models"
	"github.com/Rdwburns/budget-planning-app/internal/config"
	"github.com/Rdwburns/budget-planning-app/internal/data"
	"github.com/Rdwburns/budget-planning-app/internal/model"
	"github.com/Rdwburns/budget-planning-app/internal/pl"
	"github.com/Rdwburns/budget-planning-app/internal/scenario"
	"github.com/Rdwburns/budget-planning-app/internal/territory"
)

// Env carries what the handlers share.
type Env struct {
	Engine *pl.Engine
	Store  *data.Store
	// Remote fetches datasets for /datasets/import; nil disables the route.
	Remote *data.RemoteClient
	// Scenarios are the configured named scenarios.
	Scenarios    map[string]scenario.Scenario
	ScenarioInfo []models.ScenarioInfo
	Logger       *slog.Logger
}

// NewEnv builds the handler environment, parsing the configured scenarios.
func NewEnv(cfg *config.Config, engine *pl.Engine, store *data.Store, logger *slog.Logger) (*Env, error) {
	named, err := cfg.NamedScenariosWith(engine.Resolver())
	if err != nil {
		return nil, err
	}
	info := make([]models.ScenarioInfo, 0, len(cfg.Scenarios))
	for _, sc := range cfg.Scenarios {
		info = append(info, models.ScenarioInfo{
			Name:        sc.Name,
			Description: sc.Description,
			Adjustments: named[sc.Name].Keys(),
		})
	}
	return &Env{
		Engine:       engine,
		Store:        store,
		Scenarios:    named,
		ScenarioInfo: info,
		Logger:       logger,
	}, nil
}

var (
	errUnknownScenario  = errors.New("unknown scenario name")
	errAmbiguousRequest = errors.New("give either scenario or scenario_name, not both")
)

// scenarioFor builds the scenario a request asks for.
func (e *Env) scenarioFor(req models.ScenarioRequest) (scenario.Scenario, error) {
	switch {
	case req.ScenarioName != "" && len(req.Scenario) > 0:
		return scenario.Scenario{}, errAmbiguousRequest
	case req.ScenarioName != "":
		s, ok := e.Scenarios[req.ScenarioName]
		if !ok {
			return scenario.Scenario{}, fmt.Errorf("%w: %q", errUnknownScenario, req.ScenarioName)
		}
		return s, nil
	case len(req.Scenario) > 0:
		return e.Engine.ParseScenario("Custom", req.Scenario)
	}
	return scenario.Base(), nil
}

// snapshot loads the dataset named by the :id path parameter, writing the
// error response itself when it cannot.
func (e *Env) snapshot(c *gin.Context) (data.Snapshot, bool) {
	snap, err := e.Store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return data.Snapshot{}, false
	}
	return snap, true
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// writeError maps engine and store errors onto API error codes.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "CALCULATION_ERROR"
	message := err.Error()

	var missing *pl.MissingInputError
	var remote *data.RemoteError
	switch {
	case errors.As(err, &remote):
		status, code = http.StatusBadGateway, remote.Code
		switch remote.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			status = http.StatusUnauthorized
		case http.StatusNotFound:
			status = http.StatusNotFound
		}
	case errors.Is(err, data.ErrOutsideBase):
		status, code = http.StatusForbidden, "IMPORT_FORBIDDEN"
	case errors.Is(err, data.ErrDatasetTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "DATASET_TOO_LARGE"
	case errors.As(err, &missing):
		status, code, message = http.StatusUnprocessableEntity, "MISSING_INPUT", missing.Error()
	case errors.Is(err, territory.ErrUnknownTerritory):
		status, code = http.StatusBadRequest, "UNKNOWN_TERRITORY"
	case errors.Is(err, scenario.ErrInvalidAdjustment),
		errors.Is(err, errUnknownScenario),
		errors.Is(err, errAmbiguousRequest):
		status, code = http.StatusBadRequest, "INVALID_SCENARIO"
	case errors.Is(err, data.ErrSnapshotNotFound):
		status, code = http.StatusNotFound, "DATASET_NOT_FOUND"
	case errors.Is(err, data.ErrMalformedTable),
		errors.Is(err, model.ErrSeriesLength):
		status, code = http.StatusBadRequest, "INVALID_DATASET"
	case errors.Is(err, analysis.ErrInvalidMode),
		errors.Is(err, analysis.ErrUnknownPeriod):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
