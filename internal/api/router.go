package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rdwburns/budget-planning-app/internal/api/handlers"
	"github.com/Rdwburns/budget-planning-app/internal/api/middleware"
	"github.com/Rdwburns/budget-planning-app/internal/observability"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Env         *handlers.Env
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	CORSOrigins []string
	// StaticDir, when it exists, is served as a single-page app.
	StaticDir string
}

// NewRouter wires middleware and every route onto a fresh gin engine.
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(opts.Logger, opts.Metrics))

	datasetHandler := handlers.NewDatasetHandler(opts.Env)
	plHandler := handlers.NewPLHandler(opts.Env)
	analysisHandler := handlers.NewAnalysisHandler(opts.Env)
	territoryHandler := handlers.NewTerritoryHandler(opts.Env)
	scenarioHandler := handlers.NewScenarioHandler(opts.Env)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"datasets": opts.Env.Store.Len(),
		})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/territories", territoryHandler.ListTerritories)
		api.GET("/scenarios", scenarioHandler.ListScenarios)

		api.POST("/datasets", datasetHandler.Upload)
		api.POST("/datasets/import", datasetHandler.Import)
		api.GET("/datasets/:id", datasetHandler.Get)
		api.POST("/datasets/:id/customers", datasetHandler.AddCustomer)

		api.POST("/datasets/:id/revenue", plHandler.Revenue)
		api.POST("/datasets/:id/pl", plHandler.TerritoryPL)
		api.POST("/datasets/:id/pl/combined", plHandler.CombinedPL)
		api.POST("/datasets/:id/compare", plHandler.Compare)
		api.POST("/datasets/:id/compare/variations", plHandler.CompareVariations)

		api.POST("/datasets/:id/waterfall", analysisHandler.Waterfall)
		api.GET("/datasets/:id/quality", analysisHandler.Quality)
		api.GET("/datasets/:id/rank", analysisHandler.Rank)
		api.POST("/datasets/:id/marketing", analysisHandler.Marketing)
	}

	serveStatic(router, opts.StaticDir, opts.Logger)
	return router
}

// serveStatic serves the built frontend, falling back to index.html for
// every non-API route.
func serveStatic(router *gin.Engine, staticDir string, logger *slog.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	}
	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		logger.Info("static directory not found, skipping static file serving", "dir", staticDir)
		router.NoRoute(notFound)
		return
	}
	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	logger.Info("serving static files", "dir", staticDir)
}
