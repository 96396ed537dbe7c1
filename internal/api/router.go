// Package api wires the HTTP handlers and middleware into a gin router.
package api

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"panic-buying/internal/api/handlers"
	"panic-buying/internal/api/middleware"
	"panic-buying/internal/emit"
	"panic-buying/internal/store"

	"github.com/gin-gonic/gin"
)

// Options carries the router's collaborators. Store, Cache and Sink may be nil.
type Options struct {
	ScenarioDir string
	StaticDir   string
	CORSOrigins []string
	Store       *store.DB
	Cache       *store.ResultCache
	Sink        emit.Sink
	Logger      *slog.Logger
}

// NewRouter builds the API router. Callers set the gin mode beforehand.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	scenarioHandler := handlers.NewScenarioHandler(opts.ScenarioDir, logger)
	simulateHandler := handlers.NewSimulateHandler(scenarioHandler, opts.Store, opts.Cache, opts.Sink, logger)
	rankHandler := handlers.NewRankHandler(scenarioHandler, logger)
	phaseHandler := handlers.NewPhaseHandler(scenarioHandler, logger)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", health)

	api := router.Group("/api/v1")
	{
		api.GET("/health", health)

		api.POST("/simulate", simulateHandler.RunSimulation)
		api.POST("/simulate/compare", simulateHandler.CompareSimulations)

		api.GET("/runs", simulateHandler.ListRuns)
		api.GET("/runs/:id/series", simulateHandler.GetSeries)

		api.GET("/policies", handlers.ListPolicies)
		api.GET("/scenarios", scenarioHandler.ListScenarios)
		api.GET("/rank", rankHandler.RankScenarios)

		api.POST("/phase", phaseHandler.Portrait)
		api.GET("/equilibrium", phaseHandler.Equilibrium)
	}

	serveStatic(router, opts.StaticDir, logger)
	return router
}

// serveStatic serves a built frontend from dir, if it exists, with SPA fallback.
func serveStatic(router *gin.Engine, dir string, logger *slog.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": handlers.CodeNotFound, "message": "Not found"}})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(dir); err != nil {
		logger.Debug("static directory not found, skipping static file serving", "dir", dir)
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	logger.Info("serving static files", "dir", dir)
}
