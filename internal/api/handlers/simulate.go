package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"panic-buying/internal/analysis"
	"panic-buying/internal/api/models"
	"panic-buying/internal/config"
	"panic-buying/internal/emit"
	"panic-buying/internal/model"
	"panic-buying/internal/simulate"
	"panic-buying/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultRunsLimit = 50

// SimulateHandler handles simulation runs and stored-run lookups.
type SimulateHandler struct {
	engine    *simulate.Engine
	scenarios *ScenarioHandler
	db        *store.DB
	cache     *store.ResultCache
	sink      emit.Sink
	log       *slog.Logger
}

// NewSimulateHandler creates a new simulate handler. db, cache and sink may be nil.
func NewSimulateHandler(scenarios *ScenarioHandler, db *store.DB, cache *store.ResultCache, sink emit.Sink, logger *slog.Logger) *SimulateHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SimulateHandler{
		engine:    simulate.New(logger),
		scenarios: scenarios,
		db:        db,
		cache:     cache,
		sink:      sink,
		log:       logger,
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.Options.Persist && h.db == nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "persist requested but no run store is configured", nil)
		return
	}

	cfg, err := h.scenarios.Resolve(req.Scenario)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	result, err := h.run(c, cfg)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	name := runName(req.Name, cfg, result)
	id := uuid.NewString()
	if req.Options.Persist {
		id, err = h.db.SaveRun(c.Request.Context(), name, result)
		if err != nil {
			respondDomainError(c, fmt.Errorf("saving run: %w", err))
			return
		}
	}
	h.cache.Set(id, result)

	if h.sink != nil {
		if err := h.sink.Emit(c.Request.Context(), name, result); err != nil {
			h.log.Warn("emitting run", "run", name, "id", id, "error", err)
		}
	}

	resp := models.SimulateResponse{
		ID:        id,
		Name:      name,
		Status:    "completed",
		Persisted: req.Options.Persist,
		Params:    paramsInfo(result.Params()),
		Summary:   summaryResponse(analysis.Summarize(result), result.Params().Week),
	}
	if req.Options.IncludeSeries {
		payload := emit.NewSeriesPayload(name, result)
		resp.Series = &payload
	}
	c.JSON(http.StatusOK, resp)
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulateHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	baseCfg, err := h.scenarios.Resolve(req.Baseline)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	baseline, err := h.run(c, baseCfg)
	if err != nil {
		respondDomainError(c, fmt.Errorf("baseline: %w", err))
		return
	}
	week := baseline.Params().Week

	resp := models.CompareResponse{
		Baseline:   summaryResponse(analysis.Summarize(baseline), week),
		Comparison: make([]models.ComparisonResult, 0, len(req.Variations)),
	}
	for _, v := range req.Variations {
		cfg, err := h.scenarios.merge(baseCfg, v.Scenario)
		if err != nil {
			respondDomainError(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		result, err := h.run(c, cfg)
		if err != nil {
			respondDomainError(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		cmp, err := analysis.Compare(baseline, result)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidConfig, fmt.Sprintf("variation %q: %v", v.Name, err), nil)
			return
		}
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Name:           v.Name,
			Summary:        summaryResponse(analysis.Summarize(result), week),
			MaxStockDip:    cmp.MaxDip,
			MaxDipWeek:     float64(cmp.MaxDipIndex) * baseline.Params().Day / week,
			MaxSurplus:     cmp.MaxSurplus,
			MaxSurplusWeek: float64(cmp.MaxSurplusIndex) * baseline.Params().Day / week,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// ListRuns handles GET /api/v1/runs
func (h *SimulateHandler) ListRuns(c *gin.Context) {
	var req models.ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	runs := []models.RunInfo{}
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"runs": runs})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	infos, err := h.db.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	for _, info := range infos {
		runs = append(runs, models.RunInfo{
			ID:        info.ID,
			Name:      info.Name,
			Policy:    info.Policy,
			Points:    info.Points,
			Params:    paramsInfo(info.Params),
			CreatedAt: info.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetSeries handles GET /api/v1/runs/:id/series
// Recent runs are served from the result cache; older ones from the run store.
func (h *SimulateHandler) GetSeries(c *gin.Context) {
	id := c.Param("id")
	if result, ok := h.cache.Get(id); ok {
		c.JSON(http.StatusOK, emit.NewSeriesPayload(id, result))
		return
	}
	if h.db == nil {
		respondDomainError(c, fmt.Errorf("%w: %s", store.ErrNotFound, id))
		return
	}

	info, result, err := h.db.LoadRun(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	h.cache.Set(id, result)
	c.JSON(http.StatusOK, emit.NewSeriesPayload(info.Name, result))
}

func (h *SimulateHandler) run(c *gin.Context, cfg *config.Config) (*simulate.Result, error) {
	params, policy, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return h.engine.Run(c.Request.Context(), params, policy)
}

func runName(requested string, cfg *config.Config, r *simulate.Result) string {
	switch {
	case requested != "":
		return requested
	case cfg.Name != "":
		return cfg.Name
	default:
		return r.Policy()
	}
}

func paramsInfo(p model.Params) models.ParamsInfo {
	return models.ParamsInfo{
		Day:           p.Day,
		Week:          p.Week,
		Duration:      p.Duration,
		StockCapacity: p.StockCapacity,
		InitialStock:  p.InitialStock,
		InitialLocal:  p.InitialLocal,
	}
}

// summaryResponse converts times to weeks.
func summaryResponse(s analysis.Summary, week float64) models.Summary {
	return models.Summary{
		Policy:         s.Policy,
		Points:         s.Points,
		InitialStock:   s.InitialStock,
		FinalStock:     s.FinalStock,
		FinalLocal:     s.FinalLocal,
		MinStock:       s.MinStock,
		MinStockWeek:   s.MinStockTime / week,
		MaxLocal:       s.MaxLocal,
		MaxLocalWeek:   s.MaxLocalTime / week,
		PeakDemand:     s.PeakDemand,
		PeakDemandWeek: s.PeakDemandTime / week,
		ShortageSteps:  s.ShortageSteps,
		HoardingSteps:  s.HoardingSteps,
		UnmetDemand:    s.UnmetDemand,
	}
}
