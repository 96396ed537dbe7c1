package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"panic-buying/internal/analysis"
	"panic-buying/internal/api/models"
	"panic-buying/internal/simulate"

	"github.com/gin-gonic/gin"
)

// RankHandler ranks the scenario presets by severity.
type RankHandler struct {
	engine    *simulate.Engine
	scenarios *ScenarioHandler
	log       *slog.Logger
}

// NewRankHandler creates a new rank handler
func NewRankHandler(scenarios *ScenarioHandler, logger *slog.Logger) *RankHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RankHandler{engine: simulate.New(logger), scenarios: scenarios, log: logger}
}

// RankScenarios handles GET /api/v1/rank
// Presets that fail to load or run are skipped and reported under "skipped".
func (h *RankHandler) RankScenarios(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ids, err := h.scenarios.IDs()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	results := make(map[string]*simulate.Result, len(ids))
	skipped := map[string]string{}
	for _, id := range ids {
		cfg, err := h.scenarios.Load(id)
		if err != nil {
			skipped[id] = err.Error()
			continue
		}
		params, policy, err := cfg.Resolve()
		if err != nil {
			skipped[id] = err.Error()
			continue
		}
		r, err := h.engine.Run(c.Request.Context(), params, policy)
		if err != nil {
			h.log.Warn("ranking: scenario failed", "id", id, "error", err)
			skipped[id] = err.Error()
			continue
		}
		results[id] = r
	}

	ranked := analysis.RankBySeverity(results)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:     i + 1,
			Scenario: r.Name,
			Summary:  summaryResponse(r.Summary, results[r.Name].Params().Week),
		}
	}

	resp := gin.H{"rankings": rankings}
	if len(skipped) > 0 {
		resp["skipped"] = skipped
	}
	c.JSON(http.StatusOK, resp)
}
