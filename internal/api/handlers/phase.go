package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"panic-buying/internal/analysis"
	"panic-buying/internal/api/models"
	"panic-buying/internal/emit"
	"panic-buying/internal/model"
	"panic-buying/internal/phase"
	"panic-buying/internal/simulate"
	"panic-buying/internal/usage"

	"github.com/gin-gonic/gin"
)

// PhaseHandler serves state-space views: phase portraits and fixed points.
type PhaseHandler struct {
	engine    *simulate.Engine
	scenarios *ScenarioHandler
}

// NewPhaseHandler creates a new phase handler
func NewPhaseHandler(scenarios *ScenarioHandler, logger *slog.Logger) *PhaseHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PhaseHandler{engine: simulate.New(logger), scenarios: scenarios}
}

// Portrait handles POST /api/v1/phase
func (h *PhaseHandler) Portrait(c *gin.Context) {
	var req models.PhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cfg, err := h.scenarios.Resolve(req.Scenario)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	params, policy, err := cfg.Resolve()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	result, err := h.engine.Run(c.Request.Context(), params, policy)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	portrait, err := phase.NewPortrait(result, phase.Grid(req.Grid))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := models.PhaseResponse{
		XLabel:     "local storage [" + emit.ValueAxisLabel + "]",
		YLabel:     "stock [" + emit.ValueAxisLabel + "]",
		Rate:       portrait.Field.Rate,
		Grid:       models.GridConfig(portrait.Field.Grid),
		Trajectory: make([][2]float64, len(portrait.Trajectory)),
		Field:      make([]models.FieldVector, len(portrait.Field.Vectors)),
	}
	for i, p := range portrait.Trajectory {
		resp.Trajectory[i] = [2]float64{p.Local, p.Stock}
	}
	for i, v := range portrait.Field.Vectors {
		resp.Field[i] = models.FieldVector(v)
	}
	c.JSON(http.StatusOK, resp)
}

// Equilibrium handles GET /api/v1/equilibrium
func (h *PhaseHandler) Equilibrium(c *gin.Context) {
	var req models.EquilibriumRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	p := model.DefaultParams()
	if req.Day != 0 {
		p.Day = req.Day
		p.Week = model.DaysPerWeek * p.Day
		p.Duration = model.DefaultWeeks * p.Week
	}
	if req.Week != 0 {
		p.Week = req.Week
		p.Duration = model.DefaultWeeks * p.Week
	}
	if req.StockCapacity != 0 {
		p.StockCapacity = req.StockCapacity
	}
	ratePerWeek := req.RatePerWeek
	if ratePerWeek == 0 {
		ratePerWeek = usage.DefaultRatePerWeek
	}

	point, err := analysis.Equilibrium(p, ratePerWeek/p.Week)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EquilibriumResponse{
		RatePerWeek: ratePerWeek,
		Stock:       point.Stock,
		Local:       point.Local,
		Wanted:      point.Wanted,
	})
}
