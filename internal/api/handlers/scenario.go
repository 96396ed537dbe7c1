package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"panic-buying/internal/api/models"
	"panic-buying/internal/config"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler serves the scenario presets in a directory of YAML files.
type ScenarioHandler struct {
	dir string
	log *slog.Logger
}

// NewScenarioHandler creates a new scenario handler. An empty dir falls back
// to ./examples/scenarios.
func NewScenarioHandler(dir string, logger *slog.Logger) *ScenarioHandler {
	if dir == "" {
		dir = filepath.Join("examples", "scenarios")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Debug("scenario directory", "dir", dir)
	return &ScenarioHandler{dir: dir, log: logger}
}

func (h *ScenarioHandler) Dir() string { return h.dir }

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios := []models.ScenarioInfo{}

	ids, err := h.IDs()
	if err != nil {
		h.log.Warn("reading scenario directory", "dir", h.dir, "error", err)
		c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
		return
	}
	for _, id := range ids {
		cfg, err := h.Load(id)
		if err != nil {
			h.log.Warn("skipping scenario file", "id", id, "error", err)
			continue
		}
		name := cfg.Name
		if name == "" {
			name = id
		}
		policy := cfg.Policy.Name
		if policy == "" {
			policy = "constant"
		}
		scenarios = append(scenarios, models.ScenarioInfo{
			ID:         id,
			Name:       name,
			File:       h.path(id),
			Policy:     policy,
			Simulation: fromSimulationConfig(cfg.Simulation),
		})
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// IDs lists preset IDs (file names without .yaml), sorted.
func (h *ScenarioHandler) IDs() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads a preset without validating it.
func (h *ScenarioHandler) Load(id string) (*config.Config, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", errScenarioNotFound, id)
	}
	path := h.path(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", errScenarioNotFound, id)
		}
		return nil, err
	}
	return config.LoadUnchecked(path)
}

func (h *ScenarioHandler) path(id string) string {
	return filepath.Join(h.dir, id+".yaml")
}

// Resolve builds a scenario config from an optional preset plus overrides.
func (h *ScenarioHandler) Resolve(sc models.ScenarioConfig) (*config.Config, error) {
	return h.merge(&config.Config{}, sc)
}

// merge applies sc over base. A preset named by sc replaces base entirely.
func (h *ScenarioHandler) merge(base *config.Config, sc models.ScenarioConfig) (*config.Config, error) {
	cfg := *base
	if sc.ScenarioID != "" {
		preset, err := h.Load(sc.ScenarioID)
		if err != nil {
			return nil, err
		}
		cfg = *preset
	}
	cfg.Simulation = config.MergeSimulation(cfg.Simulation, toSimulationConfig(sc.Simulation))
	if sc.Policy.Name != "" {
		cfg.Policy = config.PolicyConfig{Name: sc.Policy.Name, Params: sc.Policy.Params}
	}
	return &cfg, nil
}

func toSimulationConfig(s models.SimulationConfig) config.SimulationConfig {
	return config.SimulationConfig{
		Day:           s.Day,
		Week:          s.Week,
		Duration:      s.Duration,
		DurationWeeks: s.DurationWeeks,
		StockCapacity: s.StockCapacity,
		InitialStock:  s.InitialStock,
		InitialLocal:  s.InitialLocal,
	}
}

func fromSimulationConfig(s config.SimulationConfig) models.SimulationConfig {
	return models.SimulationConfig{
		Day:           s.Day,
		Week:          s.Week,
		Duration:      s.Duration,
		DurationWeeks: s.DurationWeeks,
		StockCapacity: s.StockCapacity,
		InitialStock:  s.InitialStock,
		InitialLocal:  s.InitialLocal,
	}
}
