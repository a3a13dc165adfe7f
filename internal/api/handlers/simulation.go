package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/gpp-sim/internal/engine"
	"github.com/stitts-dev/gpp-sim/internal/export"
	"github.com/stitts-dev/gpp-sim/internal/websocket"
	"github.com/stitts-dev/gpp-sim/pkg/config"
	"github.com/stitts-dev/gpp-sim/pkg/utils"
)

// SimulationHandler handles simulation-related endpoints
type SimulationHandler struct {
	cfg    *config.Config
	hub    *websocket.Hub
	store  *ResultStore
	logger *logrus.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(cfg *config.Config, hub *websocket.Hub, store *ResultStore, logger *logrus.Logger) *SimulationHandler {
	return &SimulationHandler{
		cfg:    cfg,
		hub:    hub,
		store:  store,
		logger: logger,
	}
}

// SimulationRequest carries a player pool plus the engine's
// configuration surface. Everything except the pool is optional and
// falls back to server defaults.
type SimulationRequest struct {
	Players    []engine.Player             `json:"players" binding:"required"`
	Options    engine.SimulationOptions    `json:"options"`
	Volatility map[engine.Position]float64 `json:"volatility,omitempty"`
	Rules      []engine.CorrelationRule    `json:"correlation_rules,omitempty"`
	RankBy     engine.MetricField          `json:"rank_by,omitempty"`
	TopK       int                         `json:"top_k,omitempty"`
}

// SimulationResponse is the metrics table for one completed run.
type SimulationResponse struct {
	RunID          string                 `json:"run_id"`
	NumSimulations int                    `json:"num_simulations"`
	Seed           int64                  `json:"seed"`
	PoolSize       int                    `json:"pool_size"`
	ExecutionTime  string                 `json:"execution_time"`
	Metrics        []engine.PlayerMetrics `json:"metrics"`
	Top            []engine.PlayerMetrics `json:"top,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// RunSimulation handles POST /simulate: validates the pool, draws the
// joint sample matrix, and returns the summarized metrics table.
// Progress updates stream to WebSocket subscribers while the run is in
// flight.
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	opts := h.applyServerDefaults(req.Options)

	var volatility *engine.VolatilityProfile
	if len(req.Volatility) > 0 {
		volatility = engine.NewVolatilityProfile(req.Volatility)
	}

	var model *engine.CorrelationModel
	if len(req.Rules) > 0 {
		var err error
		model, err = engine.NewCorrelationModel(req.Rules)
		if err != nil {
			utils.SendValidationError(c, "Invalid correlation rules", err.Error())
			return
		}
	}

	progress := make(chan engine.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			h.hub.BroadcastProgress(update)
		}
	}()

	sampler := engine.NewSampler(volatility, model)
	startTime := time.Now()
	run, err := sampler.Simulate(c.Request.Context(), req.Players, opts, progress)
	close(progress)
	<-done

	if err != nil {
		h.sendEngineError(c, err)
		return
	}

	metrics := engine.Summarize(run)

	response := &SimulationResponse{
		RunID:          run.ID,
		NumSimulations: run.NumSimulations,
		Seed:           run.Seed,
		PoolSize:       len(run.Pool),
		ExecutionTime:  time.Since(startTime).String(),
		Metrics:        metrics,
		CreatedAt:      run.CreatedAt,
	}

	if req.TopK > 0 {
		rankBy := req.RankBy
		if rankBy == "" {
			rankBy = engine.FieldBoomScore
		}
		response.Top = engine.TopK(metrics, rankBy, req.TopK)
	}

	h.store.Put(response)

	h.logger.WithFields(logrus.Fields{
		"run_id":          run.ID,
		"num_simulations": run.NumSimulations,
		"pool_size":       len(run.Pool),
		"execution_time":  time.Since(startTime),
	}).Info("Simulation completed")

	utils.SendSuccess(c, response)
}

// GetSimulationResult handles GET /simulations/:id.
func (h *SimulationHandler) GetSimulationResult(c *gin.Context) {
	result, ok := h.store.Get(c.Param("id"))
	if !ok {
		utils.SendNotFound(c, "Simulation not found")
		return
	}
	utils.SendSuccess(c, result)
}

// ExportSimulation handles GET /simulations/:id/export, returning the
// stored metrics table as a CSV attachment.
func (h *SimulationHandler) ExportSimulation(c *gin.Context) {
	result, ok := h.store.Get(c.Param("id"))
	if !ok {
		utils.SendNotFound(c, "Simulation not found")
		return
	}

	csvData, err := export.MetricsCSV(result.Metrics)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render metrics CSV")
		utils.SendInternalError(c, "Failed to export simulation")
		return
	}

	filename := fmt.Sprintf("gpp_sim_results_%s.csv", time.Now().Format("20060102_1504"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvData)
}

// applyServerDefaults fills unset request options from server config
// and caps the simulation count at the configured maximum.
func (h *SimulationHandler) applyServerDefaults(opts engine.SimulationOptions) engine.SimulationOptions {
	if opts.NumSimulations == 0 {
		opts.NumSimulations = h.cfg.DefaultSimulations
	}
	if opts.NumSimulations > h.cfg.MaxSimulations {
		opts.NumSimulations = h.cfg.MaxSimulations
	}
	if opts.Seed == 0 {
		opts.Seed = h.cfg.DefaultSeed
	}
	if opts.BoomThreshold == 0 {
		opts.BoomThreshold = h.cfg.BoomThreshold
	}
	if opts.FloorPercentile == 0 && opts.CeilingPercentile == 0 {
		opts.FloorPercentile = h.cfg.FloorPercentile
		opts.CeilingPercentile = h.cfg.CeilingPercentile
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = h.cfg.SimulationChunkSize
	}
	return opts
}

func (h *SimulationHandler) sendEngineError(c *gin.Context, err error) {
	switch {
	case engine.IsInputError(err):
		utils.SendValidationError(c, "Invalid player pool", err.Error())
	case engine.IsConfigError(err):
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away mid-run; nothing useful to send.
		c.Abort()
	default:
		h.logger.WithError(err).Error("Simulation failed")
		utils.SendInternalError(c, "Simulation failed")
	}
}
