package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/gpp-sim/internal/api/handlers"
	"github.com/stitts-dev/gpp-sim/internal/websocket"
	"github.com/stitts-dev/gpp-sim/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, hub *websocket.Hub, logger *logrus.Logger) {
	store := handlers.NewResultStore(cfg.MaxStoredRuns)

	simulationHandler := handlers.NewSimulationHandler(cfg, hub, store, logger)
	glossaryHandler := handlers.NewGlossaryHandler()

	// Simulation endpoints
	group.POST("/simulate", simulationHandler.RunSimulation)
	group.GET("/simulations/:id", simulationHandler.GetSimulationResult)
	group.GET("/simulations/:id/export", simulationHandler.ExportSimulation)

	// Glossary endpoints
	group.GET("/glossary", glossaryHandler.GetGlossaryTerms)
	group.GET("/glossary/:term", glossaryHandler.GetGlossaryTerm)
}
