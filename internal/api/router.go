package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/api/handlers"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, store *services.Store, fetcher *services.FetcherService, cfg *config.Config, logger *logrus.Logger) {
	optimizeHandler := handlers.NewOptimizeHandler(store, fetcher, cfg, logger)
	playerHandler := handlers.NewPlayerHandler(store, fetcher, cfg, logger)
	teamHandler := handlers.NewTeamHandler(store)

	group.POST("/optimize", optimizeHandler.Optimize)
	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/teams", teamHandler.ListTeams)
	group.GET("/teams/:id", teamHandler.GetTeam)
}
