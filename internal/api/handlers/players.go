package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/roster"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
	"github.com/jstittsworth/rugby-optimizer/pkg/utils"
)

type PlayerHandler struct {
	store   *services.Store
	fetcher *services.FetcherService
	config  *config.Config
	logger  *logrus.Logger
}

func NewPlayerHandler(store *services.Store, fetcher *services.FetcherService, cfg *config.Config, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		store:   store,
		fetcher: fetcher,
		config:  cfg,
		logger:  logger,
	}
}

// PlayerView is a candidate with its solve-ready weighted projection.
type PlayerView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	Position     string  `json:"position"`
	Cost         float64 `json:"cost"`
	Points       float64 `json:"points"`
	Weighted     float64 `json:"weighted_points"`
	Availability string  `json:"availability"`
}

// ListPlayers returns the current candidate pool.
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	path := h.config.DatasetPath
	if h.fetcher != nil {
		if current := h.fetcher.CurrentSnapshot(); current != "" {
			path = current
		}
	}
	if path == "" {
		utils.SendNotFound(c, "No dataset available")
		return
	}

	ds, err := h.store.LoadSnapshot(path)
	if err != nil {
		utils.SendValidationError(c, "Invalid dataset", err.Error())
		return
	}
	reg, err := roster.New(ds, h.logger)
	if err != nil {
		utils.SendValidationError(c, "Invalid dataset", err.Error())
		return
	}

	views := make([]PlayerView, 0, len(ds.Players))
	for _, entry := range reg.Candidates() {
		views = append(views, PlayerView{
			ID:           entry.ID,
			Name:         entry.Name,
			Country:      entry.Country,
			Position:     string(entry.Position),
			Cost:         entry.Cost,
			Points:       entry.BasePoints(),
			Weighted:     entry.Weighted,
			Availability: string(entry.Availability),
		})
	}
	utils.SendSuccess(c, views)
}
