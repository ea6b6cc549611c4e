package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/optimizer"
	"github.com/jstittsworth/rugby-optimizer/internal/roster"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
	"github.com/jstittsworth/rugby-optimizer/pkg/utils"
)

type OptimizeHandler struct {
	store   *services.Store
	fetcher *services.FetcherService
	config  *config.Config
	logger  *logrus.Logger
}

func NewOptimizeHandler(store *services.Store, fetcher *services.FetcherService, cfg *config.Config, logger *logrus.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		store:   store,
		fetcher: fetcher,
		config:  cfg,
		logger:  logger,
	}
}

// SelectOverride pins a candidate into or out of the side.
type SelectOverride struct {
	Candidate string `json:"candidate" binding:"required"`
	Keep      bool   `json:"keep"`
}

// OptimizeRequest is the solve request body. The dataset may be supplied
// inline; otherwise the server's current snapshot is used.
type OptimizeRequest struct {
	Dataset  *models.Dataset  `json:"dataset,omitempty"`
	Selects  []SelectOverride `json:"selects,omitempty"`
	Captain  string           `json:"captain,omitempty"`
	Supersub string           `json:"supersub,omitempty"`
}

// OptimizeResponse carries the solved team plus any override warnings.
type OptimizeResponse struct {
	Team     *models.TeamSheet `json:"team"`
	Sheet    string            `json:"sheet"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Optimize builds and solves the roster program for a dataset.
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	ds := req.Dataset
	if ds == nil {
		loaded, err := h.currentDataset()
		if err != nil {
			utils.SendValidationError(c, "No dataset available", err.Error())
			return
		}
		ds = loaded
	}

	reg, err := roster.New(ds, h.logger)
	if err != nil {
		utils.SendValidationError(c, "Invalid dataset", err.Error())
		return
	}

	cfg := optimizer.Config{
		MaxPerCountry:             h.config.MaxPerCountry,
		CaptainMultiplier:         h.config.CaptainMultiplier,
		SupersubMultiplier:        h.config.SupersubMultiplier,
		SupersubStarterMultiplier: h.config.SupersubStarterMultiplier,
		SolveTimeout:              h.config.SolverTimeout,
	}
	model := optimizer.New(reg, cfg, h.logger)

	for _, sel := range req.Selects {
		if err := model.PinSelect(sel.Candidate, sel.Keep); err != nil {
			utils.SendModelingError(c, err.Error())
			return
		}
	}
	if req.Captain != "" {
		if err := model.PinCaptain(req.Captain); err != nil {
			utils.SendModelingError(c, err.Error())
			return
		}
	}
	if req.Supersub != "" {
		if err := model.PinSupersub(req.Supersub); err != nil {
			utils.SendModelingError(c, err.Error())
			return
		}
	}

	team, err := model.Solve(c.Request.Context())
	if errors.Is(err, optimizer.ErrInfeasible) {
		utils.SendInfeasible(c, err.Error())
		return
	}
	if err != nil {
		h.logger.Errorf("Solve failed: %v", err)
		utils.SendError(c, 500, utils.NewAppError(utils.ErrCodeSolver, err.Error()))
		return
	}

	if err := h.store.SaveTeamSheet(c.Request.Context(), team); err != nil {
		h.logger.Warnf("Failed to persist team sheet: %v", err)
	}

	utils.SendSuccess(c, OptimizeResponse{
		Team:     team,
		Sheet:    team.Render(),
		Warnings: model.Warnings(),
	})
}

// currentDataset resolves the server's dataset: the fetcher's most recent
// snapshot when refreshing is on, else the statically configured file.
func (h *OptimizeHandler) currentDataset() (*models.Dataset, error) {
	path := h.config.DatasetPath
	if h.fetcher != nil {
		if current := h.fetcher.CurrentSnapshot(); current != "" {
			path = current
		}
	}
	if path == "" {
		return nil, errors.New("no dataset configured; supply one inline or set DATASET_PATH")
	}
	return h.store.LoadSnapshot(path)
}
