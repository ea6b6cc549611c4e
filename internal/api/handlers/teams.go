package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/utils"
)

type TeamHandler struct {
	store *services.Store
}

func NewTeamHandler(store *services.Store) *TeamHandler {
	return &TeamHandler{store: store}
}

// GetTeam returns one solved team sheet by id.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	sheet, err := h.store.TeamSheet(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrTeamSheetNotFound) {
		utils.SendNotFound(c, "Team sheet not found")
		return
	}
	if err != nil {
		utils.SendInternalError(c, err.Error())
		return
	}
	utils.SendSuccess(c, sheet)
}

// ListTeams returns recent solve history.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sheets, err := h.store.RecentTeamSheets(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalError(c, err.Error())
		return
	}
	utils.SendSuccess(c, sheets)
}
