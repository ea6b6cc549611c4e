package optimizer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/roster"
	"github.com/jstittsworth/rugby-optimizer/internal/solver"
)

// interpret maps solved binaries back onto jersey slots and cross-checks the
// realized cost and score against the solver's own numbers. Cost or score
// drift means the model and interpreter disagree, and that fails loudly.
func (m *Model) interpret(sol *solver.Solution, elapsed time.Duration) (*models.TeamSheet, error) {
	if sol.Status == solver.StatusInfeasible {
		return nil, ErrInfeasible
	}

	var selected []*roster.Entry
	var captains []*roster.Entry
	var supersubs []*roster.Entry
	for _, id := range m.order {
		cv := m.vars[id]
		if sol.Set(cv.selected) {
			selected = append(selected, cv.entry)
		}
		if sol.Set(cv.captain) {
			captains = append(captains, cv.entry)
		}
		if sol.Set(cv.supersub) {
			supersubs = append(supersubs, cv.entry)
		}
	}

	if len(selected) != models.SquadSize {
		return nil, fmt.Errorf("solver selected %d starters, want %d", len(selected), models.SquadSize)
	}
	if len(captains) != 1 {
		return nil, fmt.Errorf("solver marked %d captains, want exactly 1", len(captains))
	}
	if len(supersubs) > 1 {
		return nil, fmt.Errorf("solver marked %d supersubs, want at most 1", len(supersubs))
	}
	captain := captains[0]

	// Slots within a position category are interchangeable; pop the lowest
	// free jersey number per bucket.
	slots := models.SlotsByPosition()
	sheet := &models.TeamSheet{
		ID:          uuid.New().String(),
		Gameweek:    m.reg.Gameweek(),
		CaptainID:   captain.ID,
		CaptainName: captain.Name,
		Budget:      m.reg.Budget(),
		SolveTimeMs: elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}

	score := 0.0
	cost := 0.0
	for _, entry := range selected {
		free := slots[entry.Position]
		if len(free) == 0 {
			return nil, fmt.Errorf("no jersey left for %s at %s", entry.ID, entry.Position)
		}
		jersey := free[0]
		slots[entry.Position] = free[1:]

		sheet.Slots = append(sheet.Slots, models.TeamSlot{
			Jersey:      jersey,
			CandidateID: entry.ID,
			Name:        entry.Name,
			Captain:     entry.ID == captain.ID,
		})
		score += entry.Weighted
		cost += entry.Cost
	}
	score += (m.cfg.CaptainMultiplier - 1) * captain.Weighted

	if len(supersubs) == 1 {
		sub := supersubs[0]
		sheet.SupersubID = sub.ID
		sheet.SupersubName = sub.Name
		score += m.supersubMultiplier(sub) * sub.Weighted
		cost += sub.Cost
	}

	if math.Abs(score-sol.Objective) > scoreTolerance {
		return nil, fmt.Errorf("%w: recomputed %.6f, solver reported %.6f",
			ErrScoreMismatch, score, sol.Objective)
	}

	sort.Slice(sheet.Slots, func(i, j int) bool {
		return sheet.Slots[i].Jersey < sheet.Slots[j].Jersey
	})
	sheet.ExpectedScore = score
	sheet.Cost = cost
	return sheet, nil
}
