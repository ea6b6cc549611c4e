package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/roster"
)

func TestPinSelectUnknownCandidate(t *testing.T) {
	m := newTestModel(t, tightDataset())
	err := m.PinSelect("nobody", true)
	assert.ErrorIs(t, err, roster.ErrUnknownCandidate)
}

func TestPinSelectAmbiguousName(t *testing.T) {
	ds := tightDataset()
	twin := ds.Players["cheap01"]
	twin.ID = "twin01"
	twin.Name = ds.Players["cheap02"].Name
	other := ds.Players["cheap02"]
	other.Name = twin.Name
	ds.Players["twin01"] = twin
	ds.Players["cheap02"] = other

	m := newTestModel(t, ds)
	err := m.PinSelect(twin.Name, true)
	assert.ErrorIs(t, err, roster.ErrAmbiguousName)
}

func TestPinOutCheapestInTightBudget(t *testing.T) {
	// With costs summing exactly to the budget, dropping any cheap player
	// leaves no affordable replacement: the result must be an explicit
	// infeasible verdict, never a quietly reused side.
	m := newTestModel(t, tightDataset())
	require.NoError(t, m.PinSelect("cheap05", false))

	_, err := m.Solve(context.Background())
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestPinOutWithSlackFindsDifferentTeam(t *testing.T) {
	ds := tightDataset()
	ds.Budget = 260
	m := newTestModel(t, ds)
	require.NoError(t, m.PinSelect("cheap05", false))

	team := solve(t, m)
	for _, slot := range team.Slots {
		assert.NotEqual(t, "cheap05", slot.CandidateID)
	}
}

func TestPinCaptain(t *testing.T) {
	m := newTestModel(t, tightDataset())
	require.NoError(t, m.PinCaptain("cheap03"))

	team := solve(t, m)
	assert.Equal(t, "cheap03", team.CaptainID)
}

func TestPinCaptainDidNotPlayRejected(t *testing.T) {
	ds := tightDataset()
	ds.Players["ghost01"] = models.Candidate{
		ID:           "ghost01",
		Name:         "Ghost",
		Country:      "ITA",
		Position:     models.PositionFlyHalf,
		Points:       50,
		Cost:         5,
		Availability: models.AvailabilityDidNotPlay,
	}

	m := newTestModel(t, ds)
	err := m.PinCaptain("ghost01")
	assert.ErrorIs(t, err, ErrIneligibleOverride)
}

func TestPinSupersub(t *testing.T) {
	ds := tightDataset()
	ds.Budget = 220
	ds.Supersub = &models.Candidate{
		ID:           "bench01",
		Name:         "Bench Bomber",
		Country:      "IRE",
		Position:     models.PositionBackRow,
		Points:       -2, // objective alone would leave the bench empty
		Cost:         8,
		Availability: models.AvailabilityOnAsSub,
	}

	m := newTestModel(t, ds)
	require.NoError(t, m.PinSupersub("bench01"))

	team := solve(t, m)
	assert.Equal(t, "bench01", team.SupersubID)
}

func TestPinSupersubOnStarterWarns(t *testing.T) {
	m := newTestModel(t, tightDataset())
	err := m.PinSupersub("cheap04")
	require.NoError(t, err, "availability conflict is a warning, not an error")
	assert.NotEmpty(t, m.Warnings())

	team := solve(t, m)
	assert.NotEqual(t, "cheap04", team.SupersubID)
}

func TestPinSelectFalseClearsCaptaincy(t *testing.T) {
	ds := tightDataset()
	ds.Budget = 260
	m := newTestModel(t, ds)
	// cheap14 is the top scorer and would otherwise be captain.
	require.NoError(t, m.PinSelect("cheap14", false))

	team := solve(t, m)
	assert.NotEqual(t, "cheap14", team.CaptainID)
	for _, slot := range team.Slots {
		assert.NotEqual(t, "cheap14", slot.CandidateID)
	}
}
