package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/providers"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type fakeProvider struct {
	players []providers.PlayerRecord
	stats   map[string][]providers.MatchStats
}

func (f *fakeProvider) SearchPlayers(ctx context.Context, gameweek int) ([]providers.PlayerRecord, error) {
	return f.players, nil
}

func (f *fakeProvider) PlayerStats(ctx context.Context, gameweek int, playerID string) ([]providers.MatchStats, error) {
	stats, ok := f.stats[playerID]
	if !ok {
		return nil, fmt.Errorf("no stats for player %s", playerID)
	}
	return stats, nil
}

func TestBuildDataset(t *testing.T) {
	provider := &fakeProvider{
		players: []providers.PlayerRecord{
			{
				ID:       "101",
				Name:     "Tom Veteran",
				Country:  "IRL",
				Position: models.PositionFlyHalf,
				Appearances: []models.Availability{
					models.AvailabilityStarted,
					models.AvailabilityOnAsSub,
				},
			},
			{
				ID:       "102",
				Name:     "Rob Rookie",
				Country:  "FRA",
				Position: models.PositionProp,
			},
		},
		stats: map[string][]providers.MatchStats{
			"101": {
				{MatchNo: 1, Played: true, Stats: map[string]int{"try": 1, "tackle": 5}},
				{MatchNo: 2, Played: false, Stats: map[string]int{"try": 100}},
				{MatchNo: 3, Played: true, Stats: map[string]int{"metres_carried": 20}},
			},
		},
	}

	builder := NewDatasetBuilder(provider, testLogger())
	ds, err := builder.Build(context.Background(), BuildConfig{
		Gameweek: 3,
		Budget:   200,
		Costs:    map[string]float64{"101": 12.5},
		Projections: map[string]float64{
			"102": 7.25,
		},
	})
	require.NoError(t, err)
	require.Len(t, ds.Players, 2)

	veteran := ds.Players["101"]
	assert.Equal(t, models.AvailabilityOnAsSub, veteran.Availability)
	// (10 + 5 + 2) points over two played matches; the unplayed match is
	// ignored entirely.
	assert.InDelta(t, 8.5, veteran.Points, 1e-9)
	assert.Equal(t, 12.5, veteran.Cost)
	assert.Empty(t, veteran.Note)

	rookie := ds.Players["102"]
	assert.Equal(t, models.AvailabilityDidNotPlay, rookie.Availability)
	assert.Equal(t, 7.25, rookie.Points)
	assert.Equal(t, 0.0, rookie.Cost)
	assert.Equal(t, "no price available", rookie.Note)
}

func TestBuildDatasetMissingHistoryOverride(t *testing.T) {
	provider := &fakeProvider{
		players: []providers.PlayerRecord{
			{ID: "102", Name: "Rob Rookie", Country: "FRA", Position: models.PositionProp},
		},
	}

	builder := NewDatasetBuilder(provider, testLogger())
	ds, err := builder.Build(context.Background(), BuildConfig{
		Gameweek:       1,
		Budget:         200,
		Projections:    map[string]float64{"102": 5},
		MissingHistory: models.AvailabilityUndefined,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityUndefined, ds.Players["102"].Availability)
}

func TestBuildDatasetRejectsBadMissingHistory(t *testing.T) {
	builder := NewDatasetBuilder(&fakeProvider{}, testLogger())
	_, err := builder.Build(context.Background(), BuildConfig{
		Gameweek:       1,
		Budget:         200,
		MissingHistory: models.Availability("benched"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid missing-history default")
}

func TestProjectFromStatsNoPlayedMatches(t *testing.T) {
	matches := []providers.MatchStats{
		{Played: false, Stats: map[string]int{"try": 3}},
	}
	assert.Equal(t, 0.0, projectFromStats(matches))
}

func TestProjectFromStatsNegativeEvents(t *testing.T) {
	matches := []providers.MatchStats{
		{Played: true, Stats: map[string]int{"yellow_card": 1, "tackle": 3}},
	}
	assert.InDelta(t, -2.0, projectFromStats(matches), 1e-9)
}
