package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/providers"
)

// StatsProvider is the upstream surface the builder consumes.
type StatsProvider interface {
	SearchPlayers(ctx context.Context, gameweek int) ([]providers.PlayerRecord, error)
	PlayerStats(ctx context.Context, gameweek int, playerID string) ([]providers.MatchStats, error)
}

// scoringWeights turns raw match stats into fantasy points for the default
// projection. Callers with a real projection model pass theirs in instead.
var scoringWeights = map[string]float64{
	"try":              10,
	"assist":           4,
	"conversion":       2,
	"penalty":          3,
	"drop_goal":        5,
	"man_of_the_match": 15,
	"fifty_twenty_two": 7,
	"tackle":           1,
	"defenders_beaten": 2,
	"metres_carried":   0.1,
	"offload":          2,
	"lineout_steal":    5,
	"breakdown_steal":  5,
	"scrum_win":        2,
	"yellow_card":      -5,
	"red_card":         -10,
	"conceded_penalty": -1,
}

// BuildConfig shapes a dataset snapshot.
type BuildConfig struct {
	Gameweek       int
	Budget         float64
	CountryWeights map[string]float64
	// Costs maps player id to price. Prices live in the game client, not
	// the stats API, so they arrive separately; players without a price
	// are priced at zero and noted.
	Costs map[string]float64
	// Projections overrides the stat-derived projection per player id.
	Projections map[string]float64
	// MissingHistory is the availability assumed for a player with no
	// appearance history yet (e.g. the first round of the tournament).
	MissingHistory models.Availability
}

// DatasetBuilder assembles a canonical dataset from the upstream provider.
type DatasetBuilder struct {
	provider StatsProvider
	logger   *logrus.Logger
}

func NewDatasetBuilder(provider StatsProvider, logger *logrus.Logger) *DatasetBuilder {
	return &DatasetBuilder{
		provider: provider,
		logger:   logger,
	}
}

// Build fetches the player pool and per-player stats for a gameweek and
// reshapes them into a validated dataset.
func (b *DatasetBuilder) Build(ctx context.Context, cfg BuildConfig) (*models.Dataset, error) {
	if cfg.MissingHistory == "" {
		cfg.MissingHistory = models.AvailabilityDidNotPlay
	}
	if _, err := models.ParseAvailability(string(cfg.MissingHistory)); err != nil {
		return nil, fmt.Errorf("invalid missing-history default: %w", err)
	}

	records, err := b.provider.SearchPlayers(ctx, cfg.Gameweek)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player pool: %w", err)
	}

	start := time.Now()
	ds := &models.Dataset{
		Gameweek:       cfg.Gameweek,
		Budget:         cfg.Budget,
		CountryWeights: cfg.CountryWeights,
		Players:        make(map[string]models.Candidate, len(records)),
	}

	for _, record := range records {
		availability := cfg.MissingHistory
		if len(record.Appearances) > 0 {
			availability = record.Appearances[len(record.Appearances)-1]
		}

		points, ok := cfg.Projections[record.ID]
		if !ok {
			stats, err := b.provider.PlayerStats(ctx, cfg.Gameweek, record.ID)
			if err != nil {
				return nil, err
			}
			points = projectFromStats(stats)
		}

		candidate := models.Candidate{
			ID:           record.ID,
			Name:         record.Name,
			Country:      record.Country,
			Position:     record.Position,
			Points:       points,
			Availability: availability,
		}
		if cost, ok := cfg.Costs[record.ID]; ok {
			candidate.Cost = cost
		} else {
			candidate.Note = "no price available"
		}
		ds.Players[record.ID] = candidate
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"gameweek": cfg.Gameweek,
		"players":  len(ds.Players),
		"elapsed":  time.Since(start).String(),
	}).Info("Dataset built")
	return ds, nil
}

// projectFromStats averages scored fantasy points across played matches.
func projectFromStats(matches []providers.MatchStats) float64 {
	total := 0.0
	played := 0
	for _, match := range matches {
		if !match.Played {
			continue
		}
		played++
		for stat, count := range match.Stats {
			total += scoringWeights[stat] * float64(count)
		}
	}
	if played == 0 {
		return 0
	}
	return total / float64(played)
}
