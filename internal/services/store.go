package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/pkg/database"
)

// ErrTeamSheetNotFound is returned when a team sheet id is unknown.
var ErrTeamSheetNotFound = errors.New("team sheet not found")

// Store persists dataset snapshots as JSON files and solved team sheets in
// the sqlite history database.
type Store struct {
	db          *database.DB
	snapshotDir string
	logger      *logrus.Logger
}

func NewStore(db *database.DB, snapshotDir string, logger *logrus.Logger) *Store {
	return &Store{
		db:          db,
		snapshotDir: snapshotDir,
		logger:      logger,
	}
}

// SaveSnapshot writes a dataset snapshot to disk and returns its path.
func (s *Store) SaveSnapshot(ds *models.Dataset) (string, error) {
	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	path := filepath.Join(s.snapshotDir, fmt.Sprintf("dataset_gw%d.json", ds.Gameweek))
	data, err := json.MarshalIndent(ds, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.logger.WithField("path", path).Info("Dataset snapshot saved")
	return path, nil
}

// LoadSnapshot reads and validates a dataset snapshot.
func (s *Store) LoadSnapshot(path string) (*models.Dataset, error) {
	return models.LoadDataset(path)
}

// SaveTeamSheet records a solved team in the history database.
func (s *Store) SaveTeamSheet(ctx context.Context, sheet *models.TeamSheet) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(sheet).Error; err != nil {
		return fmt.Errorf("failed to save team sheet: %w", err)
	}
	return nil
}

// TeamSheet fetches a solved team by id.
func (s *Store) TeamSheet(ctx context.Context, id string) (*models.TeamSheet, error) {
	if s.db == nil {
		return nil, ErrTeamSheetNotFound
	}
	var sheet models.TeamSheet
	err := s.db.WithContext(ctx).First(&sheet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team sheet: %w", err)
	}
	return &sheet, nil
}

// RecentTeamSheets lists solve history, newest first.
func (s *Store) RecentTeamSheets(ctx context.Context, limit int) ([]models.TeamSheet, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var sheets []models.TeamSheet
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team sheets: %w", err)
	}
	return sheets, nil
}
