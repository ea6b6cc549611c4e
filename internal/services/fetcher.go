package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// FetcherService refreshes the dataset snapshot on a schedule while the
// server runs, so solves always see a recent candidate pool.
type FetcherService struct {
	builder  *DatasetBuilder
	store    *Store
	cache    *CacheService
	logger   *logrus.Logger
	cron     *cron.Cron
	cfg      BuildConfig
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	current   string // path of the latest snapshot
}

func NewFetcherService(
	builder *DatasetBuilder,
	store *Store,
	cache *CacheService,
	logger *logrus.Logger,
	cfg BuildConfig,
	interval time.Duration,
) *FetcherService {
	return &FetcherService{
		builder:  builder,
		store:    store,
		cache:    cache,
		logger:   logger,
		cron:     cron.New(),
		cfg:      cfg,
		interval: interval,
	}
}

// Start schedules periodic refreshes and kicks off an initial fetch.
func (s *FetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule fetcher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.refresh()

	s.logger.WithField("interval", s.interval.String()).Info("Fetcher service started")
	return nil
}

// Stop halts the schedule. In-flight refreshes finish on their own.
func (s *FetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Stop()
	s.isRunning = false
	s.logger.Info("Fetcher service stopped")
}

// CurrentSnapshot returns the path of the most recent snapshot, if any.
func (s *FetcherService) CurrentSnapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FetcherService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ds, err := s.builder.Build(ctx, s.cfg)
	if err != nil {
		s.logger.Errorf("Dataset refresh failed: %v", err)
		return
	}

	path, err := s.store.SaveSnapshot(ds)
	if err != nil {
		s.logger.Errorf("Failed to persist snapshot: %v", err)
		return
	}

	if err := s.cache.Set(ctx, DatasetCacheKey(ds.Gameweek), ds, s.interval); err != nil {
		s.logger.Warnf("Failed to cache dataset: %v", err)
	}

	s.mu.Lock()
	s.current = path
	s.mu.Unlock()
}
