package app

import (
	"context"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/interfaces"
	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds one sweep of the insight cache.
const sweepTimeout = time.Minute

// CacheSweeper periodically removes expired insight records.
type CacheSweeper struct {
	cache  interfaces.InsightCache
	cron   *cron.Cron
	logger *common.Logger
}

// NewCacheSweeper creates a sweeper for cache.
func NewCacheSweeper(cache interfaces.InsightCache, logger *common.Logger) *CacheSweeper {
	return &CacheSweeper{
		cache:  cache,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules sweeps. An empty schedule disables sweeping.
func (s *CacheSweeper) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info().Msg("Cache sweeper disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Cache sweeper started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *CacheSweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Cache sweeper stopped")
}

// RunOnce sweeps the cache immediately.
func (s *CacheSweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	removed, err := s.cache.Sweep(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Cache sweep failed")
		return
	}

	s.logger.Debug().
		Int("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Cache sweep complete")
}
