package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// InsightStore implements interfaces.InsightCache on BadgerDB so cached
// insights survive restarts.
type InsightStore struct {
	db     *BadgerDB
	ttl    time.Duration
	logger *common.Logger
	now    func() time.Time
}

// NewInsightStore creates a persistent insight cache.
func NewInsightStore(db *BadgerDB, ttl time.Duration, logger *common.Logger) *InsightStore {
	return &InsightStore{db: db, ttl: ttl, logger: logger, now: time.Now}
}

// Get retrieves a fresh record by key. Stale entries are deleted on read.
func (s *InsightStore) Get(ctx context.Context, key string) (*models.InsightRecord, bool, error) {
	key = normalizeKey(key)

	var entry models.CacheEntry
	if err := s.db.Store().Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get insight %s: %w", key, err)
	}

	if !s.fresh(entry.Timestamp) {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn().Str("key", key).Err(err).Msg("failed to delete expired insight")
		}
		return nil, false, nil
	}
	return entry.Data, entry.Data != nil, nil
}

// Set upserts a record stamped with the current time.
func (s *InsightStore) Set(_ context.Context, key string, record *models.InsightRecord) error {
	key = normalizeKey(key)
	entry := models.CacheEntry{
		Key:       key,
		Timestamp: s.now().UTC(),
		Data:      record.Clone(),
	}
	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set insight %s: %w", key, err)
	}
	return nil
}

// Delete removes a record.
func (s *InsightStore) Delete(_ context.Context, key string) error {
	key = normalizeKey(key)
	err := s.db.Store().Delete(key, models.CacheEntry{})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete insight %s: %w", key, err)
	}
	return nil
}

// Sweep deletes every expired record.
func (s *InsightStore) Sweep(ctx context.Context) (int, error) {
	var entries []models.CacheEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return 0, fmt.Errorf("failed to list insights: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if s.fresh(entry.Timestamp) {
			continue
		}
		if err := s.Delete(ctx, entry.Key); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		if err := s.db.CollectGarbage(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reclaim insight storage")
		}
	}
	return removed, nil
}

// Close closes the underlying database.
func (s *InsightStore) Close() error {
	return s.db.Close()
}

func (s *InsightStore) fresh(written time.Time) bool {
	return s.now().Sub(written) < s.ttl
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
