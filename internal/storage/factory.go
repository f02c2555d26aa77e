package storage

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/cache"
	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/interfaces"
	"github.com/bobmcallan/aide-portal/internal/storage/badger"
)

// NewInsightCache creates the insight cache selected by cfg.Storage.Backend.
func NewInsightCache(logger *common.Logger, cfg *config.Config) (interfaces.InsightCache, error) {
	ttl := cfg.Cache.GetTTL()

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "", "memory":
		logger.Debug().Dur("ttl", ttl).Msg("using in-memory insight cache")
		return cache.New(ttl, cache.DefaultMaxEntries), nil
	case "badger":
		db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
		if err != nil {
			return nil, err
		}
		return badger.NewInsightStore(db, ttl, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
