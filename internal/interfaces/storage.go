package interfaces

import (
	"context"

	"github.com/bobmcallan/aide-portal/internal/models"
)

// InsightCache stores resolved insight records by lowercased identifier.
// Implementations can be swapped (in-process map now, BadgerDB for restarts).
type InsightCache interface {
	// Get returns a record written less than TTL ago. Stale entries read as absent.
	Get(ctx context.Context, key string) (*models.InsightRecord, bool, error)
	// Set overwrites the entry for key, stamping it with the current time.
	Set(ctx context.Context, key string, record *models.InsightRecord) error
	// Delete removes the entry for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Sweep removes every expired entry and reports how many were removed.
	Sweep(ctx context.Context) (int, error)
	Close() error
}
