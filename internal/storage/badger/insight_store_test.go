package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/interfaces"
	"github.com/bobmcallan/aide-portal/internal/models"
)

var _ interfaces.InsightCache = (*InsightStore)(nil)

func setupTestStore(t *testing.T, ttl time.Duration) (*InsightStore, *time.Time) {
	t.Helper()

	logger := common.NewSilentLogger()
	cfg := &config.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	store := NewInsightStore(db, ttl, logger)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	t.Cleanup(func() { store.Close() })
	return store, &now
}

func sampleRecord() *models.InsightRecord {
	return &models.InsightRecord{
		Company:   "ノジマ",
		Ticker:    "7419.T",
		Strengths: []string{"通信キャリア販売と家電の相乗効果"},
		Score:     63,
	}
}

func TestInsightStore_SetAndGet(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Set(ctx, "7419.T", sampleRecord()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "7419.t")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v", ok, err)
	}
	if got.Company != "ノジマ" || got.Score != 63 {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.Strengths) != 1 {
		t.Errorf("Strengths = %v", got.Strengths)
	}
}

func TestInsightStore_GetNotFound(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)

	_, ok, err := store.Get(context.Background(), "nonexistent-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}

func TestInsightStore_ExpiredReadsAsAbsent(t *testing.T) {
	store, now := setupTestStore(t, time.Hour)
	ctx := context.Background()

	store.Set(ctx, "k", sampleRecord())
	*now = now.Add(time.Hour + time.Millisecond)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to read as absent")
	}

	*now = now.Add(-2 * time.Hour)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expired entry should have been deleted on read")
	}
}

func TestInsightStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	store.Set(ctx, "del-key", sampleRecord())
	if err := store.Delete(ctx, "del-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "del-key"); ok {
		t.Error("expected miss after delete")
	}

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of nonexistent key should succeed, got: %v", err)
	}
}

func TestInsightStore_Sweep(t *testing.T) {
	store, now := setupTestStore(t, time.Hour)
	ctx := context.Background()

	store.Set(ctx, "old", sampleRecord())
	*now = now.Add(40 * time.Minute)
	store.Set(ctx, "fresh", sampleRecord())
	*now = now.Add(30 * time.Minute)

	removed, err := store.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok, _ := store.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry should survive sweep")
	}
}
