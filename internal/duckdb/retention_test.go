package duckdb

import (
	"testing"
	"time"
)

func TestRetentionCleaner_StopIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	cleaner := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 1})
	if cleaner == nil {
		t.Fatal("expected non-nil retention cleaner")
	}

	cleaner.Stop()
	cleaner.Stop()
}

func TestRetentionCleaner_DisabledWhenZeroDays(t *testing.T) {
	store := newTestStore(t)
	if cleaner := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 0}); cleaner != nil {
		t.Fatal("expected nil cleaner when retention is disabled")
	}
}

func TestRetentionCleaner_DeletesExpiredOnStartup(t *testing.T) {
	store := newTestStore(t)

	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: time.Now().Add(-72 * time.Hour), Raw: "1", Outcome: "valid", Sequence: 1, Rack: 1, Cell: 0, Source: "tcp"},
		{Timestamp: time.Now(), Raw: "2", Outcome: "valid", Sequence: 2, Rack: 1, Cell: 1, Source: "tcp"},
	})

	cleaner := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 1})
	if cleaner == nil {
		t.Fatal("expected non-nil retention cleaner")
	}
	defer cleaner.Stop()

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 1 {
		t.Errorf("TotalScanCount after startup cleanup = %d, want 1", count)
	}
}
