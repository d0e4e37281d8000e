package duckdb

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func insertTestRecords(t *testing.T, store *Store, records []*ScanRecord) {
	t.Helper()
	if err := store.InsertScanBatch(records); err != nil {
		t.Fatalf("InsertScanBatch failed: %v", err)
	}
}

func TestInsertScanBatch(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	records := []*ScanRecord{
		{Timestamp: now, Raw: "1", Outcome: "valid", Sequence: 1, Rack: 1, Cell: 0, Source: "tcp"},
		{Timestamp: now, Raw: "160", Outcome: "valid", Sequence: 160, Rack: 2, Cell: 79, Source: "stdin"},
		{Timestamp: now, Raw: "abc", Outcome: "invalid", Cell: -1, Source: "tui"},
		{Timestamp: now, Raw: "999", Outcome: "out_of_range", Cell: -1, Source: "tcp"},
	}
	insertTestRecords(t, store, records)

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 4 {
		t.Errorf("TotalScanCount = %d, want 4", count)
	}

	outcomes, err := store.OutcomeCounts(QueryOpts{})
	if err != nil {
		t.Fatalf("OutcomeCounts: %v", err)
	}
	if outcomes["valid"] != 2 {
		t.Errorf("valid count = %d, want 2", outcomes["valid"])
	}
	if outcomes["invalid"] != 1 {
		t.Errorf("invalid count = %d, want 1", outcomes["invalid"])
	}
	if outcomes["out_of_range"] != 1 {
		t.Errorf("out_of_range count = %d, want 1", outcomes["out_of_range"])
	}
}

func TestTotalScanCount_SourceFilter(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: now, Raw: "5", Outcome: "valid", Sequence: 5, Rack: 1, Cell: 4, Source: "tcp"},
		{Timestamp: now, Raw: "6", Outcome: "valid", Sequence: 6, Rack: 1, Cell: 5, Source: "tcp"},
		{Timestamp: now, Raw: "7", Outcome: "valid", Sequence: 7, Rack: 1, Cell: 6, Source: "stdin"},
	})

	count, err := store.TotalScanCount(QueryOpts{Source: "tcp"})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 2 {
		t.Errorf("TotalScanCount(tcp) = %d, want 2", count)
	}
}

func TestRecentScans_ChronologicalOrder(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Minute)
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: base, Raw: "1", Outcome: "valid", Sequence: 1, Rack: 1, Cell: 0, Source: "tcp"},
		{Timestamp: base.Add(time.Second), Raw: "2", Outcome: "valid", Sequence: 2, Rack: 1, Cell: 1, Source: "tcp"},
		{Timestamp: base.Add(2 * time.Second), Raw: "3", Outcome: "valid", Sequence: 3, Rack: 1, Cell: 2, Source: "tcp"},
	})

	scans, err := store.RecentScans(2, QueryOpts{})
	if err != nil {
		t.Fatalf("RecentScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("RecentScans returned %d rows, want 2", len(scans))
	}
	// Newest two, in chronological order.
	if scans[0].Raw != "2" || scans[1].Raw != "3" {
		t.Errorf("RecentScans raws = [%s %s], want [2 3]", scans[0].Raw, scans[1].Raw)
	}
}

func TestMinuteVolume_SplitsByRackAndErrors(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: now, Raw: "10", Outcome: "valid", Sequence: 10, Rack: 1, Cell: 9, Source: "tcp"},
		{Timestamp: now, Raw: "90", Outcome: "valid", Sequence: 90, Rack: 2, Cell: 9, Source: "tcp"},
		{Timestamp: now, Raw: "junk", Outcome: "invalid", Cell: -1, Source: "tcp"},
		{Timestamp: now, Raw: "0", Outcome: "out_of_range", Cell: -1, Source: "tcp"},
		{Timestamp: now, Raw: "", Outcome: "empty", Cell: -1, Source: "tui"},
	})

	vols, err := store.MinuteVolume(time.Hour, QueryOpts{})
	if err != nil {
		t.Fatalf("MinuteVolume: %v", err)
	}
	if len(vols) == 0 {
		t.Fatal("MinuteVolume returned no rows")
	}

	var rack1, rack2, errs, total int64
	for _, v := range vols {
		rack1 += v.Rack1
		rack2 += v.Rack2
		errs += v.Errors
		total += v.Total
	}
	if rack1 != 1 || rack2 != 1 {
		t.Errorf("rack counts = (%d, %d), want (1, 1)", rack1, rack2)
	}
	if errs != 2 {
		t.Errorf("error count = %d, want 2", errs)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestCellCounts_ValidOnly(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: now, Raw: "3", Outcome: "valid", Sequence: 3, Rack: 1, Cell: 2, Source: "tcp"},
		{Timestamp: now, Raw: "3", Outcome: "valid", Sequence: 3, Rack: 1, Cell: 2, Source: "tcp"},
		{Timestamp: now, Raw: "4", Outcome: "valid", Sequence: 4, Rack: 1, Cell: 3, Source: "tcp"},
		{Timestamp: now, Raw: "90", Outcome: "valid", Sequence: 90, Rack: 2, Cell: 9, Source: "tcp"},
		{Timestamp: now, Raw: "junk", Outcome: "invalid", Cell: -1, Source: "tcp"},
	})

	counts, err := store.CellCounts(1, QueryOpts{})
	if err != nil {
		t.Fatalf("CellCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("CellCounts returned %d rows, want 2", len(counts))
	}
	if counts[0].Cell != 2 || counts[0].Count != 2 {
		t.Errorf("top cell = (%d, %d), want (2, 2)", counts[0].Cell, counts[0].Count)
	}
}

func TestSourceCounts(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: now, Raw: "1", Outcome: "valid", Sequence: 1, Rack: 1, Cell: 0, Source: "tcp"},
		{Timestamp: now, Raw: "2", Outcome: "valid", Sequence: 2, Rack: 1, Cell: 1, Source: "tcp"},
		{Timestamp: now, Raw: "3", Outcome: "valid", Sequence: 3, Rack: 1, Cell: 2, Source: "stdin"},
	})

	counts, err := store.SourceCounts()
	if err != nil {
		t.Fatalf("SourceCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("SourceCounts returned %d rows, want 2", len(counts))
	}
	if counts[0].Source != "tcp" || counts[0].Count != 2 {
		t.Errorf("top source = (%s, %d), want (tcp, 2)", counts[0].Source, counts[0].Count)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := newTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()
	insertTestRecords(t, store, []*ScanRecord{
		{Timestamp: old, Raw: "1", Outcome: "valid", Sequence: 1, Rack: 1, Cell: 0, Source: "tcp"},
		{Timestamp: recent, Raw: "2", Outcome: "valid", Sequence: 2, Rack: 1, Cell: 1, Source: "tcp"},
	})

	deleted, err := store.DeleteBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteBefore deleted %d rows, want 1", deleted)
	}

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 1 {
		t.Errorf("TotalScanCount after delete = %d, want 1", count)
	}
}

func TestTotalScanCount_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 0 {
		t.Errorf("empty store TotalScanCount = %d, want 0", count)
	}
}
