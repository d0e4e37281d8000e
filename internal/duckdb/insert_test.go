package duckdb

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/warefleet/scanloc/internal/journal"
)

func TestInsertBuffer_AddAndStop(t *testing.T) {
	store := newTestStore(t)
	buf := NewInsertBuffer(store)

	for i := 0; i < 10; i++ {
		buf.Add(&ScanRecord{
			Timestamp: time.Now(),
			Raw:       "12",
			Outcome:   "valid",
			Sequence:  12,
			Rack:      1,
			Cell:      11,
			Source:    "stdin",
		})
	}

	// Stop should flush all pending records
	buf.Stop()

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 10 {
		t.Errorf("after Stop, TotalScanCount = %d, want 10", count)
	}
}

func TestInsertBuffer_BatchThreshold(t *testing.T) {
	store := newTestStore(t)
	buf := NewInsertBuffer(store, InsertBufferConfig{BatchSize: 100})

	// Add more than BatchSize records to trigger immediate flush
	for i := 0; i < 250; i++ {
		buf.Add(&ScanRecord{
			Timestamp: time.Now(),
			Raw:       "42",
			Outcome:   "valid",
			Sequence:  42,
			Rack:      1,
			Cell:      41,
			Source:    "stdin",
		})
	}

	buf.Stop()

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 250 {
		t.Errorf("after batch insert, TotalScanCount = %d, want 250", count)
	}
}

func TestInsertBuffer_ConcurrentAdd(t *testing.T) {
	store := newTestStore(t)
	buf := NewInsertBuffer(store)

	var wg sync.WaitGroup
	numGoroutines := 10
	recordsPerGoroutine := 50

	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < recordsPerGoroutine; i++ {
				buf.Add(&ScanRecord{
					Timestamp: time.Now(),
					Raw:       "80",
					Outcome:   "valid",
					Sequence:  80,
					Rack:      1,
					Cell:      79,
					Source:    "stdin",
				})
			}
		}()
	}

	wg.Wait()
	buf.Stop()

	expected := int64(numGoroutines * recordsPerGoroutine)
	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != expected {
		t.Errorf("concurrent insert TotalScanCount = %d, want %d", count, expected)
	}
}

func TestInsertBuffer_StopIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	buf := NewInsertBuffer(store)

	buf.Add(&ScanRecord{
		Timestamp: time.Now(),
		Raw:       "1",
		Outcome:   "valid",
		Sequence:  1,
		Rack:      1,
		Cell:      0,
		Source:    "stdin",
	})

	buf.Stop()
	buf.Stop()

	count, err := store.TotalScanCount(QueryOpts{})
	if err != nil {
		t.Fatalf("TotalScanCount: %v", err)
	}
	if count != 1 {
		t.Errorf("after double Stop, TotalScanCount = %d, want 1", count)
	}
}

func TestInsertBuffer_CommitsJournal(t *testing.T) {
	store := newTestStore(t)

	jpath := filepath.Join(t.TempDir(), "scans.journal")
	j, err := journal.Open(jpath)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}

	buf := NewInsertBuffer(store, InsertBufferConfig{Journal: j})
	buf.Add(&ScanRecord{
		Timestamp: time.Now(),
		Raw:       "9",
		Outcome:   "valid",
		Sequence:  9,
		Rack:      1,
		Cell:      8,
		Source:    "tcp",
	})
	buf.Stop()

	// After a clean Stop the journal holds no uncommitted entries.
	j2, err := journal.Open(jpath)
	if err != nil {
		t.Fatalf("journal.Open reopen: %v", err)
	}
	defer j2.Close()

	uncommitted := 0
	if err := j2.Replay(func(uint64, *ScanRecord) error {
		uncommitted++
		return nil
	}); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if uncommitted != 0 {
		t.Errorf("uncommitted journal entries = %d, want 0", uncommitted)
	}
}
