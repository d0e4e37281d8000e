package model

import "time"

// QueryOpts holds optional filters applied to most history queries.
type QueryOpts struct {
	Source string // empty = all sources
}

// ScanQuerier provides read-only queries on scan history.
type ScanQuerier interface {
	TotalScanCount(opts QueryOpts) (int64, error)
	OutcomeCounts(opts QueryOpts) (map[string]int64, error)
	RecentScans(limit int, opts QueryOpts) ([]ScanRecord, error)
	MinuteVolume(window time.Duration, opts QueryOpts) ([]MinuteVolume, error)
	CellCounts(rack int, opts QueryOpts) ([]CellCount, error)
	SourceCounts() ([]SourceCount, error)
}

// ScanWriter provides append-oriented write operations for evaluated scans.
type ScanWriter interface {
	InsertScanBatch(records []*ScanRecord) error
}
