package duckdb

import (
	"context"
	"fmt"
	"log"
	"time"
)

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// sourceFilter returns a WHERE clause and args when opts.Source is non-empty.
func sourceFilter(opts QueryOpts) (clause string, args []interface{}) {
	if opts.Source != "" {
		return "WHERE source = ?", []interface{}{opts.Source}
	}
	return "", nil
}

// sourceAnd returns an "AND source = ?" fragment and args when opts.Source is
// non-empty. Use this when there is already a WHERE clause.
func sourceAnd(opts QueryOpts) (clause string, args []interface{}) {
	if opts.Source != "" {
		return " AND source = ?", []interface{}{opts.Source}
	}
	return "", nil
}

// TotalScanCount returns the total number of recorded scans.
func (s *Store) TotalScanCount(opts QueryOpts) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	where, wArgs := sourceFilter(opts)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM scans %s`, where)

	var count int64
	err := s.db.QueryRowContext(ctx, query, wArgs...).Scan(&count)
	return count, err
}

// OutcomeCounts returns the total count per outcome.
func (s *Store) OutcomeCounts(opts QueryOpts) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	where, wArgs := sourceFilter(opts)
	query := fmt.Sprintf(`SELECT outcome, COUNT(*) FROM scans %s GROUP BY outcome`, where)

	rows, err := s.db.QueryContext(ctx, query, wArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			log.Printf("duckdb scan error (OutcomeCounts): %v", err)
			continue
		}
		result[outcome] = count
	}
	return result, rows.Err()
}

// RecentScans returns the most recent scan records in chronological order.
func (s *Store) RecentScans(limit int, opts QueryOpts) ([]ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	where, wArgs := sourceFilter(opts)
	innerQuery := fmt.Sprintf(`
		SELECT timestamp, raw, outcome, sequence, rack, cell, source
		FROM scans %s
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, where)
	args := append(wArgs, limit)

	// Wrap so final results come back in chronological (ASC) order.
	query := "SELECT * FROM (" + innerQuery + ") ORDER BY timestamp ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.Timestamp, &r.Raw, &r.Outcome, &r.Sequence, &r.Rack, &r.Cell, &r.Source); err != nil {
			log.Printf("duckdb scan error (RecentScans): %v", err)
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// MinuteVolume returns per-minute scan counts for a time window, split by
// rack for valid scans plus an error bucket for rejected inputs.
func (s *Store) MinuteVolume(window time.Duration, opts QueryOpts) ([]MinuteVolume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	cutoff := time.Now().Add(-window)

	andSrc, aArgs := sourceAnd(opts)
	query := fmt.Sprintf(`
		SELECT date_trunc('minute', timestamp) as minute,
			SUM(CASE WHEN outcome='valid' AND rack=1 THEN 1 ELSE 0 END) as rack1,
			SUM(CASE WHEN outcome='valid' AND rack=2 THEN 1 ELSE 0 END) as rack2,
			SUM(CASE WHEN outcome IN ('invalid', 'out_of_range') THEN 1 ELSE 0 END) as errors,
			COUNT(*) as total
		FROM scans
		WHERE timestamp >= ?%s
		GROUP BY minute ORDER BY minute`, andSrc)

	args := append([]interface{}{cutoff}, aArgs...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MinuteVolume
	for rows.Next() {
		var mv MinuteVolume
		if err := rows.Scan(&mv.Minute, &mv.Rack1, &mv.Rack2, &mv.Errors, &mv.Total); err != nil {
			log.Printf("duckdb scan error (MinuteVolume): %v", err)
			continue
		}
		results = append(results, mv)
	}
	return results, rows.Err()
}

// CellCounts returns how often each cell of the given rack was addressed by
// a valid scan, ordered by descending count.
func (s *Store) CellCounts(rack int, opts QueryOpts) ([]CellCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	andSrc, aArgs := sourceAnd(opts)
	query := fmt.Sprintf(`
		SELECT rack, cell, COUNT(*) AS count
		FROM scans
		WHERE outcome = 'valid' AND rack = ?%s
		GROUP BY rack, cell
		ORDER BY count DESC, cell ASC`, andSrc)

	args := append([]interface{}{rack}, aArgs...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CellCount
	for rows.Next() {
		var cc CellCount
		if err := rows.Scan(&cc.Rack, &cc.Cell, &cc.Count); err != nil {
			log.Printf("duckdb scan error (CellCounts): %v", err)
			continue
		}
		results = append(results, cc)
	}
	return results, rows.Err()
}

// SourceCounts returns scan counts grouped by input source.
func (s *Store) SourceCounts() ([]SourceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(source, ''), 'unknown') AS source, COUNT(*) AS count
		FROM scans
		GROUP BY source
		ORDER BY count DESC, source ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			log.Printf("duckdb scan error (SourceCounts): %v", err)
			continue
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// DeleteBefore removes scans older than cutoff and returns the number of
// deleted rows.
func (s *Store) DeleteBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}
