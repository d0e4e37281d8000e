package duckdb

import "github.com/warefleet/scanloc/internal/model"

// Type aliases re-export model types so duckdb.Store method signatures
// stay usable without importing model at every call site.
type ScanRecord = model.ScanRecord
type MinuteVolume = model.MinuteVolume
type CellCount = model.CellCount
type SourceCount = model.SourceCount
