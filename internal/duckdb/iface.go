package duckdb

import "github.com/warefleet/scanloc/internal/model"

// Type aliases re-export model interfaces so existing consumers that
// import duckdb for these continue to compile.
type QueryOpts = model.QueryOpts
type ScanQuerier = model.ScanQuerier
type ScanWriter = model.ScanWriter
