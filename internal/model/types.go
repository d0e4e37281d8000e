package model

import "time"

// ScanRecord represents one evaluated input event. It is the canonical type
// for the journal, the history store, and the HTTP API.
type ScanRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Raw       string    `json:"raw"`      // the input exactly as received
	Outcome   string    `json:"outcome"`  // valid / empty / invalid / out_of_range
	Sequence  int       `json:"sequence"` // parsed sequence, 0 when not valid
	Rack      int       `json:"rack"`     // 1 or 2, 0 when not valid
	Cell      int       `json:"cell"`     // rack-local 0-based index, -1 when not valid
	Source    string    `json:"source"`   // "tcp", "stdin", "tui", "http"
}

// ScanEnvelope carries one raw line from an input source before evaluation.
type ScanEnvelope struct {
	Source string
	Line   string
}

// MinuteVolume represents scan counts for one minute, split by outcome.
type MinuteVolume struct {
	Minute time.Time `json:"minute"`
	Rack1  int64     `json:"rack1"`
	Rack2  int64     `json:"rack2"`
	Errors int64     `json:"errors"` // invalid + out-of-range
	Total  int64     `json:"total"`
}

// CellCount represents how often one cell of a rack was addressed.
type CellCount struct {
	Rack  int   `json:"rack"`
	Cell  int   `json:"cell"`
	Count int64 `json:"count"`
}

// SourceCount represents grouped scan counts by input source.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}
