package ingest

import (
	"time"

	"github.com/warefleet/scanloc/internal/model"
	"github.com/warefleet/scanloc/internal/rack"
)

// Recorder receives evaluated scan records. *duckdb.InsertBuffer satisfies it.
type Recorder interface {
	Add(record *model.ScanRecord)
}

// Processor evaluates raw scan lines against the rack layout and routes the
// resulting records to storage. Each input source gets its own Processor so
// the per-source error state does not interleave.
type Processor struct {
	engine   *rack.Engine
	tracker  *rack.Tracker
	recorder Recorder
	now      func() time.Time
}

// NewProcessor creates a processor for one input source. display may be nil
// when no error surface is attached (headless ingest).
func NewProcessor(recorder Recorder, display rack.Display) *Processor {
	return &Processor{
		engine:   rack.NewEngine(),
		tracker:  rack.NewTracker(display),
		recorder: recorder,
		now:      time.Now,
	}
}

// Process evaluates one envelope and records the result. The returned
// resolution reflects the evaluation outcome for callers that render state.
func (p *Processor) Process(env model.ScanEnvelope) rack.Resolution {
	res := rack.Dispatch(p.engine, p.tracker, env.Line)

	record := &model.ScanRecord{
		Timestamp: p.now().UTC(),
		Raw:       env.Line,
		Outcome:   res.Outcome.Kind.String(),
		Cell:      -1,
		Source:    env.Source,
	}
	if res.Highlight {
		record.Sequence = res.Coord.Sequence()
		record.Rack = res.Coord.Rack
		record.Cell = res.Coord.Index
	}

	if p.recorder != nil {
		p.recorder.Add(record)
	}
	return res
}

// ActiveErrors returns the currently displayed input errors in insertion order.
func (p *Processor) ActiveErrors() []rack.ScanError {
	return p.tracker.Active()
}

// Highlight returns the currently selected cell, if any.
func (p *Processor) Highlight() (rack.Coordinate, bool) {
	return p.engine.Highlight()
}
