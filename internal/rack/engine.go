package rack

import "strconv"

// OutcomeKind is the closed set of evaluation results.
type OutcomeKind int

const (
	// OutcomeValid means the input addressed a cell; Coord is set.
	OutcomeValid OutcomeKind = iota

	// OutcomeEmpty means the input was the empty string. This is "no error",
	// distinct from OutcomeInvalid: it asks the caller to clear the
	// not-a-number message rather than raise it.
	OutcomeEmpty

	// OutcomeInvalid means the input was non-empty and not a non-negative
	// integer.
	OutcomeInvalid

	// OutcomeOutOfRange means the input parsed to an integer outside
	// MinSequence..MaxSequence; Min and Max carry the domain.
	OutcomeOutOfRange
)

// String returns a stable machine-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValid:
		return "valid"
	case OutcomeEmpty:
		return "empty"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating one raw input. Coord is meaningful only
// when Kind is OutcomeValid; Min/Max only when Kind is OutcomeOutOfRange.
type Outcome struct {
	Kind  OutcomeKind
	Coord Coordinate
	Min   int
	Max   int
}

// Engine translates raw operator input into coordinates and owns the
// highlight state: at most one active cell at a time, across both racks.
// It performs no I/O; rendering belongs to whatever adapter consumes it.
type Engine struct {
	highlighted Coordinate
	active      bool
}

// NewEngine returns an engine with nothing highlighted.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate parses raw as a base-10 non-negative integer and resolves it.
// Whitespace is not trimmed and signs are rejected, matching the strictness
// of the hardware scanner payloads. Every non-valid outcome clears the
// highlight; a valid outcome replaces it atomically, so stale highlights can
// never survive an evaluation.
func (e *Engine) Evaluate(raw string) Outcome {
	if raw == "" {
		e.Clear()
		return Outcome{Kind: OutcomeEmpty}
	}

	seq, err := parseSequence(raw)
	if err != nil {
		e.Clear()
		return Outcome{Kind: OutcomeInvalid}
	}

	if !ValidSequence(seq) {
		e.Clear()
		return Outcome{Kind: OutcomeOutOfRange, Min: MinSequence, Max: MaxSequence}
	}

	coord := Locate(seq)
	e.highlighted = coord
	e.active = true
	return Outcome{Kind: OutcomeValid, Coord: coord}
}

// Clear empties the highlight without evaluating anything. Used by callers
// that need to blank the display outside the normal input path.
func (e *Engine) Clear() {
	e.highlighted = Coordinate{}
	e.active = false
}

// Highlight returns the currently highlighted coordinate, if any.
func (e *Engine) Highlight() (Coordinate, bool) {
	return e.highlighted, e.active
}

// parseSequence accepts only plain non-negative decimal digits. strconv.Atoi
// tolerates a leading sign, so "+5" and "-5" are rejected up front.
func parseSequence(raw string) (int, error) {
	if raw[0] == '+' || raw[0] == '-' {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(raw)
}
