package rack

// Resolution is what rendering adapters consume after one pass through the
// input pipeline: the raw outcome plus the derived display state.
type Resolution struct {
	Raw        string
	Outcome    Outcome
	RackNumber int  // 1 or 2 when valid, 0 = blank the indicator
	Coord      Coordinate
	Highlight  bool // false = no cell selected
}

// Dispatch runs one raw input through the engine and applies the resulting
// error transitions to the tracker. This is the single source of truth for
// widget behavior: typed input, pointer hover, click, drag, and remote scan
// lines must all come through here so that every modality behaves
// identically.
//
//	valid        -> clear NotANumber, clear OutOfRange, show rack + cell
//	out of range -> add OutOfRange, clear NotANumber, blank display
//	invalid      -> add NotANumber, clear OutOfRange, blank display
//	empty        -> clear NotANumber, clear OutOfRange, blank display
func Dispatch(e *Engine, t *Tracker, raw string) Resolution {
	out := e.Evaluate(raw)
	res := Resolution{Raw: raw, Outcome: out}

	switch out.Kind {
	case OutcomeValid:
		t.Clear(KindNotANumber)
		t.Clear(KindOutOfRange)
		res.RackNumber = out.Coord.Rack
		res.Coord = out.Coord
		res.Highlight = true
	case OutcomeOutOfRange:
		t.Add(OutOfRange(out.Min, out.Max))
		t.Clear(KindNotANumber)
	case OutcomeInvalid:
		t.Add(NotANumber())
		t.Clear(KindOutOfRange)
	case OutcomeEmpty:
		t.Clear(KindNotANumber)
		t.Clear(KindOutOfRange)
	}

	return res
}
