package rack

// Display receives error show/hide notifications from a Tracker. Handles are
// allocated per activation and never reused, so an adapter can key whatever
// it renders (a styled line, a DOM node, a toast) by handle alone.
type Display interface {
	ShowError(handle uint64, err ScanError)
	HideError(handle uint64)
}

type trackedError struct {
	err    ScanError
	handle uint64
}

// Tracker maintains the set of currently active validation errors,
// de-duplicated by kind and ordered by first activation. Add and Clear are
// total and idempotent per kind; there is no update transition, so a repeat
// Add of an active kind is a no-op even if its payload differs.
type Tracker struct {
	active     []trackedError
	display    Display
	nextHandle uint64
}

// NewTracker returns a tracker notifying display. A nil display is allowed;
// the tracker then only maintains state.
func NewTracker(display Display) *Tracker {
	return &Tracker{display: display, nextHandle: 1}
}

// Add activates err's kind if it is not already active, notifying the display
// in activation order. Adding an already-active kind does nothing.
func (t *Tracker) Add(err ScanError) {
	if t.indexOf(err.Kind) >= 0 {
		return
	}
	handle := t.nextHandle
	t.nextHandle++
	t.active = append(t.active, trackedError{err: err, handle: handle})
	if t.display != nil {
		t.display.ShowError(handle, err)
	}
}

// Clear deactivates the given kind if active, releasing its display handle.
// Clearing an inactive kind does nothing.
func (t *Tracker) Clear(kind ErrorKind) {
	i := t.indexOf(kind)
	if i < 0 {
		return
	}
	handle := t.active[i].handle
	t.active = append(t.active[:i], t.active[i+1:]...)
	if t.display != nil {
		t.display.HideError(handle)
	}
}

// ClearAll deactivates every active error, notifying the display once per
// removed entry, in activation order.
func (t *Tracker) ClearAll() {
	removed := t.active
	t.active = nil
	if t.display == nil {
		return
	}
	for _, e := range removed {
		t.display.HideError(e.handle)
	}
}

// Active returns the active errors in activation order.
func (t *Tracker) Active() []ScanError {
	out := make([]ScanError, len(t.active))
	for i, e := range t.active {
		out[i] = e.err
	}
	return out
}

// IsActive reports whether an error of the given kind is currently shown.
func (t *Tracker) IsActive(kind ErrorKind) bool {
	return t.indexOf(kind) >= 0
}

func (t *Tracker) indexOf(kind ErrorKind) int {
	for i, e := range t.active {
		if e.err.Kind == kind {
			return i
		}
	}
	return -1
}
