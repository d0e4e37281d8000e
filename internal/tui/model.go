package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/warefleet/scanloc/internal/model"
	"github.com/warefleet/scanloc/internal/rack"
)

// Recorder receives picks confirmed in the TUI. May be nil when the picker
// runs without history.
type Recorder interface {
	Add(record *model.ScanRecord)
}

// errorLine is one displayed validation message, keyed by its tracker handle.
type errorLine struct {
	handle uint64
	text   string
}

// errorPanel renders tracker notifications as an ordered list of messages.
// It implements rack.Display.
type errorPanel struct {
	lines []errorLine
}

func (p *errorPanel) ShowError(handle uint64, err rack.ScanError) {
	p.lines = append(p.lines, errorLine{handle: handle, text: err.Error()})
}

func (p *errorPanel) HideError(handle uint64) {
	for i, line := range p.lines {
		if line.handle == handle {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
			return
		}
	}
}

// statsSnapshot holds the store-derived numbers shown alongside the picker,
// refreshed asynchronously on each tick.
type statsSnapshot struct {
	totalScans int64
	volume     []model.MinuteVolume
	recent     []model.ScanRecord
}

// TickMsg drives the periodic stats refresh.
type TickMsg time.Time

// tickDataLoadedMsg carries the async stats fetch result back to Update.
type tickDataLoadedMsg struct {
	stats statsSnapshot
	err   error
}

// PickerModel is the rack location picker TUI. Typed input, hover, click,
// and drag all resolve through the same evaluate/dispatch pipeline, so every
// modality shows identical highlight and error state.
type PickerModel struct {
	input textinput.Model
	keys  KeyMap
	grid  gridLayout

	engine  *rack.Engine
	tracker *rack.Tracker
	errors  *errorPanel
	lastRes rack.Resolution

	// hoverSeq is the sequence under the pointer, 0 when off-grid.
	hoverSeq int
	dragging bool

	reverseScrollWheel bool

	recorder Recorder
	store    model.ScanQuerier // nil disables the stats panel

	updateInterval time.Duration
	tickInFlight   bool
	stats          statsSnapshot

	// Last store error for the status line (auto-clears after 30s).
	lastError   string
	lastErrorAt time.Time

	showHelp bool
	width    int
	height   int
}

// NewPickerModel creates the picker. recorder and store may each be nil.
func NewPickerModel(recorder Recorder, store model.ScanQuerier, updateInterval time.Duration) *PickerModel {
	input := textinput.New()
	input.Placeholder = "sequence"
	input.CharLimit = 8
	input.Width = 12
	input.Focus()

	if updateInterval <= 0 {
		updateInterval = model.DefaultUpdateInterval
	}

	errors := &errorPanel{}
	return &PickerModel{
		input:          input,
		keys:           DefaultKeyMap(),
		grid:           newGridLayout(),
		engine:         rack.NewEngine(),
		tracker:        rack.NewTracker(errors),
		errors:         errors,
		recorder:       recorder,
		store:          store,
		updateInterval: updateInterval,
	}
}

// Init enables cell-level mouse tracking and starts the stats tick.
func (m *PickerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		func() tea.Msg { return tea.EnableMouseCellMotion() },
	}
	if m.store != nil {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

func (m *PickerModel) tickCmd() tea.Cmd {
	return tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SetReverseScrollWheel flips the wheel's step direction.
func (m *PickerModel) SetReverseScrollWheel(v bool) {
	m.reverseScrollWheel = v
}

// applyInput runs one raw value through the shared dispatch pipeline. Every
// trigger source funnels through here.
func (m *PickerModel) applyInput(raw string) {
	m.lastRes = rack.Dispatch(m.engine, m.tracker, raw)
}

// stepSequence moves the selection by delta, clamped to the valid range.
// Stepping from a non-valid state starts at the nearest bound.
func (m *PickerModel) stepSequence(delta int) {
	seq := rack.MinSequence
	if delta < 0 {
		seq = rack.MaxSequence
	}
	if coord, ok := m.engine.Highlight(); ok {
		seq = coord.Sequence() + delta
		if seq < rack.MinSequence {
			seq = rack.MinSequence
		}
		if seq > rack.MaxSequence {
			seq = rack.MaxSequence
		}
	}
	raw := strconv.Itoa(seq)
	m.input.SetValue(raw)
	m.applyInput(raw)
}

// recordPick persists the current resolution as a confirmed pick.
func (m *PickerModel) recordPick() {
	if m.recorder == nil {
		return
	}
	res := m.lastRes
	record := &model.ScanRecord{
		Timestamp: time.Now().UTC(),
		Raw:       res.Raw,
		Outcome:   res.Outcome.Kind.String(),
		Cell:      -1,
		Source:    "tui",
	}
	if res.Highlight {
		record.Sequence = res.Coord.Sequence()
		record.Rack = res.Coord.Rack
		record.Cell = res.Coord.Index
	}
	m.recorder.Add(record)
}

// highlight returns the currently selected cell, if any.
func (m *PickerModel) highlight() (rack.Coordinate, bool) {
	return m.engine.Highlight()
}
