package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/warefleet/scanloc/internal/model"
)

// recentPanelLimit caps the pick history shown next to the grid.
const recentPanelLimit = 8

// volumeWindow is how far back the per-minute volume chart reaches.
const volumeWindow = 15 * time.Minute

// Update handles messages.
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		if m.store == nil {
			return m, nil
		}
		if m.tickInFlight {
			return m, m.tickCmd()
		}
		m.tickInFlight = true
		return m, tea.Batch(m.fetchStatsCmd(), m.tickCmd())

	case tickDataLoadedMsg:
		m.tickInFlight = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			m.lastErrorAt = time.Now()
		} else {
			m.stats = msg.stats
		}
		return m, nil
	}

	return m, nil
}

func (m *PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Help overlay swallows every key until dismissed.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.input.SetValue("")
		m.applyInput("")
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.applyInput(m.input.Value())
		m.recordPick()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.stepSequence(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.stepSequence(-1)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.applyInput(after)
	}
	return m, cmd
}

// handleMouse feeds pointer events through the same pipeline as typed input.
// Hover and drag preview a cell; a press confirms it as a pick. The resolved
// value is written back into the input so all modalities stay in sync.
func (m *PickerModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		seq, ok := m.grid.cellAt(msg.X, msg.Y)
		if !ok {
			// Off-grid motion leaves the current state alone.
			m.hoverSeq = 0
			return m, nil
		}
		m.hoverSeq = seq
		raw := strconv.Itoa(seq)
		m.input.SetValue(raw)
		m.applyInput(raw)
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
		}
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.reverseScrollWheel {
				m.stepSequence(-1)
			} else {
				m.stepSequence(1)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if m.reverseScrollWheel {
				m.stepSequence(1)
			} else {
				m.stepSequence(-1)
			}
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		seq, ok := m.grid.cellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.hoverSeq = seq
		raw := strconv.Itoa(seq)
		m.input.SetValue(raw)
		m.applyInput(raw)
		m.recordPick()
		m.dragging = true
		return m, nil

	case tea.MouseActionRelease:
		m.dragging = false
		return m, nil
	}

	return m, nil
}

// fetchStatsCmd queries the store off the update loop and reports back via
// tickDataLoadedMsg.
func (m *PickerModel) fetchStatsCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		total, err := store.TotalScanCount(model.QueryOpts{})
		if err != nil {
			return tickDataLoadedMsg{err: err}
		}
		volume, err := store.MinuteVolume(volumeWindow, model.QueryOpts{})
		if err != nil {
			return tickDataLoadedMsg{err: err}
		}
		recent, err := store.RecentScans(recentPanelLimit, model.QueryOpts{})
		if err != nil {
			return tickDataLoadedMsg{err: err}
		}
		return tickDataLoadedMsg{stats: statsSnapshot{
			totalScans: total,
			volume:     volume,
			recent:     recent,
		}}
	}
}
