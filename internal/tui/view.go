package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/warefleet/scanloc/internal/rack"
)

// View renders the picker. The rack grid occupies fixed coordinates so that
// gridLayout.cellAt can resolve mouse positions without inspecting the frame:
// row 0 is the title, row 2 the rack headers, rows gridTop onward the cells.
func (m *PickerModel) View() string {
	if m.showHelp {
		return m.helpView()
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Rack Location Picker"))
	b.WriteString("\n\n")
	b.WriteString(m.renderRackHeaders())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())

	b.WriteString("\n")
	b.WriteString(m.renderInputLine())
	b.WriteString("\n")

	for _, line := range m.errors.lines {
		b.WriteString(errorStyle.Render(line.text))
		b.WriteString("\n")
	}

	if m.store != nil {
		b.WriteString("\n")
		b.WriteString(chartTitleStyle.Render("Scans per minute"))
		b.WriteString("\n")
		b.WriteString(renderVolumeChart(m.stats.volume, width))
		b.WriteString("\n")
		b.WriteString(m.renderRecent())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

func (m *PickerModel) renderRackHeaders() string {
	gap := m.grid.rack2X - m.grid.rack1X - len("Rack 1")
	return strings.Repeat(" ", m.grid.rack1X) +
		rackTitleStyle.Render("Rack 1") +
		strings.Repeat(" ", gap) +
		rackTitleStyle.Render("Rack 2")
}

func (m *PickerModel) renderGrid() string {
	hl, hasHL := m.highlight()

	var b strings.Builder
	for row := 0; row < rack.CellsPerColumn; row++ {
		b.WriteString(strings.Repeat(" ", m.grid.rack1X))
		for col := 0; col < rack.ColumnsPerRack; col++ {
			seq, _ := rack.SequenceAt(1, col, row)
			b.WriteString(m.renderCell(seq, hl, hasHL))
		}
		b.WriteString(strings.Repeat(" ", rackGap))
		for col := 0; col < rack.ColumnsPerRack; col++ {
			seq, _ := rack.SequenceAt(2, col, row)
			b.WriteString(m.renderCell(seq, hl, hasHL))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderCell draws one cell exactly cellWidth characters wide. Highlight wins
// over hover when both apply to the same cell.
func (m *PickerModel) renderCell(seq int, hl rack.Coordinate, hasHL bool) string {
	text := fmt.Sprintf(" %3d ", seq)
	switch {
	case hasHL && hl.Sequence() == seq:
		return highlightedCellStyle.Render(text)
	case seq == m.hoverSeq:
		return hoverCellStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}

func (m *PickerModel) renderInputLine() string {
	indicator := "-"
	if m.lastRes.RackNumber > 0 {
		indicator = rackIndicatorStyle.Render(fmt.Sprintf("%d", m.lastRes.RackNumber))
	}
	return fmt.Sprintf("  Sequence: %s   Rack: %s", m.input.View(), indicator)
}

func (m *PickerModel) renderRecent() string {
	if len(m.stats.recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Recent scans"))
	b.WriteString("\n")
	for _, rec := range m.stats.recent {
		line := fmt.Sprintf("  %s  %-10s %-12s", rec.Timestamp.Local().Format("15:04:05"), rec.Raw, rec.Outcome)
		if rec.Outcome == "valid" {
			line += fmt.Sprintf(" rack %d cell %d", rec.Rack, rec.Cell)
		}
		b.WriteString(statusStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *PickerModel) renderStatusLine() string {
	if m.lastError != "" && time.Since(m.lastErrorAt) < 30*time.Second {
		return statusErrorStyle.Render("  store: " + m.lastError)
	}

	parts := []string{"f1 help", "esc clear", "enter record", "ctrl+c quit"}
	status := "  " + helpStyle.Render(strings.Join(parts, " | "))
	if m.store != nil {
		status += statusStyle.Render(fmt.Sprintf("   %d scans recorded", m.stats.totalScans))
	}
	return status
}

func (m *PickerModel) helpView() string {
	lines := []string{
		titleStyle.Render("Rack Location Picker"),
		"",
		rackTitleStyle.Render("Keys"),
		"  type digits   evaluate the sequence as you type",
		"  enter         record the current input as a pick",
		"  esc           clear the input and the highlight",
		"  f1            toggle this help",
		"  ctrl+c        quit",
		"",
		rackTitleStyle.Render("Mouse"),
		"  hover a cell  preview it: the input, highlight, and rack",
		"                indicator follow the pointer",
		"  click a cell  select it and record a pick",
		"  drag          preview cells continuously without recording",
		"",
		helpStyle.Render("  Sequences run 1-160: cell 1 is the bottom of the rightmost"),
		helpStyle.Render("  column of rack 1, increasing upward then leftward; 81 starts"),
		helpStyle.Render("  rack 2 the same way."),
		"",
		helpStyle.Render("  press any key to close"),
	}
	return strings.Join(lines, "\n")
}
