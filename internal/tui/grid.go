package tui

import "github.com/warefleet/scanloc/internal/rack"

// Fixed grid geometry. The rack panels are drawn at a deterministic position
// so mouse coordinates map straight back to cells without consulting the
// rendered frame.
const (
	gridTop   = 3 // rows above the first cell row: title, blank, rack headers
	gridLeft  = 2
	cellWidth = 5
	rackGap   = 6
)

// gridLayout maps terminal coordinates to rack cells.
type gridLayout struct {
	rack1X int
	rack2X int
	top    int
}

func newGridLayout() gridLayout {
	rackWidth := rack.ColumnsPerRack * cellWidth
	return gridLayout{
		rack1X: gridLeft,
		rack2X: gridLeft + rackWidth + rackGap,
		top:    gridTop,
	}
}

// cellAt resolves a terminal coordinate to the sequence number drawn there.
// Returns ok=false for anything outside the two rack panels.
func (g gridLayout) cellAt(x, y int) (seq int, ok bool) {
	row := y - g.top
	if row < 0 || row >= rack.CellsPerColumn {
		return 0, false
	}

	rackWidth := rack.ColumnsPerRack * cellWidth
	if rel := x - g.rack1X; rel >= 0 && rel < rackWidth {
		return rack.SequenceAt(1, rel/cellWidth, row)
	}
	if rel := x - g.rack2X; rel >= 0 && rel < rackWidth {
		return rack.SequenceAt(2, rel/cellWidth, row)
	}
	return 0, false
}
