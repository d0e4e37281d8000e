package rack

// Physical geometry of a T4ED storage rack pair. Sequences are 1-based and
// global across both racks; each rack is read right to left, with every
// column numbered bottom to top:
//
//	80 32 16
//	.. .. ..
//	.  8  4
//	.  7  3
//	.  6  2
//	.  5  1
const (
	// RackCount is the number of physical racks addressed by one sequence space.
	RackCount = 2

	// ColumnsPerRack is the number of columns in one rack.
	ColumnsPerRack = 5

	// CellsPerColumn is the number of vertically stacked cells in one column.
	CellsPerColumn = 16

	// CellsPerRack is the number of addressable cells in one rack.
	CellsPerRack = ColumnsPerRack * CellsPerColumn

	// MinSequence and MaxSequence bound the valid global sequence domain.
	MinSequence = 1
	MaxSequence = RackCount * CellsPerRack
)

// Coordinate is the resolved address of a valid sequence: a rack number and
// the 0-based index of the cell within that rack's flattened 80-slot layout.
type Coordinate struct {
	Rack  int `json:"rack"`  // 1 or 2
	Index int `json:"index"` // 0..79
}

// Locate maps a valid global sequence (1..160) to its coordinate.
// Callers must validate the sequence first; Locate does not.
func Locate(seq int) Coordinate {
	rack := 1
	local := seq
	if seq > CellsPerRack {
		rack = 2
		local = seq - CellsPerRack
	}
	return Coordinate{Rack: rack, Index: local - 1}
}

// Sequence returns the global 1-based sequence addressing this coordinate.
func (c Coordinate) Sequence() int {
	return (c.Rack-1)*CellsPerRack + c.Index + 1
}

// Column returns the column holding this cell, counted from the rack's right
// edge (column 0 holds sequences 1..16 of the rack).
func (c Coordinate) Column() int {
	return c.Index / CellsPerColumn
}

// Slot returns the vertical position within the column, counted from the
// bottom (slot 0 is the lowest cell).
func (c Coordinate) Slot() int {
	return c.Index % CellsPerColumn
}

// SequenceAt returns the global sequence of the cell drawn at screen position
// (col, row) of the given rack, where col 0 is the leftmost column and row 0
// is the top row. This is the inverse of the physical ordering above and is
// what grid renderers and pointer hit-testing use.
func SequenceAt(rack, col, row int) (int, bool) {
	if rack < 1 || rack > RackCount {
		return 0, false
	}
	if col < 0 || col >= ColumnsPerRack || row < 0 || row >= CellsPerColumn {
		return 0, false
	}
	physCol := ColumnsPerRack - 1 - col
	slot := CellsPerColumn - 1 - row
	index := physCol*CellsPerColumn + slot
	return (rack-1)*CellsPerRack + index + 1, true
}

// ValidSequence reports whether seq falls inside the addressable domain.
func ValidSequence(seq int) bool {
	return seq >= MinSequence && seq <= MaxSequence
}
