package rack

import "testing"

func TestLocate_FullSweep(t *testing.T) {
	t.Parallel()

	for seq := MinSequence; seq <= MaxSequence; seq++ {
		c := Locate(seq)

		wantRack := 1
		if seq > CellsPerRack {
			wantRack = 2
		}
		if c.Rack != wantRack {
			t.Fatalf("Locate(%d).Rack = %d, want %d", seq, c.Rack, wantRack)
		}
		if want := (seq - 1) % CellsPerRack; c.Index != want {
			t.Fatalf("Locate(%d).Index = %d, want %d", seq, c.Index, want)
		}
		if got := c.Sequence(); got != seq {
			t.Fatalf("Locate(%d).Sequence() = %d, want %d", seq, got, seq)
		}
	}
}

func TestLocate_RackBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seq       int
		wantRack  int
		wantIndex int
	}{
		{1, 1, 0},
		{80, 1, 79},
		{81, 2, 0},
		{160, 2, 79},
	}
	for _, tt := range tests {
		c := Locate(tt.seq)
		if c.Rack != tt.wantRack || c.Index != tt.wantIndex {
			t.Fatalf("Locate(%d) = %+v, want rack %d index %d", tt.seq, c, tt.wantRack, tt.wantIndex)
		}
	}
}

// The four corners of the physical diagram: 1 bottom-right, 16 top-right,
// 65 bottom-left, 80 top-left.
func TestColumnSlot_DiagramCorners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seq      int
		wantCol  int // from the right
		wantSlot int // from the bottom
	}{
		{1, 0, 0},
		{16, 0, 15},
		{17, 1, 0},
		{32, 1, 15},
		{65, 4, 0},
		{80, 4, 15},
	}
	for _, tt := range tests {
		c := Locate(tt.seq)
		if got := c.Column(); got != tt.wantCol {
			t.Fatalf("Locate(%d).Column() = %d, want %d", tt.seq, got, tt.wantCol)
		}
		if got := c.Slot(); got != tt.wantSlot {
			t.Fatalf("Locate(%d).Slot() = %d, want %d", tt.seq, got, tt.wantSlot)
		}
	}
}

func TestSequenceAt_InvertsPhysicalOrdering(t *testing.T) {
	t.Parallel()

	// Screen col 0 is leftmost, row 0 is topmost.
	tests := []struct {
		rack, col, row int
		want           int
	}{
		{1, ColumnsPerRack - 1, CellsPerColumn - 1, 1}, // bottom-right
		{1, ColumnsPerRack - 1, 0, 16},                 // top-right
		{1, 0, 0, 80},                                  // top-left
		{1, 0, CellsPerColumn - 1, 65},                 // bottom-left
		{2, ColumnsPerRack - 1, CellsPerColumn - 1, 81},
		{2, 0, 0, 160},
	}
	for _, tt := range tests {
		got, ok := SequenceAt(tt.rack, tt.col, tt.row)
		if !ok {
			t.Fatalf("SequenceAt(%d, %d, %d) not ok", tt.rack, tt.col, tt.row)
		}
		if got != tt.want {
			t.Fatalf("SequenceAt(%d, %d, %d) = %d, want %d", tt.rack, tt.col, tt.row, got, tt.want)
		}
	}
}

func TestSequenceAt_RoundTrip(t *testing.T) {
	t.Parallel()

	for rack := 1; rack <= RackCount; rack++ {
		for col := 0; col < ColumnsPerRack; col++ {
			for row := 0; row < CellsPerColumn; row++ {
				seq, ok := SequenceAt(rack, col, row)
				if !ok {
					t.Fatalf("SequenceAt(%d, %d, %d) not ok", rack, col, row)
				}
				c := Locate(seq)
				if c.Rack != rack {
					t.Fatalf("Locate(%d).Rack = %d, want %d", seq, c.Rack, rack)
				}
				if gotCol := ColumnsPerRack - 1 - c.Column(); gotCol != col {
					t.Fatalf("seq %d: screen column = %d, want %d", seq, gotCol, col)
				}
				if gotRow := CellsPerColumn - 1 - c.Slot(); gotRow != row {
					t.Fatalf("seq %d: screen row = %d, want %d", seq, gotRow, row)
				}
			}
		}
	}
}

func TestSequenceAt_OutOfBounds(t *testing.T) {
	t.Parallel()

	bad := [][3]int{
		{0, 0, 0},
		{3, 0, 0},
		{1, -1, 0},
		{1, ColumnsPerRack, 0},
		{1, 0, -1},
		{1, 0, CellsPerColumn},
	}
	for _, b := range bad {
		if _, ok := SequenceAt(b[0], b[1], b[2]); ok {
			t.Fatalf("SequenceAt(%d, %d, %d) ok, want not ok", b[0], b[1], b[2])
		}
	}
}
