package geometry

import "fmt"

// DefaultZonePolicy is the zone policy used by Build: the pinky-edge
// rule is enabled on every row, so on each row the pinky zone ends at
// that pinky's home-x rather than at the home-row midpoint.
var DefaultZonePolicy = ZonePolicy{Rule: PinkyEdgeAllRows}

// Build constructs a Geometry for the given family and row budget. It
// allocates the cell grid, assigns every cell to a finger under the
// default zone policy, and reserves the fixed QWERTY/ASDF/ZXCV letter
// blocks as occupied.
func Build(family Family, maxRows int) (*Geometry, error) {
	return BuildWithPolicy(family, maxRows, DefaultZonePolicy)
}

// BuildWithPolicy is Build with an explicit zone policy, exposed for
// tests and for callers exploring alternative pinky-edge rules.
func BuildWithPolicy(family Family, maxRows int, zp ZonePolicy) (*Geometry, error) {
	if maxRows < MinRows || maxRows > MaxRows {
		return nil, fmt.Errorf("geometry: max_rows %d out of range [%d,%d]", maxRows, MinRows, MaxRows)
	}

	offsets := rowOffsetsU(family)
	homes := homePositions(family, offsets)

	g := &Geometry{
		Family:     family,
		Rows:       maxRows,
		Homes:      homes,
		rowOffsetU: offsets[:maxRows],
		letterRuns: letterRunsFor(),
	}

	g.Cells = make([][]Cell, maxRows)
	for row := 0; row < maxRows; row++ {
		g.Cells[row] = make([]Cell, MaxColCells)
		for col := 0; col < MaxColCells; col++ {
			x := (float64(col) + 0.5) * CellU
			g.Cells[row][col] = Cell{
				ID:     CellID{Row: row, Col: col},
				Finger: zp.FingerForX(homes, row, x),
			}
		}
	}

	for _, run := range g.letterRuns {
		if run.Row >= maxRows {
			continue
		}
		if err := reserveRun(g, run); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// reserveRun marks every cell under a fixed-letter run as occupied.
func reserveRun(g *Geometry, run LetterRun) error {
	startCol := int(run.StartU / CellU)
	widthCols := run.KeyCount * CellsPerU
	if startCol < 0 || startCol+widthCols > MaxColCells {
		return fmt.Errorf("geometry: letter run on row %d (start %.2fu, %d keys) exceeds grid width", run.Row, run.StartU, run.KeyCount)
	}
	for col := startCol; col < startCol+widthCols; col++ {
		g.Cells[run.Row][col].Occupied = true
	}
	return nil
}
