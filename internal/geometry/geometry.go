// Package geometry builds the physical keyboard grid: the cell lattice,
// the fixed-letter reservations, the per-cell finger assignment, and the
// per-finger home positions. It is the leaf stage of the optimisation
// pipeline (grid & zoning); nothing in this package depends on key
// identities, frequencies, or the MILP builder.
package geometry

import "fmt"

// CellsPerU is the number of 0.25u cells that make up one key-width unit.
const CellsPerU = 4

// MaxColCells is the fixed horizontal extent of the grid: 20u at 4
// cells/u.
const MaxColCells = 20 * CellsPerU

// MinRows and MaxRows bound the configurable vertical extent of the
// grid (the `max_rows` configuration key). The minimum admits exactly
// the thumb row plus the three fixed letter rows; the maximum adds a
// number row and a function row.
const (
	MinRows = 4
	MaxRows = 6
)

// DefaultU2MM is the physical scale used by the Fitts cost kernel
// (millimetres per u), unless a configuration overrides it.
const DefaultU2MM = 19.0

// CellU is the size of one cell, in u.
const CellU = 1.0 / CellsPerU

// Finger is the closed set of fingers responsible for pressing keys.
type Finger int

const (
	LPinky Finger = iota
	LRing
	LMiddle
	LIndex
	LThumb
	RThumb
	RIndex
	RMiddle
	RRing
	RPinky
	numFingers
)

func (f Finger) String() string {
	switch f {
	case LPinky:
		return "LPinky"
	case LRing:
		return "LRing"
	case LMiddle:
		return "LMiddle"
	case LIndex:
		return "LIndex"
	case LThumb:
		return "LThumb"
	case RThumb:
		return "RThumb"
	case RIndex:
		return "RIndex"
	case RMiddle:
		return "RMiddle"
	case RRing:
		return "RRing"
	case RPinky:
		return "RPinky"
	default:
		return fmt.Sprintf("Finger(%d)", int(f))
	}
}

// ParseFinger parses a finger's canonical name, as used in
// configuration overrides keyed by finger.
func ParseFinger(s string) (Finger, error) {
	for _, f := range AllFingers() {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown finger %q", s)
}

// AllFingers returns the ten fingers in a stable order.
func AllFingers() []Finger {
	fingers := make([]Finger, 0, int(numFingers))
	for f := Finger(0); f < numFingers; f++ {
		fingers = append(fingers, f)
	}
	return fingers
}

// Family identifies the layout family a Geometry was built for.
type Family int

const (
	RowStagger Family = iota
	Ortho
)

func (fam Family) String() string {
	switch fam {
	case RowStagger:
		return "row-stagger"
	case Ortho:
		return "ortho"
	default:
		return fmt.Sprintf("Family(%d)", int(fam))
	}
}

// ParseFamily parses the `geometry` configuration value.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "row-stagger":
		return RowStagger, nil
	case "ortho":
		return Ortho, nil
	default:
		return 0, fmt.Errorf("unknown geometry family %q", s)
	}
}

// CellID addresses one 0.25u cell in the grid.
type CellID struct {
	Row, Col int
}

// Point is a coordinate in u-space.
type Point struct {
	X, Y float64
}

// Cell is one atomic 0.25u grid unit.
type Cell struct {
	ID       CellID
	Finger   Finger
	Occupied bool
}

// LetterRun names a contiguous run of 1u fixed-letter keys: the physical
// row it sits on, its left edge in u, and how many keys it spans.
type LetterRun struct {
	Row      int
	StartU   float64
	KeyCount int
}

// Geometry is the immutable bundle of the cell grid, the finger
// partition, and the home-position mapping for one layout family. It is
// built once and never mutated afterwards. Only the horizontal axis is
// subdivided into 0.25u cells; every key is exactly 1u tall, so rows
// are addressed at physical-row granularity.
type Geometry struct {
	Family Family
	Rows   int // number of physical key rows
	Cells  [][]Cell
	Homes  map[Finger]Point

	rowOffsetU []float64
	letterRuns []LetterRun
}

// NumRows returns the number of physical key rows in the grid.
func (g *Geometry) NumRows() int { return g.Rows }

// NumCellCols returns the number of 0.25u columns in the grid.
func (g *Geometry) NumCellCols() int { return MaxColCells }

// RowOffsetU returns the horizontal stagger offset of a physical row,
// in u. It is zero for every row of an Ortho geometry.
func (g *Geometry) RowOffsetU(row int) float64 { return g.rowOffsetU[row] }

// CellCenterU returns the (x,y) coordinate, in u, of the centre of a
// regular placement on the given row spanning [startCol, startCol+widthCells).
// Column indices are absolute: the row's stagger is already reflected
// in where its letter run starts, so no row offset is added.
func (g *Geometry) CellCenterU(row, startCol, widthCells int) Point {
	x := (float64(startCol) + float64(widthCells)/2.0) * CellU
	y := float64(row)
	return Point{X: x, Y: y}
}

// FingerAt returns the finger responsible for the given cell.
func (g *Geometry) FingerAt(id CellID) Finger {
	return g.Cells[id.Row][id.Col].Finger
}

// Occupied reports whether a cell already belongs to a fixed letter
// block.
func (g *Geometry) Occupied(id CellID) bool {
	return g.Cells[id.Row][id.Col].Occupied
}

// LetterRuns returns the fixed-letter reservations used to build this
// geometry.
func (g *Geometry) LetterRuns() []LetterRun {
	return g.letterRuns
}
