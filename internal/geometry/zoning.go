package geometry

// PinkyEdgeRule controls whether the outermost finger boundaries are
// moved from the plain home-row midpoints out to the pinkies' own
// home-x, so each pinky zone ends at its home position and the ring
// finger takes the cells between that home-x and the old midpoint.
type PinkyEdgeRule int

const (
	// PinkyEdgeOff applies no override: boundaries are the plain
	// home-row midpoints on every row.
	PinkyEdgeOff PinkyEdgeRule = iota
	// PinkyEdgeAllRows applies the pinky-edge boundary on every row,
	// including the home row itself.
	PinkyEdgeAllRows
	// PinkyEdgeBelowRow applies the pinky-edge boundary only on rows
	// further from the thumb row than HomeRow (i.e. rows whose index
	// exceeds it), leaving the home row and rows closer to it unaffected.
	PinkyEdgeBelowRow
)

// ZonePolicy bundles the finger-boundary rule used to turn an x
// coordinate into a finger assignment.
type ZonePolicy struct {
	Rule    PinkyEdgeRule
	HomeRow int
}

// nonThumbFingerOrder lists the eight non-thumb fingers left to right;
// it is the order boundariesU's midpoints separate.
var nonThumbFingerOrder = []Finger{LPinky, LRing, LMiddle, LIndex, RIndex, RMiddle, RRing, RPinky}

// boundariesU derives the seven slab boundaries, in absolute u, as the
// midpoints between consecutive home-row finger centres.
func boundariesU(homes map[Finger]Point) []float64 {
	bounds := make([]float64, 0, len(nonThumbFingerOrder)-1)
	for i := 0; i < len(nonThumbFingerOrder)-1; i++ {
		a := homes[nonThumbFingerOrder[i]].X
		b := homes[nonThumbFingerOrder[i+1]].X
		bounds = append(bounds, (a+b)/2.0)
	}
	return bounds
}

// pinkyHomeEpsilon nudges the left boundary a negligible amount past
// LPinky's own home-x, so FingerForX's strict less-than comparison
// still resolves a cell sitting exactly on that home-x to LPinky
// (x <= home-x), matching RPinky's side, where the same comparison
// already falls through to the catch-all return for x >= home-x.
const pinkyHomeEpsilon = 1e-9

// widen applies the pinky-edge rule to a copy of bounds for the given
// row: instead of the plain home-row midpoint, the outermost boundary
// on each side snaps directly to that side's pinky home-x, so every
// cell at or beyond its own pinky's home position belongs to the
// pinky regardless of how close that puts the boundary to the ring
// slab next to it.
func (zp ZonePolicy) widen(bounds []float64, homes map[Finger]Point, row int) []float64 {
	active := false
	switch zp.Rule {
	case PinkyEdgeAllRows:
		active = true
	case PinkyEdgeBelowRow:
		active = row > zp.HomeRow
	}
	if !active {
		return bounds
	}
	out := append([]float64(nil), bounds...)
	out[0] = homes[LPinky].X + pinkyHomeEpsilon
	out[len(out)-1] = homes[RPinky].X
	return out
}

// FingerForX returns the finger responsible for an absolute x
// coordinate (in u) on the given row. Row RowThumb is special-cased to
// a plain left/right split between the two thumbs.
func (zp ZonePolicy) FingerForX(homes map[Finger]Point, row int, x float64) Finger {
	if row == RowThumb {
		mid := (homes[LThumb].X + homes[RThumb].X) / 2.0
		if x < mid {
			return LThumb
		}
		return RThumb
	}

	bounds := zp.widen(boundariesU(homes), homes, row)
	for i, b := range bounds {
		if x < b {
			return nonThumbFingerOrder[i]
		}
	}
	return nonThumbFingerOrder[len(nonThumbFingerOrder)-1]
}
