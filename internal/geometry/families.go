package geometry

// Row indices, counting row 0 as the thumb row and increasing away
// from the user, per spec.
const (
	RowThumb  = 0
	RowBottom = 1
	RowMiddle = 2
	RowTop    = 3
	RowNumber = 4
	RowFunc   = 5
)

// rowOffsetsU gives the per-row horizontal stagger offset, in u, for a
// family. Index 0 is the thumb row.
func rowOffsetsU(fam Family) [MaxRows]float64 {
	switch fam {
	case RowStagger:
		return [MaxRows]float64{
			RowThumb:  0.00,
			RowBottom: 2.25,
			RowMiddle: 1.75,
			RowTop:    1.50,
			RowNumber: 0.00,
			RowFunc:   0.00,
		}
	case Ortho:
		return [MaxRows]float64{}
	default:
		panic("unreachable family")
	}
}

// letterRunsFor returns the three fixed-letter reservations shared by
// both families: QWERTY top, ASDF middle, ZXCV bottom.
func letterRunsFor() []LetterRun {
	return []LetterRun{
		{Row: RowTop, StartU: 1.50, KeyCount: 10},
		{Row: RowMiddle, StartU: 1.75, KeyCount: 9},
		{Row: RowBottom, StartU: 2.25, KeyCount: 7},
	}
}

// homePositions computes the per-finger home coordinates for a family.
func homePositions(fam Family, offsets [MaxRows]float64) map[Finger]Point {
	homes := make(map[Finger]Point, int(numFingers))

	lThumb, rThumb := 5.5, 9.5
	homes[LThumb] = Point{X: lThumb, Y: RowThumb}
	homes[RThumb] = Point{X: rThumb, Y: RowThumb}

	switch fam {
	case RowStagger:
		// Home row centres, derived from the ASDF/JKL; run start.
		startU := letterRunsFor()[1].StartU // middle row run start, absolute u
		idx := func(n int) Point {
			x := startU + (float64(n)+0.5)*1.0
			return Point{X: x, Y: RowMiddle}
		}
		homes[LPinky] = idx(0)  // A
		homes[LRing] = idx(1)   // S
		homes[LMiddle] = idx(2) // D
		homes[LIndex] = idx(3)  // F
		homes[RIndex] = idx(6)  // J
		homes[RMiddle] = idx(7) // K
		homes[RRing] = idx(8)   // L
		l := idx(8)
		homes[RPinky] = Point{X: l.X + 1.0, Y: RowMiddle} // ;
	case Ortho:
		homes[LPinky] = Point{X: 1.5, Y: RowMiddle}
		homes[LRing] = Point{X: 2.5, Y: RowMiddle}
		homes[LMiddle] = Point{X: 3.5, Y: RowMiddle}
		homes[LIndex] = Point{X: 4.5, Y: RowMiddle}
		homes[RIndex] = Point{X: 6.5, Y: RowMiddle}
		homes[RMiddle] = Point{X: 7.5, Y: RowMiddle}
		homes[RRing] = Point{X: 8.5, Y: RowMiddle}
		homes[RPinky] = Point{X: 9.5, Y: RowMiddle}
	default:
		panic("unreachable family")
	}

	return homes
}
