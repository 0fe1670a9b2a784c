package keycand

import (
	"sort"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keys"
)

// freeRun is a maximal contiguous span of unoccupied cells on one
// physical row.
type freeRun struct {
	row, start, length int
}

// freeRuns scans a geometry for every maximal run of unoccupied cells,
// row by row.
func freeRuns(g *geometry.Geometry) []freeRun {
	var runs []freeRun
	for row := 0; row < g.NumRows(); row++ {
		start := -1
		for col := 0; col < g.NumCellCols(); col++ {
			occupied := g.Occupied(geometry.CellID{Row: row, Col: col})
			if !occupied && start == -1 {
				start = col
			}
			if occupied && start != -1 {
				runs = append(runs, freeRun{row: row, start: start, length: col - start})
				start = -1
			}
		}
		if start != -1 {
			runs = append(runs, freeRun{row: row, start: start, length: g.NumCellCols() - start})
		}
	}
	return runs
}

// RegularCandidate is one priced placement of a movable key: a
// starting cell, a width, and the Fitts cost of pressing it from its
// covering cells' finger's home position.
type RegularCandidate struct {
	Key        keys.KeyID
	Row        int
	StartCol   int
	WidthU     float64
	CostMS     float64
	CoverCells []geometry.CellID
}

// EnumerateOptions gates which regular-candidate starting columns
// survive: by default every fitting start column within a free run is
// kept, but a configuration may restrict candidates to those flush
// against the run's left and/or right edge. DirectionalWidth selects
// which effective-width formula ComputeFittsTime applies to every
// priced candidate.
type EnumerateOptions struct {
	AlignLeftEdge    bool
	AlignRightEdge   bool
	DirectionalWidth bool
}

// EnumerateRegular builds every priced placement candidate for each
// movable key, across every free run of every row.
func EnumerateRegular(g *geometry.Geometry, movable []keys.KeyID, coeffs FittsCoefficients, u2mm float64, opt EnumerateOptions) ([]RegularCandidate, error) {
	runs := freeRuns(g)
	var out []RegularCandidate

	for _, key := range movable {
		widths := keys.AllowedWidths(key)
		for _, run := range runs {
			for i := run.start; i < run.start+run.length; i++ {
				if opt.AlignLeftEdge && i != run.start {
					continue
				}
				for _, w := range widths {
					needCells := int(w / geometry.CellU)
					if i+needCells > run.start+run.length {
						continue
					}
					if opt.AlignRightEdge && i+needCells != run.start+run.length {
						continue
					}

					centerCol := i + needCells/2
					finger := g.FingerAt(geometry.CellID{Row: run.row, Col: centerCol})
					center := g.CellCenterU(run.row, i, needCells)

					home, ok := g.Homes[finger]
					if !ok {
						home = center
					}

					cost, err := ComputeFittsTime(finger, center, home, w, u2mm, coeffs, opt.DirectionalWidth)
					if err != nil {
						return nil, err
					}

					cover := make([]geometry.CellID, needCells)
					for c := 0; c < needCells; c++ {
						cover[c] = geometry.CellID{Row: run.row, Col: i + c}
					}

					out = append(out, RegularCandidate{
						Key:        key,
						Row:        run.row,
						StartCol:   i,
						WidthU:     w,
						CostMS:     cost,
						CoverCells: cover,
					})
				}
			}
		}
	}

	return out, nil
}

// BlockID addresses one 1u arrow block: a physical row and a 1u-wide
// column index (col / CellsPerU).
type BlockID struct {
	Row, BlockCol int
}

// ArrowBlock is one whole, unoccupied 1u cell spanning exactly
// CellsPerU grid columns, eligible to host one of the four arrow
// keys.
type ArrowBlock struct {
	ID         BlockID
	Center     geometry.Point
	CoverCells [geometry.CellsPerU]geometry.CellID
}

// EnumerateArrowBlocks finds every whole 1u block of unoccupied cells.
// A block is eligible only if all CellsPerU cells under it are free;
// partially-occupied blocks (e.g. straddling a letter run's edge) are
// skipped rather than offered as a narrower block, since arrow keys
// are 1u-fixed.
func EnumerateArrowBlocks(g *geometry.Geometry) []ArrowBlock {
	var blocks []ArrowBlock
	for row := 0; row < g.NumRows(); row++ {
		for bcol := 0; bcol*geometry.CellsPerU < g.NumCellCols(); bcol++ {
			startCol := bcol * geometry.CellsPerU
			if startCol+geometry.CellsPerU > g.NumCellCols() {
				break
			}
			allFree := true
			var cover [geometry.CellsPerU]geometry.CellID
			for c := 0; c < geometry.CellsPerU; c++ {
				id := geometry.CellID{Row: row, Col: startCol + c}
				if g.Occupied(id) {
					allFree = false
					break
				}
				cover[c] = id
			}
			if !allFree {
				continue
			}
			blocks = append(blocks, ArrowBlock{
				ID:         BlockID{Row: row, BlockCol: bcol},
				Center:     g.CellCenterU(row, startCol, geometry.CellsPerU),
				CoverCells: cover,
			})
		}
	}
	return blocks
}

// AdjacencyEdges returns the undirected 8-neighbourhood adjacency
// between arrow blocks: two blocks are adjacent if their (row,
// block-column) addresses differ by at most one in each axis. Each
// edge is returned once, as an index pair into blocks with the
// smaller index first.
func AdjacencyEdges(blocks []ArrowBlock) [][2]int {
	index := make(map[BlockID]int, len(blocks))
	for i, b := range blocks {
		index[b.ID] = i
	}

	var edges [][2]int
	for i, b := range blocks {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				neighbor := BlockID{Row: b.ID.Row + dr, BlockCol: b.ID.BlockCol + dc}
				j, ok := index[neighbor]
				if !ok || j <= i {
					continue
				}
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	return edges
}
