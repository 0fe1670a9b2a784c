package milp

import (
	"fmt"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
)

// minFrequency is substituted for a key whose observed frequency is
// zero, so the model still has a (small) incentive to place it well
// rather than treating its cost as free.
const minFrequency = 1e-6

// RequiredArrowBlocks is the fixed number of adjacent 1u blocks the
// arrow cluster must occupy.
const RequiredArrowBlocks = 4

// MaxFlowPerBlock caps the single-commodity flow on each arc leaving a
// block: up to this many units when the block is occupied, none when
// it is not. The value 3 matches RequiredArrowBlocks-1, the flow the
// root must send out to the other three blocks.
const MaxFlowPerBlock = 3.0

// Model is the fully-built MILP: every declared variable, indexed so
// that internal/solve can read a RawSolution back into key placements
// and an arrow-block assignment.
type Model struct {
	RegularCands []keycand.RegularCandidate
	Blocks       []keycand.ArrowBlock
	Edges        [][2]int // undirected adjacency, as supplied to Builder

	XVars []VarRef        // one per RegularCands entry
	AVars []VarRef        // one per Blocks entry
	MVars map[mKey]VarRef // (direction, block index) -> var
	RVars []VarRef        // one per Blocks entry

	// FVars holds one non-negative flow variable per directed arc:
	// each undirected edge in Edges contributes two arcs, one in
	// each direction, since the flow may traverse it either way
	// depending on where the root block ends up.
	FVars    []VarRef
	arcFrom  []int
	arcTo    []int

	Objective LinExpr
}

// mKey indexes MVars.
type mKey struct {
	Dir   keys.Direction
	Block int
}

// MVar returns the decision variable for assigning direction dir to
// arrow block index u, so callers outside this package (internal/solve)
// never need to name the unexported mKey type themselves.
func (m *Model) MVar(dir keys.Direction, u int) VarRef {
	return m.MVars[mKey{Dir: dir, Block: u}]
}

// Builder assembles a Model against a Backend from priced candidates,
// arrow blocks and their adjacency, and observed key frequencies.
type Builder struct {
	Backend       Backend
	Geometry      *geometry.Geometry
	RegularCands  []keycand.RegularCandidate
	Blocks        []keycand.ArrowBlock
	Edges         [][2]int
	Probabilities map[keys.KeyID]float64
	Coeffs        keycand.FittsCoefficients
	U2MM          float64
	// DirectionalWidth selects which effective-width formula prices
	// the arrow cluster's blocks, matching whichever formula the
	// caller already used to price RegularCands.
	DirectionalWidth bool
	// ForceDigits forces every digit key's uniqueness constraint to
	// "= 1" even at zero observed frequency, instead of the default
	// "<= 1" that lets an unused digit go unplaced.
	ForceDigits bool
}

// Build declares every variable and constraint against b.Backend and
// returns the assembled Model, ready for Backend.Solve.
func (b *Builder) Build() (*Model, error) {
	if len(b.RegularCands) == 0 {
		return nil, ConfigError("no regular placement candidates", nil)
	}
	if len(b.Blocks) < RequiredArrowBlocks {
		return nil, ConfigError(fmt.Sprintf("only %d arrow blocks available, need at least %d", len(b.Blocks), RequiredArrowBlocks), nil)
	}
	hasCand := make(map[keys.KeyID]bool)
	for _, cand := range b.RegularCands {
		hasCand[cand.Key] = true
	}
	for k, p := range b.Probabilities {
		if p > 0 && k.Kind != keys.KindArrow && !hasCand[k] {
			return nil, InfeasibleModelError(fmt.Sprintf("no placement candidate for key %v", k))
		}
	}

	m := &Model{
		RegularCands: b.RegularCands,
		Blocks:       b.Blocks,
		Edges:        b.Edges,
		MVars:        make(map[mKey]VarRef),
	}

	for i := range b.RegularCands {
		m.XVars = append(m.XVars, b.Backend.AddBinary(fmt.Sprintf("x_%d", i)))
	}
	for i := range b.Blocks {
		m.AVars = append(m.AVars, b.Backend.AddBinary(fmt.Sprintf("a_%d", i)))
	}
	for _, dir := range keys.AllDirections() {
		for u := range b.Blocks {
			m.MVars[mKey{Dir: dir, Block: u}] = b.Backend.AddBinary(fmt.Sprintf("m_%v_%d", dir, u))
		}
	}
	for i := range b.Blocks {
		m.RVars = append(m.RVars, b.Backend.AddBinary(fmt.Sprintf("r_%d", i)))
	}
	for _, e := range b.Edges {
		m.arcFrom = append(m.arcFrom, e[0], e[1])
		m.arcTo = append(m.arcTo, e[1], e[0])
	}
	for i := range m.arcFrom {
		m.FVars = append(m.FVars, b.Backend.AddContinuousNonNeg(fmt.Sprintf("f_%d", i)))
	}

	obj, err := b.objective(m)
	if err != nil {
		return nil, err
	}
	m.Objective = obj

	b.addUniquenessConstraints(m)
	b.addCellCoverageConstraints(m)
	b.addArrowConstraints(m)
	b.addFlowConstraints(m)

	return m, nil
}

func (b *Builder) prob(k keys.KeyID) float64 {
	p := b.Probabilities[k]
	if p <= 0 {
		return minFrequency
	}
	return p
}

// objective is sum(p_k * cost_k * x_k) over regular candidates plus
// sum(p_d * cost_u * m_{d,u}) over arrow-block assignments.
func (b *Builder) objective(m *Model) (LinExpr, error) {
	obj := NewLinExpr()

	for i, cand := range b.RegularCands {
		obj = obj.Add(m.XVars[i], b.prob(cand.Key)*cand.CostMS)
	}

	for u, blk := range b.Blocks {
		centerCell := blk.CoverCells[len(blk.CoverCells)/2]
		finger := b.Geometry.FingerAt(centerCell)
		home, ok := b.Geometry.Homes[finger]
		if !ok {
			home = blk.Center
		}
		cost, err := keycand.ComputeFittsTime(finger, blk.Center, home, 1.0, b.U2MM, b.Coeffs, b.DirectionalWidth)
		if err != nil {
			return LinExpr{}, ConfigError("arrow block cost", err)
		}
		for _, dir := range keys.AllDirections() {
			arrowKey := keys.KeyID{Kind: keys.KindArrow, Arrow: dir}
			v := m.MVars[mKey{Dir: dir, Block: u}]
			obj = obj.Add(v, b.prob(arrowKey)*cost)
		}
	}

	return obj, nil
}

// addUniquenessConstraints enforces sum_j x_{k,j} = 1 for every
// movable key with positive observed frequency (or a digit key when
// ForceDigits is set), sum_j x_{k,j} <= 1 for every other key (it may
// be omitted rather than forced onto the board), and sum_u m_{d,u} = 1
// for every arrow direction.
func (b *Builder) addUniquenessConstraints(m *Model) {
	byKey := make(map[keys.KeyID][]int)
	for i, cand := range b.RegularCands {
		byKey[cand.Key] = append(byKey[cand.Key], i)
	}
	for key, idxs := range byKey {
		e := NewLinExpr()
		for _, i := range idxs {
			e = e.Add(m.XVars[i], 1)
		}
		if b.Probabilities[key] > 0 || (b.ForceDigits && key.Kind == keys.KindDigit) {
			b.Backend.AddConstraint(Constraint{Expr: e, Op: EQ, RHS: 1, Name: "key_unique"})
		} else {
			b.Backend.AddConstraint(Constraint{Expr: e, Op: LE, RHS: 1, Name: "key_optional"})
		}
	}

	for _, dir := range keys.AllDirections() {
		e := NewLinExpr()
		for u := range b.Blocks {
			e = e.Add(m.MVars[mKey{Dir: dir, Block: u}], 1)
		}
		b.Backend.AddConstraint(Constraint{Expr: e, Op: EQ, RHS: 1, Name: "arrow_dir_unique"})
	}
}

// addCellCoverageConstraints enforces that every cell is covered by
// at most one of: a fixed letter reservation, a regular candidate's
// chosen placement, or an arrow block's occupancy.
func (b *Builder) addCellCoverageConstraints(m *Model) {
	coverX := make(map[geometry.CellID][]int)
	for i, cand := range b.RegularCands {
		for _, c := range cand.CoverCells {
			coverX[c] = append(coverX[c], i)
		}
	}
	coverA := make(map[geometry.CellID][]int)
	for u, blk := range b.Blocks {
		for _, c := range blk.CoverCells {
			coverA[c] = append(coverA[c], u)
		}
	}

	seen := make(map[geometry.CellID]bool)
	for c := range coverX {
		seen[c] = true
	}
	for c := range coverA {
		seen[c] = true
	}

	for c := range seen {
		fixed := 0.0
		if b.Geometry.Occupied(c) {
			fixed = 1.0
		}
		e := NewLinExpr().AddConst(fixed)
		for _, i := range coverX[c] {
			e = e.Add(m.XVars[i], 1)
		}
		for _, u := range coverA[c] {
			e = e.Add(m.AVars[u], 1)
		}
		b.Backend.AddConstraint(Constraint{Expr: e, Op: LE, RHS: 1, Name: "cell_coverage"})
	}
}

// addArrowConstraints links block occupancy to direction assignment
// (a block can only be assigned a direction if it is occupied, and a
// block occupied by the arrow cluster holds at most one direction)
// and fixes the total occupied block count to exactly
// RequiredArrowBlocks.
func (b *Builder) addArrowConstraints(m *Model) {
	for u := range b.Blocks {
		e := NewLinExpr()
		for _, dir := range keys.AllDirections() {
			e = e.Add(m.MVars[mKey{Dir: dir, Block: u}], 1)
		}
		e = e.Add(m.AVars[u], -1)
		b.Backend.AddConstraint(Constraint{Expr: e, Op: LE, RHS: 0, Name: "block_occupied_if_assigned"})
	}

	total := NewLinExpr()
	for u := range b.Blocks {
		total = total.Add(m.AVars[u], 1)
	}
	b.Backend.AddConstraint(Constraint{Expr: total, Op: EQ, RHS: RequiredArrowBlocks, Name: "exactly_four_blocks"})
}

// addFlowConstraints enforces that the occupied blocks form a single
// connected component: exactly one flow root, per-block flow balance
// against occupancy, and a capacity limit per edge.
func (b *Builder) addFlowConstraints(m *Model) {
	sumR := NewLinExpr()
	for u := range b.Blocks {
		sumR = sumR.Add(m.RVars[u], 1)
	}
	b.Backend.AddConstraint(Constraint{Expr: sumR, Op: EQ, RHS: 1, Name: "single_flow_root"})

	inArcs := make([][]int, len(b.Blocks))
	outArcs := make([][]int, len(b.Blocks))
	for ai := range m.arcFrom {
		outArcs[m.arcFrom[ai]] = append(outArcs[m.arcFrom[ai]], ai)
		inArcs[m.arcTo[ai]] = append(inArcs[m.arcTo[ai]], ai)
	}

	for u := range b.Blocks {
		e := NewLinExpr()
		for _, ai := range inArcs[u] {
			e = e.Add(m.FVars[ai], 1)
		}
		for _, ai := range outArcs[u] {
			e = e.Add(m.FVars[ai], -1)
		}
		e = e.Add(m.AVars[u], -1)
		e = e.Add(m.RVars[u], RequiredArrowBlocks)
		b.Backend.AddConstraint(Constraint{Expr: e, Op: EQ, RHS: 0, Name: "flow_balance"})
	}

	for ai := range m.arcFrom {
		c := NewLinExpr().Add(m.FVars[ai], 1).Add(m.AVars[m.arcFrom[ai]], -MaxFlowPerBlock)
		b.Backend.AddConstraint(Constraint{Expr: c, Op: LE, RHS: 0, Name: "flow_capacity"})
	}
}
