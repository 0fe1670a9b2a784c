// Package bnbsolve implements milp.Backend with a branch-and-bound
// search over binary variables, each node's relaxation solved by
// gonum's dense Simplex implementation. No Go MILP-specific solver
// (the ecosystem analogues of HiGHS, CBC, GLPK, or lp_solve) exists
// anywhere in the corpus this module was built from; gonum is the
// numerical library the corpus reaches for instead, so the integer
// layer is hand-rolled around its LP relaxation.
package bnbsolve

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/rbscholtus/kbopt/internal/milp"
)

// integralityTol is how far from 0 or 1 a binary variable's relaxed
// value may sit and still be accepted as integral.
const integralityTol = 1e-6

// relaxTol is the feasibility tolerance passed to the Simplex solver.
const relaxTol = 1e-9

// maxNodes bounds the branch-and-bound search so a pathological model
// cannot spin forever once its time budget is, in practice, the
// dominant stopping condition.
const maxNodes = 200000

// Backend is an in-memory milp.Backend: it records variables and
// constraints as they are declared, then runs branch-and-bound on
// Solve.
type Backend struct {
	names       []string
	isBinary    []bool
	constraints []milp.Constraint
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) AddBinary(name string) milp.VarRef {
	id := milp.VarRef(len(b.names))
	b.names = append(b.names, name)
	b.isBinary = append(b.isBinary, true)
	return id
}

func (b *Backend) AddContinuousNonNeg(name string) milp.VarRef {
	id := milp.VarRef(len(b.names))
	b.names = append(b.names, name)
	b.isBinary = append(b.isBinary, false)
	return id
}

func (b *Backend) AddConstraint(c milp.Constraint) {
	b.constraints = append(b.constraints, c)
}

// bounds is a node's per-variable [lower, upper] box, layered on top
// of every variable's base bound (binary: [0,1], continuous: [0,+Inf)).
type bounds struct {
	lo, hi []float64
}

func (b *Backend) baseBounds() bounds {
	n := len(b.names)
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := range lo {
		lo[i] = 0
		if b.isBinary[i] {
			hi[i] = 1
		} else {
			hi[i] = math.Inf(1)
		}
	}
	return bounds{lo: lo, hi: hi}
}

func (bd bounds) clone() bounds {
	return bounds{lo: append([]float64(nil), bd.lo...), hi: append([]float64(nil), bd.hi...)}
}

// node is one item of branch-and-bound work: a variable bound box and
// the LP bound inherited from its parent (used to prune without
// re-solving).
type node struct {
	bd        bounds
	parentObj float64
}

func (b *Backend) Solve(ctx context.Context, objective milp.LinExpr, timeLimit time.Duration) (milp.RawSolution, error) {
	n := len(b.names)
	if n == 0 {
		return milp.RawSolution{}, milp.ConfigError("no variables declared", nil)
	}

	deadline := time.Now().Add(timeLimit)

	stack := []node{{bd: b.baseBounds(), parentObj: math.Inf(-1)}}

	var incumbent []float64
	incumbentObj := math.Inf(1)
	nodesExplored := 0
	sawInfeasibleRoot := false
	timedOut := false

rootLoop:
	for len(stack) > 0 {
		if nodesExplored >= maxNodes {
			break
		}
		select {
		case <-ctx.Done():
			timedOut = true
			break rootLoop
		default:
		}
		if time.Now().After(deadline) {
			timedOut = true
			break rootLoop
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodesExplored++

		if cur.parentObj >= incumbentObj-1e-9 {
			continue
		}

		status, x, obj, err := b.solveRelaxation(objective, cur.bd)
		if err != nil {
			return milp.RawSolution{}, milp.SolverError("LP relaxation failed", err)
		}
		if nodesExplored == 1 && status != lpOptimal {
			sawInfeasibleRoot = true
		}
		if status != lpOptimal {
			continue
		}
		if obj >= incumbentObj-1e-9 {
			continue
		}

		branchVar := mostFractionalBinary(b.isBinary, x)
		if branchVar == -1 {
			incumbent = x
			incumbentObj = obj
			continue
		}

		floorBD := cur.bd.clone()
		floorBD.hi[branchVar] = math.Floor(x[branchVar])
		ceilBD := cur.bd.clone()
		ceilBD.lo[branchVar] = math.Ceil(x[branchVar])

		stack = append(stack, node{bd: ceilBD, parentObj: obj}, node{bd: floorBD, parentObj: obj})
	}

	if incumbent == nil {
		if timedOut {
			return milp.RawSolution{Status: milp.StatusTimeout}, nil
		}
		if sawInfeasibleRoot {
			return milp.RawSolution{Status: milp.StatusInfeasible}, nil
		}
		return milp.RawSolution{Status: milp.StatusInfeasible}, nil
	}

	values := make(map[milp.VarRef]float64, n)
	for i, v := range incumbent {
		values[milp.VarRef(i)] = v
	}

	status := milp.StatusOptimal
	if timedOut {
		status = milp.StatusTimeout
	}

	return milp.RawSolution{Status: status, Values: values, ObjectiveMS: incumbentObj}, nil
}

const (
	lpOptimal = iota
	lpInfeasible
)

// mostFractionalBinary returns the index of the binary variable
// furthest from an integer value, or -1 if every binary variable is
// already integral within integralityTol.
func mostFractionalBinary(isBinary []bool, x []float64) int {
	best := -1
	bestFrac := integralityTol
	for i, bin := range isBinary {
		if !bin {
			continue
		}
		frac := math.Abs(x[i] - math.Round(x[i]))
		if frac > bestFrac {
			bestFrac = frac
			best = i
		}
	}
	return best
}

// solveRelaxation solves the LP relaxation of the model restricted to
// bd, via gonum's dense Simplex, which requires standard equality
// form (Ax = b, x >= 0): every declared constraint and every finite
// variable bound is converted into an equality by adding a slack or
// surplus variable.
func (b *Backend) solveRelaxation(objective milp.LinExpr, bd bounds) (status int, x []float64, obj float64, err error) {
	n := len(b.names)

	type row struct {
		coeffs map[int]float64
		rhs    float64
	}
	var rows []row

	addRow := func(e milp.LinExpr, op milp.Op, rhs float64) {
		coeffs := make(map[int]float64, len(e.Coeffs)+1)
		for v, c := range e.Coeffs {
			coeffs[int(v)] = c
		}
		r := rhs - e.Const
		switch op {
		case milp.EQ:
			rows = append(rows, row{coeffs: coeffs, rhs: r})
		case milp.LE:
			slackCoeffs := cloneCoeffs(coeffs)
			slackCoeffs[-1] = 1 // placeholder, replaced with real slack index below
			rows = append(rows, row{coeffs: slackCoeffs, rhs: r})
		case milp.GE:
			slackCoeffs := cloneCoeffs(coeffs)
			slackCoeffs[-1] = -1
			rows = append(rows, row{coeffs: slackCoeffs, rhs: r})
		}
	}

	for _, c := range b.constraints {
		addRow(c.Expr, c.Op, c.RHS)
	}
	for i := 0; i < n; i++ {
		if bd.lo[i] > 0 {
			e := milp.NewLinExpr().Add(milp.VarRef(i), 1)
			addRow(e, milp.GE, bd.lo[i])
		}
		if !math.IsInf(bd.hi[i], 1) {
			e := milp.NewLinExpr().Add(milp.VarRef(i), 1)
			addRow(e, milp.LE, bd.hi[i])
		}
	}

	slackCount := 0
	for i := range rows {
		if _, needsSlack := rows[i].coeffs[-1]; needsSlack {
			slackCount++
		}
	}

	totalCols := n + slackCount
	A := mat.NewDense(len(rows), totalCols, nil)
	bVec := make([]float64, len(rows))
	nextSlack := n
	for ri, r := range rows {
		for vi, coeff := range r.coeffs {
			if vi == -1 {
				continue
			}
			A.Set(ri, vi, coeff)
		}
		if sign, ok := r.coeffs[-1]; ok {
			A.Set(ri, nextSlack, sign)
			nextSlack++
		}
		bVec[ri] = r.rhs
	}

	c := make([]float64, totalCols)
	for v, coeff := range objective.Coeffs {
		c[int(v)] = coeff
	}

	// gonum's Simplex requires b >= 0 for its phase-1 initial basis;
	// flip any negative row so its RHS is non-negative.
	for ri := 0; ri < len(rows); ri++ {
		if bVec[ri] < 0 {
			bVec[ri] = -bVec[ri]
			for ci := 0; ci < totalCols; ci++ {
				A.Set(ri, ci, -A.At(ri, ci))
			}
		}
	}

	optF, optX, lpErr := lp.Simplex(nil, c, A, bVec, relaxTol)
	if lpErr != nil {
		return lpInfeasible, nil, 0, nil
	}

	return lpOptimal, optX[:n], optF, nil
}

func cloneCoeffs(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
