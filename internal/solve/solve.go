// Package solve decodes a raw MILP backend answer into a concrete
// layout: which placement candidate each movable key occupies, and
// which arrow block carries which direction. It also owns the
// cancellation and time-limit plumbing that wraps one Backend.Solve
// call.
package solve

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
	"github.com/rbscholtus/kbopt/internal/milp"
)

// DefaultThreshold is how close a binary variable's relaxed value must
// sit to 1 to be read back as "chosen", absent a configuration
// override.
const DefaultThreshold = 0.5

// integralityTol is how far from 0 or 1 a binary variable may sit and
// still be accepted as a clean decision rather than rejected as
// non-integral.
const integralityTol = 1e-4

func isIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= integralityTol
}

// Placement is one movable key's resolved position.
type Placement struct {
	Key      keys.KeyID
	Row      int
	StartCol int
	WidthU   float64
}

// ArrowAssignment is one arrow direction's resolved block.
type ArrowAssignment struct {
	Direction keys.Direction
	Block     keycand.BlockID
}

// Solution is the fully decoded answer: every movable key's
// placement, every arrow direction's block, and the objective value
// the backend reported (total expected press time, in milliseconds).
type Solution struct {
	Placements  []Placement
	Arrows      []ArrowAssignment
	ObjectiveMS float64
}

// Run solves m against backend, decodes the raw answer, and returns
// the resulting Solution. ctx and timeLimit bound how long the
// backend may search; Run returns a KindSolverTimeout *milp.OptError
// if the backend exhausts timeLimit without reaching an integral,
// optimal answer. threshold is how close a binary variable's relaxed
// value must sit to 1 to be read back as "chosen"; callers with no
// configured override should pass DefaultThreshold.
func Run(ctx context.Context, backend milp.Backend, m *milp.Model, timeLimit time.Duration, threshold float64) (*Solution, error) {
	raw, err := backend.Solve(ctx, m.Objective, timeLimit)
	if err != nil {
		return nil, err
	}

	switch raw.Status {
	case milp.StatusInfeasible:
		return nil, milp.InfeasibleModelError("backend proved no feasible layout exists")
	case milp.StatusTimeout:
		return nil, milp.SolverTimeoutError("backend exhausted its time budget before proving optimality")
	case milp.StatusError:
		return nil, milp.SolverError("backend reported an internal error", nil)
	case milp.StatusOptimal:
		// fall through to decoding
	default:
		return nil, milp.SolverError(fmt.Sprintf("unrecognised backend status %v", raw.Status), nil)
	}

	return decode(m, raw, threshold)
}

// decode reads raw.Values back into a Solution, rejecting any model
// whose binary variables did not settle cleanly on either side of
// threshold.
func decode(m *milp.Model, raw milp.RawSolution, threshold float64) (*Solution, error) {
	sol := &Solution{ObjectiveMS: raw.ObjectiveMS}

	for i, cand := range m.RegularCands {
		v, ok := raw.Values[m.XVars[i]]
		if !ok {
			return nil, milp.SolverError(fmt.Sprintf("backend omitted x_%d from its solution", i), nil)
		}
		if !isIntegral(v) {
			return nil, milp.NonIntegralSolutionError(fmt.Sprintf("x_%d settled at %.6f, not near 0 or 1", i, v))
		}
		if v > threshold {
			sol.Placements = append(sol.Placements, Placement{
				Key:      cand.Key,
				Row:      cand.Row,
				StartCol: cand.StartCol,
				WidthU:   cand.WidthU,
			})
		}
	}

	for _, dir := range keys.AllDirections() {
		chosen := -1
		for u := range m.Blocks {
			v, ok := raw.Values[m.MVar(dir, u)]
			if !ok {
				return nil, milp.SolverError(fmt.Sprintf("backend omitted m_%v_%d from its solution", dir, u), nil)
			}
			if !isIntegral(v) {
				return nil, milp.NonIntegralSolutionError(fmt.Sprintf("m_%v_%d settled at %.6f, not near 0 or 1", dir, u, v))
			}
			if v > threshold {
				if chosen != -1 {
					return nil, milp.NonIntegralSolutionError(fmt.Sprintf("direction %v assigned to more than one block", dir))
				}
				chosen = u
			}
		}
		if chosen == -1 {
			return nil, milp.NonIntegralSolutionError(fmt.Sprintf("direction %v was not assigned any block", dir))
		}
		sol.Arrows = append(sol.Arrows, ArrowAssignment{
			Direction: dir,
			Block:     m.Blocks[chosen].ID,
		})
	}

	return sol, nil
}

