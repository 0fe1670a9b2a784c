package solve

import (
	"context"
	"testing"
	"time"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
	"github.com/rbscholtus/kbopt/internal/milp"
	"github.com/rbscholtus/kbopt/internal/milp/bnbsolve"
)

func buildTinyModel(t *testing.T) (*milp.Model, *bnbsolve.Backend) {
	t.Helper()

	g, err := geometry.Build(geometry.Ortho, geometry.MinRows)
	if err != nil {
		t.Fatalf("geometry.Build: %v", err)
	}

	movable := []keys.KeyID{
		{Kind: keys.KindSymbol, Symbol: keys.Backtick},
	}

	coeffs := keycand.DefaultFittsCoefficients()
	cands, err := keycand.EnumerateRegular(g, movable, coeffs, 19.05, keycand.EnumerateOptions{})
	if err != nil {
		t.Fatalf("EnumerateRegular: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected at least one regular candidate")
	}

	blocks := keycand.EnumerateArrowBlocks(g)
	if len(blocks) < milp.RequiredArrowBlocks {
		t.Fatalf("need at least %d arrow blocks, got %d", milp.RequiredArrowBlocks, len(blocks))
	}
	edges := keycand.AdjacencyEdges(blocks)

	backend := bnbsolve.New()
	probs := map[keys.KeyID]float64{movable[0]: 1.0}
	for _, dir := range keys.AllDirections() {
		probs[keys.KeyID{Kind: keys.KindArrow, Arrow: dir}] = 0.25
	}

	b := &milp.Builder{
		Backend:       backend,
		Geometry:      g,
		RegularCands:  cands,
		Blocks:        blocks,
		Edges:         edges,
		Probabilities: probs,
		Coeffs:        coeffs,
		U2MM:          19.05,
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m, backend
}

func TestRunProducesCompleteSolution(t *testing.T) {
	m, backend := buildTinyModel(t)

	sol, err := Run(context.Background(), backend, m, 5*time.Second, DefaultThreshold)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	seen := make(map[keys.KeyID]bool)
	for _, p := range sol.Placements {
		seen[p.Key] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected exactly 1 distinct key placed, got %d", len(seen))
	}

	if len(sol.Arrows) != 4 {
		t.Fatalf("expected 4 arrow assignments, got %d", len(sol.Arrows))
	}
	seenBlocks := make(map[keycand.BlockID]bool)
	for _, a := range sol.Arrows {
		if seenBlocks[a.Block] {
			t.Errorf("block %v assigned to more than one direction", a.Block)
		}
		seenBlocks[a.Block] = true
	}
}

func TestRunRejectsImpossibleModel(t *testing.T) {
	g, err := geometry.Build(geometry.Ortho, geometry.MinRows)
	if err != nil {
		t.Fatalf("geometry.Build: %v", err)
	}
	blocks := keycand.EnumerateArrowBlocks(g)
	edges := keycand.AdjacencyEdges(blocks)

	backend := bnbsolve.New()
	movable := []keys.KeyID{{Kind: keys.KindSymbol, Symbol: keys.Backtick}}
	cands, err := keycand.EnumerateRegular(g, movable, keycand.DefaultFittsCoefficients(), 19.05, keycand.EnumerateOptions{})
	if err != nil {
		t.Fatalf("EnumerateRegular: %v", err)
	}

	b := &milp.Builder{
		Backend:       backend,
		Geometry:      g,
		RegularCands:  cands,
		Blocks:        blocks,
		Edges:         edges,
		Probabilities: map[keys.KeyID]float64{movable[0]: 1.0},
		Coeffs:        keycand.DefaultFittsCoefficients(),
		U2MM:          19.05,
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// uniqueness already forces sum(x) == 1 for the one key in play;
	// adding sum(x) == 0 directly contradicts it.
	e := milp.NewLinExpr()
	for _, v := range m.XVars {
		e = e.Add(v, 1)
	}
	backend.AddConstraint(milp.Constraint{Expr: e, Op: milp.EQ, RHS: 0})

	_, err = Run(context.Background(), backend, m, 5*time.Second, DefaultThreshold)
	if err == nil {
		t.Fatal("expected infeasibility error")
	}
	optErr, ok := err.(*milp.OptError)
	if !ok {
		t.Fatalf("expected *milp.OptError, got %T", err)
	}
	if optErr.Kind != milp.KindInfeasibleModel {
		t.Errorf("Kind = %v, want KindInfeasibleModel", optErr.Kind)
	}
}
