package bnbsolve

import (
	"context"
	"testing"
	"time"

	"github.com/rbscholtus/kbopt/internal/milp"
)

func TestSolveSimpleKnapsack(t *testing.T) {
	b := New()
	x0 := b.AddBinary("x0")
	x1 := b.AddBinary("x1")
	x2 := b.AddBinary("x2")

	// at most one of the three may be chosen
	c := milp.NewLinExpr().Add(x0, 1).Add(x1, 1).Add(x2, 1)
	b.AddConstraint(milp.Constraint{Expr: c, Op: milp.LE, RHS: 1})

	// minimise -(2*x0 + 5*x1 + 3*x2): picking x1 alone is optimal
	obj := milp.NewLinExpr().Add(x0, -2).Add(x1, -5).Add(x2, -3)

	sol, err := b.Solve(context.Background(), obj, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != milp.StatusOptimal {
		t.Fatalf("status = %v, want StatusOptimal", sol.Status)
	}
	if got := sol.Values[x1]; got < 0.999 {
		t.Errorf("x1 = %v, want ~1", got)
	}
	if got := sol.Values[x0]; got > 0.001 {
		t.Errorf("x0 = %v, want ~0", got)
	}
	if got := sol.Values[x2]; got > 0.001 {
		t.Errorf("x2 = %v, want ~0", got)
	}
	if sol.ObjectiveMS > -4.999 {
		t.Errorf("objective = %v, want ~-5", sol.ObjectiveMS)
	}
}

func TestSolveInfeasible(t *testing.T) {
	b := New()
	x0 := b.AddBinary("x0")

	c1 := milp.NewLinExpr().Add(x0, 1)
	b.AddConstraint(milp.Constraint{Expr: c1, Op: milp.GE, RHS: 1})
	c2 := milp.NewLinExpr().Add(x0, 1)
	b.AddConstraint(milp.Constraint{Expr: c2, Op: milp.LE, RHS: 0})

	obj := milp.NewLinExpr().Add(x0, 1)
	sol, err := b.Solve(context.Background(), obj, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != milp.StatusInfeasible {
		t.Errorf("status = %v, want StatusInfeasible", sol.Status)
	}
}

func TestSolveEqualityAndContinuous(t *testing.T) {
	b := New()
	x0 := b.AddBinary("x0")
	f0 := b.AddContinuousNonNeg("f0")

	// f0 = 3*x0, x0 = 1 forced
	eq1 := milp.NewLinExpr().Add(x0, 1)
	b.AddConstraint(milp.Constraint{Expr: eq1, Op: milp.EQ, RHS: 1})
	eq2 := milp.NewLinExpr().Add(f0, 1).Add(x0, -3)
	b.AddConstraint(milp.Constraint{Expr: eq2, Op: milp.EQ, RHS: 0})

	obj := milp.NewLinExpr().Add(f0, 1)
	sol, err := b.Solve(context.Background(), obj, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Status != milp.StatusOptimal {
		t.Fatalf("status = %v, want StatusOptimal", sol.Status)
	}
	if got := sol.Values[f0]; got < 2.999 || got > 3.001 {
		t.Errorf("f0 = %v, want 3", got)
	}
}

func TestSolveNoVariables(t *testing.T) {
	b := New()
	_, err := b.Solve(context.Background(), milp.NewLinExpr(), time.Second)
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}
