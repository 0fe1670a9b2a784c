package keycand

import (
	"math"
	"testing"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keys"
)

func TestDirectionalEffectiveWidthIsPlainWidthOnAxis(t *testing.T) {
	w := directionalEffectiveWidth(1.5, 1.0, 0.0)
	if math.Abs(w-1.5) > 1e-9 {
		t.Errorf("effective width along x-axis = %v, want 1.5", w)
	}
	h := directionalEffectiveWidth(1.5, 1.0, math.Pi/2)
	if math.Abs(h-1.0) > 1e-9 {
		t.Errorf("effective width along y-axis = %v, want 1.0", h)
	}
}

func TestFittsTimeIncreasesWithDistance(t *testing.T) {
	near := fittsTime(10, 19, 50, 140)
	far := fittsTime(100, 19, 50, 140)
	if far <= near {
		t.Errorf("fittsTime(100,...) = %v should exceed fittsTime(10,...) = %v", far, near)
	}
}

func TestComputeFittsTimeIsBaseTermAtHome(t *testing.T) {
	coeffs := DefaultFittsCoefficients()
	home := geometry.Point{X: 5, Y: 2}
	cost, err := ComputeFittsTime(geometry.LIndex, home, home, 1.0, geometry.DefaultU2MM, coeffs, true)
	if err != nil {
		t.Fatal(err)
	}
	want := coeffs[geometry.LIndex].A
	if math.Abs(cost-want) > 1e-6 {
		t.Errorf("cost at home = %v, want exactly a_f = %v", cost, want)
	}
}

func TestComputeFittsTimeUnknownFinger(t *testing.T) {
	if _, err := ComputeFittsTime(geometry.Finger(999), geometry.Point{}, geometry.Point{}, 1.0, geometry.DefaultU2MM, FittsCoefficients{}, false); err == nil {
		t.Fatal("expected error for missing finger coefficient")
	}
}

// TestComputeFittsTimeDirectionalDiffersFromPlain asserts the ellipse
// approximation and the plain Weff=widthU path actually diverge for an
// off-axis approach on a non-square key.
func TestComputeFittsTimeDirectionalDiffersFromPlain(t *testing.T) {
	coeffs := DefaultFittsCoefficients()
	home := geometry.Point{X: 0, Y: 0}
	// off-axis approach to a 2u-wide key: the ellipse radius along the
	// roughly 34-degree direction to (3,2) differs from the plain 2.0u
	// width.
	center := geometry.Point{X: 3, Y: 2}

	directional, err := ComputeFittsTime(geometry.LIndex, center, home, 2.0, geometry.DefaultU2MM, coeffs, true)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := ComputeFittsTime(geometry.LIndex, center, home, 2.0, geometry.DefaultU2MM, coeffs, false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(directional-plain) < 1e-6 {
		t.Errorf("directional (%v) and plain (%v) costs should differ for an off-axis approach to a non-square key", directional, plain)
	}
}

func TestEnumerateArrowBlocksSkipsOccupiedCells(t *testing.T) {
	g, err := geometry.Build(geometry.RowStagger, geometry.MaxRows)
	if err != nil {
		t.Fatal(err)
	}
	blocks := EnumerateArrowBlocks(g)
	if len(blocks) == 0 {
		t.Fatal("expected at least one arrow block")
	}
	for _, b := range blocks {
		for _, cell := range b.CoverCells {
			if g.Occupied(cell) {
				t.Fatalf("arrow block %+v covers an occupied cell %+v", b.ID, cell)
			}
		}
	}
}

func TestAdjacencyEdgesAreCanonicalAndDeduplicated(t *testing.T) {
	g, err := geometry.Build(geometry.RowStagger, geometry.MaxRows)
	if err != nil {
		t.Fatal(err)
	}
	blocks := EnumerateArrowBlocks(g)
	edges := AdjacencyEdges(blocks)

	seen := map[[2]int]bool{}
	for _, e := range edges {
		if e[0] >= e[1] {
			t.Fatalf("edge %v not in canonical (i<j) order", e)
		}
		if seen[e] {
			t.Fatalf("duplicate edge %v", e)
		}
		seen[e] = true
	}
}

func TestEnumerateRegularRespectsEdgeAlignment(t *testing.T) {
	g, err := geometry.Build(geometry.RowStagger, geometry.MaxRows)
	if err != nil {
		t.Fatal(err)
	}
	coeffs := DefaultFittsCoefficients()
	tab := keys.KeyID{Kind: keys.KindTab}

	all, err := EnumerateRegular(g, []keys.KeyID{tab}, coeffs, geometry.DefaultU2MM, EnumerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	leftOnly, err := EnumerateRegular(g, []keys.KeyID{tab}, coeffs, geometry.DefaultU2MM, EnumerateOptions{AlignLeftEdge: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(leftOnly) >= len(all) {
		t.Errorf("left-aligned candidates (%d) should be fewer than unrestricted (%d)", len(leftOnly), len(all))
	}
	for _, c := range leftOnly {
		if c.CoverCells[0].Col != c.StartCol {
			t.Fatalf("left-aligned candidate inconsistent cover cells: %+v", c)
		}
	}
}

func TestEnumerateRegularOneUKeysHaveSingleWidth(t *testing.T) {
	g, err := geometry.Build(geometry.RowStagger, geometry.MaxRows)
	if err != nil {
		t.Fatal(err)
	}
	coeffs := DefaultFittsCoefficients()
	digit := keys.KeyID{Kind: keys.KindDigit, N: 1}

	cands, err := EnumerateRegular(g, []keys.KeyID{digit}, coeffs, geometry.DefaultU2MM, EnumerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate for a digit key")
	}
	for _, c := range cands {
		if c.WidthU != 1.0 {
			t.Errorf("digit candidate width = %v, want 1.0", c.WidthU)
		}
	}
}
