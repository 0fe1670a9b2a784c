// Package tune searches the per-finger Fitts'-law coefficient space
// for the table that minimises total expected key-press time, by
// running a full, independent MILP solve for every coefficient table
// it tries. It repurposes the teacher's simulated-annealing layout
// search (internal/keycraft/optimisation.go) onto a different genome:
// instead of mutating a rune-to-position mapping, it mutates the
// per-finger [a_ms, b_ms] pairs themselves.
package tune

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/MaxHalford/eaopt"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
	"github.com/rbscholtus/kbopt/internal/milp"
	"github.com/rbscholtus/kbopt/internal/solve"
)

// BackendFactory builds a fresh, empty milp.Backend for one
// evaluation. A Backend accumulates state as variables and
// constraints are declared against it, so every candidate coefficient
// table needs its own instance.
type BackendFactory func() milp.Backend

// Context bundles the inputs every coefficient-table evaluation
// shares: the built geometry, the movable key set, the arrow-block
// layout, and observed frequencies. Only the Fitts coefficients
// themselves vary between evaluations.
type Context struct {
	Geometry      *geometry.Geometry
	Movable       []keys.KeyID
	Blocks        []keycand.ArrowBlock
	Edges         [][2]int
	Probabilities map[keys.KeyID]float64
	U2MM          float64
	EnumOptions   keycand.EnumerateOptions
	TimeLimit     time.Duration
	NewBackend    BackendFactory
	// DirectionalWidth and ForceDigits mirror the same-named
	// milp.Builder fields, applied identically to every candidate
	// coefficient table's evaluation.
	DirectionalWidth  bool
	ForceDigits       bool
	SolutionThreshold float64
}

// coeffMutateStep bounds how far Mutate perturbs one coefficient
// relative to its current value.
const coeffMutateStep = 0.15

// minBMS is the floor Mutate enforces on b_ms, which must stay
// strictly positive for the Fitts-law logarithm to be finite.
const minBMS = 1.0

// CoeffGenome is one candidate Fitts-coefficient table, searched by
// eaopt's simulated-annealing model.
type CoeffGenome struct {
	Coeffs keycand.FittsCoefficients
	ctx    *Context
}

// NewCoeffGenome seeds a genome at keycand's published defaults.
func NewCoeffGenome(ctx *Context) *CoeffGenome {
	return &CoeffGenome{
		Coeffs: keycand.DefaultFittsCoefficients(),
		ctx:    ctx,
	}
}

// Evaluate re-enumerates every regular candidate under this genome's
// coefficients, rebuilds the MILP against a fresh backend, and solves
// it to completion. The achieved objective (total expected press time,
// in milliseconds) is the fitness eaopt minimises.
func (g *CoeffGenome) Evaluate() (float64, error) {
	cands, err := keycand.EnumerateRegular(g.ctx.Geometry, g.ctx.Movable, g.Coeffs, g.ctx.U2MM, g.ctx.EnumOptions)
	if err != nil {
		return 0, fmt.Errorf("tune: enumerate candidates: %w", err)
	}

	b := &milp.Builder{
		Backend:          g.ctx.NewBackend(),
		Geometry:         g.ctx.Geometry,
		RegularCands:     cands,
		Blocks:           g.ctx.Blocks,
		Edges:            g.ctx.Edges,
		Probabilities:    g.ctx.Probabilities,
		Coeffs:           g.Coeffs,
		U2MM:             g.ctx.U2MM,
		DirectionalWidth: g.ctx.DirectionalWidth,
		ForceDigits:      g.ctx.ForceDigits,
	}
	model, err := b.Build()
	if err != nil {
		return 0, fmt.Errorf("tune: build model: %w", err)
	}

	threshold := g.ctx.SolutionThreshold
	if threshold == 0 {
		threshold = solve.DefaultThreshold
	}
	sol, err := solve.Run(context.Background(), b.Backend, model, g.ctx.TimeLimit, threshold)
	if err != nil {
		return 0, fmt.Errorf("tune: solve: %w", err)
	}

	return sol.ObjectiveMS, nil
}

// Mutate randomly perturbs one finger's a_ms and b_ms by up to
// coeffMutateStep of their current value.
func (g *CoeffGenome) Mutate(rng *rand.Rand) {
	fingers := geometry.AllFingers()
	f := fingers[rng.Intn(len(fingers))]
	c := g.Coeffs[f]

	c.A = math.Max(0, c.A*(1+coeffMutateStep*(2*rng.Float64()-1)))
	c.B = math.Max(minBMS, c.B*(1+coeffMutateStep*(2*rng.Float64()-1)))

	g.Coeffs[f] = c
}

// Crossover does nothing: simulated annealing mutates a single genome
// and never recombines two, so this exists only to satisfy
// eaopt.Genome.
func (g *CoeffGenome) Crossover(_ eaopt.Genome, _ *rand.Rand) {}

// Clone returns a deep copy of the genome's coefficient table.
func (g *CoeffGenome) Clone() eaopt.Genome {
	cc := make(keycand.FittsCoefficients, len(g.Coeffs))
	for f, c := range g.Coeffs {
		cc[f] = c
	}
	return &CoeffGenome{Coeffs: cc, ctx: g.ctx}
}

// AcceptFunc names one of the simulated-annealing acceptance
// schedules available to Tune, mirroring the teacher's
// getAcceptFunc.
type AcceptFunc func(generation, maxGenerations uint, e0, e1 float64) float64

// AcceptSchedule resolves a named acceptance policy. "always" and
// "never" are degenerate baselines; "linear" and "drop-fast" cool the
// acceptance probability over the run; "drop-slow" follows a
// half-cosine schedule that stays permissive longer.
func AcceptSchedule(name string) (AcceptFunc, error) {
	switch name {
	case "always":
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 }, nil
	case "never":
		return func(g, ng uint, e0, e1 float64) float64 { return 0.0 }, nil
	case "linear":
		return func(g, ng uint, e0, e1 float64) float64 {
			return 1.0 - float64(g)/float64(ng)
		}, nil
	case "drop-slow":
		return func(g, ng uint, e0, e1 float64) float64 {
			t := float64(g) / float64(ng)
			return (math.Cos(t*math.Pi) + 1.0) / 2.0
		}, nil
	case "drop-fast":
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return math.Exp(-3.0 * (1 - t))
		}, nil
	default:
		return nil, fmt.Errorf("tune: unknown acceptance schedule %q", name)
	}
}

// Result is the outcome of a Tune run: the best coefficient table
// found and the total expected press time it achieved.
type Result struct {
	Coeffs      keycand.FittsCoefficients
	ObjectiveMS float64
}

// Tune runs simulated annealing over the Fitts coefficient space,
// starting from keycand's defaults, for the given number of
// generations. Each fitness evaluation re-enumerates candidates and
// runs an independent MILP build and solve against the shared,
// read-only geometry; eaopt's ParallelEval
// evaluates a generation's candidates across goroutines bounded by
// runtime.GOMAXPROCS(0).
func Tune(ctx *Context, generations uint, acceptWorse string) (*Result, error) {
	accept, err := AcceptSchedule(acceptWorse)
	if err != nil {
		return nil, err
	}

	cfg := eaopt.NewDefaultGAConfig()
	cfg.NGenerations = generations
	cfg.ParallelEval = true
	cfg.Model = eaopt.ModSimulatedAnnealing{
		Accept: accept,
	}

	ga, err := cfg.NewGA()
	if err != nil {
		return nil, fmt.Errorf("tune: configure GA: %w", err)
	}

	if err := ga.Minimize(func(rng *rand.Rand) eaopt.Genome {
		return NewCoeffGenome(ctx)
	}); err != nil {
		return nil, fmt.Errorf("tune: search failed: %w", err)
	}

	best := ga.HallOfFame[0]
	genome := best.Genome.(*CoeffGenome)

	return &Result{Coeffs: genome.Coeffs, ObjectiveMS: best.Fitness}, nil
}
