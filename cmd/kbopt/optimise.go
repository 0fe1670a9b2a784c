package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rbscholtus/kbopt/internal/config"
	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/ingest"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
	"github.com/rbscholtus/kbopt/internal/milp"
	"github.com/rbscholtus/kbopt/internal/milp/bnbsolve"
	"github.com/rbscholtus/kbopt/internal/solve"
)

// optimiseCommand defines the "optimise" CLI command: load a
// configuration and a frequency corpus, enumerate every priced
// candidate, and solve the placement MILP to optimality.
var optimiseCommand = &cli.Command{
	Name:      "optimise",
	Aliases:   []string{"o"},
	Usage:     "Solve the key-placement MILP for one geometry and corpus",
	Flags:     flagsSlice("config", "corpus", "time-limit", "geometry", "rows"),
	ArgsUsage: " ",
	Action:    optimiseAction,
}

func loadConfigFromFlags(c *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	if v := c.String("corpus"); v != "" {
		cfg.Solver.CSVPath = v
	}
	if v := c.String("geometry"); v != "" {
		cfg.Solver.Geometry = v
	}
	if v := c.Int("rows"); v != 0 {
		cfg.Solver.MaxRows = v
	}
	if v := c.Int("time-limit"); v != 0 {
		cfg.Solver.TimeLimitSecs = v
	}

	return cfg, cfg.Validate()
}

// buildModel assembles the geometry, candidates, and MILP model for
// the optimise command.
func buildModel(cfg config.Config) (*milp.Builder, *milp.Model, error) {
	family, err := geometry.ParseFamily(cfg.Solver.Geometry)
	if err != nil {
		return nil, nil, err
	}
	g, err := geometry.Build(family, cfg.Solver.MaxRows)
	if err != nil {
		return nil, nil, fmt.Errorf("optimise: build geometry: %w", err)
	}

	opt := cfg.ParseOptions()
	movable := keys.AllMovableKeys(opt)

	table, err := ingest.LoadFile(cfg.Solver.CSVPath, opt, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("optimise: load corpus: %w", err)
	}
	probs := table.Probabilities()

	coeffs, err := cfg.FittsCoefficients()
	if err != nil {
		return nil, nil, err
	}

	cands, err := keycand.EnumerateRegular(g, movable, coeffs, cfg.U2MM(), cfg.EnumerateOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("optimise: enumerate candidates: %w", err)
	}
	blocks := keycand.EnumerateArrowBlocks(g)
	edges := keycand.AdjacencyEdges(blocks)

	b := &milp.Builder{
		Backend:          bnbsolve.New(),
		Geometry:         g,
		RegularCands:     cands,
		Blocks:           blocks,
		Edges:            edges,
		Probabilities:    probs,
		Coeffs:           coeffs,
		U2MM:             cfg.U2MM(),
		DirectionalWidth: cfg.Solver.DirectionalWidth,
		ForceDigits:      cfg.Solver.IncludeDigits,
	}
	model, err := b.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("optimise: build model: %w", err)
	}
	return b, model, nil
}

func optimiseAction(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return err
	}

	b, model, err := buildModel(cfg)
	if err != nil {
		return err
	}

	timeLimit := time.Duration(cfg.Solver.TimeLimitSecs) * time.Second
	sol, err := solve.Run(ctx, b.Backend, model, timeLimit, cfg.SolutionThreshold())
	if err != nil {
		return fmt.Errorf("optimise: %w", err)
	}

	printSolution(sol)
	return nil
}
