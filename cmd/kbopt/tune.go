package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rbscholtus/kbopt/internal/config"
	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/ingest"
	"github.com/rbscholtus/kbopt/internal/kbutil"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
	"github.com/rbscholtus/kbopt/internal/milp"
	"github.com/rbscholtus/kbopt/internal/milp/bnbsolve"
	"github.com/rbscholtus/kbopt/internal/tune"
)

// tuneCommand defines the "tune" CLI command: search the per-finger
// Fitts coefficient space with simulated annealing, re-solving the
// placement MILP for every candidate table tried.
var tuneCommand = &cli.Command{
	Name:      "tune",
	Aliases:   []string{"t"},
	Usage:     "Search the Fitts-coefficient space by simulated annealing",
	Flags:     flagsSlice("config", "corpus", "time-limit", "geometry", "rows", "generations", "accept-worse"),
	ArgsUsage: " ",
	Action:    tuneAction,
}

func tuneAction(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return err
	}

	tuneCtx, err := buildTuneContext(cfg)
	if err != nil {
		return err
	}

	result, err := tune.Tune(tuneCtx, uint(c.Uint("generations")), c.String("accept-worse"))
	if err != nil {
		return fmt.Errorf("tune: %w", err)
	}

	printCoefficients(result)
	return nil
}

// buildTuneContext assembles the geometry, candidate inputs, and
// backend factory that every coefficient-table evaluation shares.
func buildTuneContext(cfg config.Config) (*tune.Context, error) {
	family, err := geometry.ParseFamily(cfg.Solver.Geometry)
	if err != nil {
		return nil, err
	}
	g, err := geometry.Build(family, cfg.Solver.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("tune: build geometry: %w", err)
	}

	opt := cfg.ParseOptions()
	movable := keys.AllMovableKeys(opt)

	table, err := ingest.LoadFile(cfg.Solver.CSVPath, opt, nil)
	if err != nil {
		return nil, fmt.Errorf("tune: load corpus: %w", err)
	}

	blocks := keycand.EnumerateArrowBlocks(g)
	edges := keycand.AdjacencyEdges(blocks)

	return &tune.Context{
		Geometry:          g,
		Movable:           movable,
		Blocks:            blocks,
		Edges:             edges,
		Probabilities:     table.Probabilities(),
		U2MM:              cfg.U2MM(),
		EnumOptions:       cfg.EnumerateOptions(),
		TimeLimit:         time.Duration(cfg.Solver.TimeLimitSecs) * time.Second,
		NewBackend:        func() milp.Backend { return bnbsolve.New() },
		DirectionalWidth:  cfg.Solver.DirectionalWidth,
		ForceDigits:       cfg.Solver.IncludeDigits,
		SolutionThreshold: cfg.SolutionThreshold(),
	}, nil
}

func printCoefficients(result *tune.Result) {
	fmt.Printf("Best objective: %.3f ms expected key-press time\n\n", result.ObjectiveMS)
	for _, f := range geometry.AllFingers() {
		c := kbutil.WithDefault(result.Coeffs, f, keycand.Coefficient{})
		fmt.Printf("  %-4s  a_ms=%-8.3f b_ms=%-8.3f\n", f.String(), c.A, c.B)
	}
}
