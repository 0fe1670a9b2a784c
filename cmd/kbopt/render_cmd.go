package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rbscholtus/kbopt/internal/geometry"
)

// renderCommand draws the bare physical grid a geometry family
// produces, before any movable key is placed: which cells are
// reserved by fixed letters (occupied) against which are free for the
// optimiser to use.
var renderCommand = &cli.Command{
	Name:      "render",
	Aliases:   []string{"r"},
	Usage:     "Draw the free/occupied cell grid for one geometry",
	Flags:     flagsSlice("config", "geometry", "rows"),
	ArgsUsage: " ",
	Action:    renderAction,
}

func renderAction(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return err
	}

	family, err := geometry.ParseFamily(cfg.Solver.Geometry)
	if err != nil {
		return err
	}
	g, err := geometry.Build(family, cfg.Solver.MaxRows)
	if err != nil {
		return fmt.Errorf("render: build geometry: %w", err)
	}

	fmt.Printf("%s, %d rows (# = reserved for a fixed letter, . = free)\n\n", family, g.NumRows())
	for row := 0; row < g.NumRows(); row++ {
		var sb strings.Builder
		for col := 0; col < g.NumCellCols(); col++ {
			if col > 0 && col%geometry.CellsPerU == 0 {
				sb.WriteByte(' ')
			}
			if g.Occupied(geometry.CellID{Row: row, Col: col}) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		fmt.Printf("row %d: %s\n", row, sb.String())
	}
	return nil
}
