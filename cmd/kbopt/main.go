// Package main provides the CLI entrypoint for the kbopt command-line
// tool.
//
// flags.go centralises CLI flag definitions shared across commands,
// in the spirit of the teacher's own appFlagsMap.
//
// optimise.go implements the "optimise" command: build a geometry,
// enumerate candidates, solve the MILP, and print the winning
// layout.
//
// tune.go implements the "tune" command: search the Fitts-coefficient
// space with simulated annealing, re-solving the MILP for every
// candidate table tried.
//
// render.go renders a solved layout as go-pretty tables for the
// optimise command.
//
// render_cmd.go implements the "render" command: draw a bare
// geometry's free/occupied cell grid, with no solve involved.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "kbopt",
		Usage: "Fitts'-law keyboard-layout optimiser",
		Commands: []*cli.Command{
			optimiseCommand,
			tuneCommand,
			renderCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
