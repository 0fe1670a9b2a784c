package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// appFlagsMap is a centralized map of CLI flags used across the
// kbopt commands. It keeps flag definitions in one place, letting
// each command select only the flags it needs.
var appFlagsMap = map[string]cli.Flag{
	"config": &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML configuration file; defaults are used when omitted",
	},
	"corpus": &cli.StringFlag{
		Name:  "corpus",
		Usage: "frequency-table CSV overriding the config's solver.csv_path",
	},
	"time-limit": &cli.IntFlag{
		Name:    "time-limit",
		Aliases: []string{"t"},
		Usage:   "backend solve time budget in seconds, overriding the config",
		Value:   0,
		Action: func(ctx context.Context, c *cli.Command, value int) error {
			if value < 0 {
				return fmt.Errorf("--time-limit must not be negative (got %d)", value)
			}
			return nil
		},
	},
	"generations": &cli.UintFlag{
		Name:    "generations",
		Aliases: []string{"g"},
		Usage:   "number of simulated-annealing generations to run",
		Value:   250,
	},
	"accept-worse": &cli.StringFlag{
		Name:    "accept-worse",
		Aliases: []string{"aw"},
		Usage:   fmt.Sprintf("acceptance schedule for worse coefficient tables: %v", validAcceptSchedules),
		Value:   "drop-slow",
	},
	"geometry": &cli.StringFlag{
		Name:  "geometry",
		Usage: "geometry family, overriding the config: row-stagger | ortho",
	},
	"rows": &cli.IntFlag{
		Name:  "rows",
		Usage: "number of rows, overriding the config",
	},
}

// validAcceptSchedules lists the acceptance-schedule names internal/tune
// recognises, for help text; the name itself is checked by
// tune.AcceptSchedule.
var validAcceptSchedules = []string{"always", "never", "linear", "drop-slow", "drop-fast"}

// flagsSlice converts selected flag keys to a slice, in the order
// requested.
func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
