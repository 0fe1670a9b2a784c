package main

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/rbscholtus/kbopt/internal/config"
)

func TestOptimiseRejectsMissingConfigFile(t *testing.T) {
	cmd := &cli.Command{
		Name:     "test",
		Commands: []*cli.Command{optimiseCommand},
	}

	err := cmd.Run(context.Background(), []string{"test", "optimise", "--config", "does-not-exist.toml"})
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestOptimiseRejectsBadGeometryFlag(t *testing.T) {
	cmd := &cli.Command{
		Name:     "test",
		Commands: []*cli.Command{optimiseCommand},
	}

	err := cmd.Run(context.Background(), []string{"test", "optimise", "--geometry", "not-a-geometry"})
	if err == nil {
		t.Fatal("expected an error for an unknown geometry family")
	}
}

func TestBuildModelRejectsMissingCorpus(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.CSVPath = "does-not-exist.csv"

	if _, _, err := buildModel(cfg); err == nil {
		t.Fatal("expected an error for a missing corpus file")
	}
}
