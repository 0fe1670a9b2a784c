// Package config loads and validates the single TOML configuration
// bundle that drives one optimisation run: which geometry family to
// build, where the solver reads its frequency corpus from, the time
// budget handed to the backend, and any per-finger Fitts-coefficient
// overrides.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/rbscholtus/kbopt/internal/geometry"
	"github.com/rbscholtus/kbopt/internal/keycand"
	"github.com/rbscholtus/kbopt/internal/keys"
)

// Config is the root configuration bundle, as loaded from a TOML
// file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Fitts  FittsConfig  `toml:"fitts"`
}

// SolverConfig names the run's geometry, its corpus location, and the
// time budget given to the MILP backend.
type SolverConfig struct {
	Geometry      string  `toml:"geometry"` // "row-stagger" | "ortho"
	MaxRows       int     `toml:"max_rows"` // geometry.MinRows..geometry.MaxRows
	CSVPath       string  `toml:"csv_path"` // frequency-table corpus
	TimeLimitSecs int     `toml:"time_limit_secs"`
	U2MM          float64 `toml:"u2mm"` // physical scale, mm per u; 0 means DefaultU2MM

	IncludeFKeys      bool `toml:"include_fkeys"`
	IncludeNavigation bool `toml:"include_navigation"`
	IncludeNumpad     bool `toml:"include_numpad"`
	IncludeDigits     bool `toml:"include_digits"` // forces digit placement rather than omission

	AlignLeftEdge    bool `toml:"align_left_edge"`
	AlignRightEdge   bool `toml:"align_right_edge"`
	DirectionalWidth bool `toml:"directional_width"` // ellipse-approximation effective width vs. plain Weff=w

	SolutionThreshold float64 `toml:"solution_threshold"` // decoder cutoff; 0 means internal/solve's own default
}

// FittsConfig optionally overrides the default per-finger Fitts'-law
// coefficients.
type FittsConfig struct {
	Enable bool                   `toml:"enable"`
	Values map[string]Coefficient `toml:"values"` // finger name -> {a_ms, b_ms}
}

// Coefficient is one finger's a_ms/b_ms pair, written in TOML as a
// table with those two keys (e.g. [fitts.values.LIndex]).
type Coefficient struct {
	AMS float64 `toml:"a_ms"`
	BMS float64 `toml:"b_ms"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Geometry:          "row-stagger",
			MaxRows:           geometry.MaxRows,
			CSVPath:           "corpus.csv",
			TimeLimitSecs:     60,
			U2MM:              geometry.DefaultU2MM,
			IncludeFKeys:      false,
			IncludeDigits:     false,
			DirectionalWidth:  true,
			SolutionThreshold: defaultSolutionThreshold,
		},
		Fitts: FittsConfig{Enable: false},
	}
}

// defaultSolutionThreshold mirrors internal/solve's own default cutoff,
// substituted whenever a configuration leaves solution_threshold at
// its zero value.
const defaultSolutionThreshold = 0.5

// Load reads and validates a TOML configuration file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to load %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range, mirroring
// the original implementation's single validate() entry point.
func (c Config) Validate() error {
	if _, err := geometry.ParseFamily(c.Solver.Geometry); err != nil {
		return fmt.Errorf("config: solver.geometry: %w", err)
	}
	if c.Solver.MaxRows < geometry.MinRows || c.Solver.MaxRows > geometry.MaxRows {
		return fmt.Errorf("config: solver.max_rows %d out of range [%d,%d]", c.Solver.MaxRows, geometry.MinRows, geometry.MaxRows)
	}
	if c.Solver.CSVPath == "" {
		return fmt.Errorf("config: solver.csv_path must not be empty")
	}
	if c.Solver.TimeLimitSecs <= 0 {
		return fmt.Errorf("config: solver.time_limit_secs must be positive")
	}
	if c.Solver.U2MM < 0 {
		return fmt.Errorf("config: solver.u2mm must not be negative")
	}
	if c.Solver.SolutionThreshold < 0 || c.Solver.SolutionThreshold >= 1 {
		return fmt.Errorf("config: solver.solution_threshold must be in [0,1)")
	}
	if c.Fitts.Enable {
		for name, coeff := range c.Fitts.Values {
			if _, err := geometry.ParseFinger(name); err != nil {
				return fmt.Errorf("config: fitts.values: %w", err)
			}
			if coeff.BMS <= 0 {
				return fmt.Errorf("config: fitts.values[%s].b_ms must be positive", name)
			}
		}
	}
	return nil
}

// FittsCoefficients resolves the configuration's Fitts overrides
// against keycand's defaults, returning a complete per-finger table.
func (c Config) FittsCoefficients() (keycand.FittsCoefficients, error) {
	base := keycand.DefaultFittsCoefficients()
	if !c.Fitts.Enable {
		return base, nil
	}

	overrides := make(keycand.FittsCoefficients, len(c.Fitts.Values))
	for name, coeff := range c.Fitts.Values {
		f, err := geometry.ParseFinger(name)
		if err != nil {
			return nil, fmt.Errorf("config: fitts.values: %w", err)
		}
		overrides[f] = keycand.Coefficient{A: coeff.AMS, B: coeff.BMS}
	}
	return base.WithOverrides(overrides), nil
}

// U2MM returns the configured physical scale, substituting the
// package default when the configuration leaves it at zero.
func (c Config) U2MM() float64 {
	if c.Solver.U2MM == 0 {
		return geometry.DefaultU2MM
	}
	return c.Solver.U2MM
}

// SolutionThreshold returns the configured decoder cutoff, substituting
// internal/solve's own default when the configuration leaves it at
// zero.
func (c Config) SolutionThreshold() float64 {
	if c.Solver.SolutionThreshold == 0 {
		return defaultSolutionThreshold
	}
	return c.Solver.SolutionThreshold
}

// ParseOptions derives the key-vocabulary gating options that
// internal/keys.AllMovableKeys and ParseLabel expect.
func (c Config) ParseOptions() keys.ParseOptions {
	opt := keys.DefaultParseOptions()
	opt.IncludeFKeys = c.Solver.IncludeFKeys
	opt.IncludeNavigation = c.Solver.IncludeNavigation
	opt.IncludeNumpad = c.Solver.IncludeNumpad
	return opt
}

// EnumerateOptions derives the candidate-enumeration edge-alignment and
// effective-width gating that internal/keycand.EnumerateRegular expects.
func (c Config) EnumerateOptions() keycand.EnumerateOptions {
	return keycand.EnumerateOptions{
		AlignLeftEdge:    c.Solver.AlignLeftEdge,
		AlignRightEdge:   c.Solver.AlignRightEdge,
		DirectionalWidth: c.Solver.DirectionalWidth,
	}
}
