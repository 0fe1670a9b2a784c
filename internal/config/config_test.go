package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbopt.toml")
	contents := `
[solver]
geometry = "ortho"
max_rows = 5
csv_path = "corpus.csv"
time_limit_secs = 30

[fitts]
enable = true

[fitts.values.LIndex]
a_ms = 10.0
b_ms = 100.0
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.Geometry != "ortho" {
		t.Errorf("Geometry = %q, want ortho", cfg.Solver.Geometry)
	}
	if cfg.Solver.MaxRows != 5 {
		t.Errorf("MaxRows = %d, want 5", cfg.Solver.MaxRows)
	}
	coeffs, err := cfg.FittsCoefficients()
	if err != nil {
		t.Fatalf("FittsCoefficients: %v", err)
	}
	if len(coeffs) == 0 {
		t.Fatal("expected a complete coefficient table")
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	cfg := Default()
	cfg.Solver.Geometry = "hex-grid"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown geometry family")
	}
}

func TestValidateRejectsOutOfRangeMaxRows(t *testing.T) {
	cfg := Default()
	cfg.Solver.MaxRows = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range max_rows")
	}
}

func TestValidateRejectsNonPositiveTimeLimit(t *testing.T) {
	cfg := Default()
	cfg.Solver.TimeLimitSecs = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero time_limit_secs")
	}
}

func TestValidateRejectsUnknownFinger(t *testing.T) {
	cfg := Default()
	cfg.Fitts.Enable = true
	cfg.Fitts.Values = map[string]Coefficient{"NotAFinger": {AMS: 1, BMS: 1}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown finger name")
	}
}

func TestValidateRejectsNonPositiveBMS(t *testing.T) {
	cfg := Default()
	cfg.Fitts.Enable = true
	cfg.Fitts.Values = map[string]Coefficient{"LIndex": {AMS: 1, BMS: 0}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive b_ms")
	}
}

func TestU2MMFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.Solver.U2MM = 0
	if cfg.U2MM() <= 0 {
		t.Errorf("U2MM() = %v, want positive default", cfg.U2MM())
	}
}

func TestSolutionThresholdFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.Solver.SolutionThreshold = 0
	if got := cfg.SolutionThreshold(); got != defaultSolutionThreshold {
		t.Errorf("SolutionThreshold() = %v, want %v", got, defaultSolutionThreshold)
	}
}

func TestSolutionThresholdHonoursOverride(t *testing.T) {
	cfg := Default()
	cfg.Solver.SolutionThreshold = 0.9
	if got := cfg.SolutionThreshold(); got != 0.9 {
		t.Errorf("SolutionThreshold() = %v, want 0.9", got)
	}
}

func TestValidateRejectsOutOfRangeSolutionThreshold(t *testing.T) {
	cfg := Default()
	cfg.Solver.SolutionThreshold = 1.0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for solution_threshold >= 1")
	}
}

func TestEnumerateOptionsCarriesDirectionalWidth(t *testing.T) {
	cfg := Default()
	cfg.Solver.DirectionalWidth = true
	if !cfg.EnumerateOptions().DirectionalWidth {
		t.Error("EnumerateOptions().DirectionalWidth = false, want true")
	}
}
