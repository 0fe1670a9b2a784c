// Package ingest reads a key-frequency corpus from a `Key,Count` CSV
// file and builds a keys.FrequencyTable from it. It is the module's
// one external collaborator for observed key frequencies, mirroring
// the Rust original's csv_reader.rs, which the specification calls
// out by name as living outside the optimisation core.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rbscholtus/kbopt/internal/kbutil"
	"github.com/rbscholtus/kbopt/internal/keys"
)

// expectedKeyHeader and expectedCountHeader are the two required
// column names, compared case-insensitively.
const (
	expectedKeyHeader   = "Key"
	expectedCountHeader = "Count"
)

// LoadFile opens path and delegates to Load, closing the file
// afterwards.
func LoadFile(path string, opt keys.ParseOptions, logger *log.Logger) (*keys.FrequencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to open %q: %w", path, err)
	}
	defer kbutil.CloseFile(f)

	table, err := Load(f, opt, logger)
	if err != nil {
		return nil, fmt.Errorf("ingest: %q: %w", path, err)
	}
	return table, nil
}

// Load reads a `Key,Count` CSV stream and returns the accumulated
// FrequencyTable. Rows that cannot be parsed (unknown key label,
// non-numeric count) are skipped and logged as warnings rather than
// failing the whole load, matching the original's
// "continue processing other files instead of failing" posture.
func Load(r io.Reader, opt keys.ParseOptions, logger *log.Logger) (*keys.FrequencyTable, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // allow additional columns, like the original's flexible(true)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	table := keys.NewFrequencyTable()
	row := 1 // header was row 1; data rows start at 2

	for {
		row++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		kid, count, ok := parseRecord(rec, row, opt, logger)
		if !ok {
			continue
		}
		table.Add(kid, count)
	}

	return table, nil
}

func validateHeader(header []string) error {
	if len(header) < 2 {
		return fmt.Errorf("header has %d column(s), want at least 2 (%s,%s)", len(header), expectedKeyHeader, expectedCountHeader)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), expectedKeyHeader) {
		return fmt.Errorf("expected %q in column 0, found %q", expectedKeyHeader, header[0])
	}
	if !strings.EqualFold(strings.TrimSpace(header[1]), expectedCountHeader) {
		return fmt.Errorf("expected %q in column 1, found %q", expectedCountHeader, header[1])
	}
	return nil
}

// parseRecord parses one data row, returning ok=false for any row
// that should be skipped. Blank rows and rows with an empty label are
// skipped silently; a short row, a label outside the closed
// vocabulary, or a non-numeric count is also logged as a warning (via
// logger, if non-nil).
func parseRecord(rec []string, row int, opt keys.ParseOptions, logger *log.Logger) (keys.KeyID, uint64, bool) {
	if allBlank(rec) {
		return keys.KeyID{}, 0, false
	}
	if len(rec) < 2 {
		warnf(logger, "row %d: expected at least 2 columns, got %d, skipping", row, len(rec))
		return keys.KeyID{}, 0, false
	}

	label := strings.TrimSpace(rec[0])
	countStr := strings.TrimSpace(rec[1])
	if label == "" {
		return keys.KeyID{}, 0, false
	}

	kid, ok := keys.ParseLabel(label, opt)
	if !ok {
		warnf(logger, "row %d: unrecognised key label %q, skipping", row, label)
		return keys.KeyID{}, 0, false
	}

	count, err := strconv.ParseUint(countStr, 10, 64)
	if err != nil {
		warnf(logger, "row %d: count %q is not a valid non-negative integer, skipping", row, countStr)
		return keys.KeyID{}, 0, false
	}

	return kid, count, true
}

func allBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func warnf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
