// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/parquet"
	"github.com/huangsam/aurora/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	Precision int // decimals in results.txt
}

var _ contract.ResultWriter = (*OutWriter)(nil) // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{Precision: schema.DefaultPrecision}
}

// WriteRecord writes results.json, results.txt and frames.parquet of one line group into dir.
func (ow *OutWriter) WriteRecord(dir string, rec *schema.ResultRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := createFile(filepath.Join(dir, schema.ResultsJSONFile), func(w io.Writer) error {
		return writeJSON(w, rec)
	}); err != nil {
		return err
	}
	if err := createFile(filepath.Join(dir, schema.ResultsTextFile), func(w io.Writer) error {
		return writeRecordTable(w, rec, ow.Precision)
	}); err != nil {
		return err
	}
	return parquet.WriteFile(parquet.ConvertFrames(rec), filepath.Join(dir, schema.FramesParquetFile))
}

// WriteSummary prints the run summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary *schema.RunSummary, cfg *contract.Config) error {
	return PrintRunSummary(summary, cfg)
}

// ReadResultRecord reads the results.json written for a line group in dir.
func ReadResultRecord(dir string) (*schema.ResultRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, schema.ResultsJSONFile))
	if err != nil {
		return nil, err
	}
	var rec schema.ResultRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", dir, err)
	}
	return &rec, nil
}

// getMaxMessageWidth calculates the maximum width for the message column in
// table output based on terminal width.
func getMaxMessageWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Line + Species + Order + Status + Brightness + Frames + Excluded with borders
	baseWidth := 95

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
