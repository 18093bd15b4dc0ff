package runstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/parquet"
)

// Suffixes appended to the export base name.
const (
	runsExportSuffix  = ".retrieval_runs.parquet"
	linesExportSuffix = ".line_results.parquet"
)

// ExecuteRunExport exports every tracked run and line result of store to Parquet files
// named after outputFile, reporting progress to w.
func ExecuteRunExport(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no retrieval runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total retrieval runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total line results: %d\n", status.TotalLineResults)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	lines, err := store.GetAllLineResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve line results: %w", err)
	}

	runsFile := outputFile + runsExportSuffix
	if err := parquet.WriteFile(parquet.ConvertRetrievalRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write retrieval runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d retrieval runs to: %s\n", len(runs), runsFile)

	linesFile := outputFile + linesExportSuffix
	if err := parquet.WriteFile(parquet.ConvertLineResultRecords(lines), linesFile); err != nil {
		return fmt.Errorf("failed to write line results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d line results to: %s\n", len(lines), linesFile)

	return nil
}
