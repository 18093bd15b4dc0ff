// Package parquet provides data structures and functions for exporting aurora
// retrieval data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/aurora/schema"
	"github.com/parquet-go/parquet-go"
)

// RetrievalRun represents a single retrieval run with metadata.
// This struct maps to the aurora_retrieval_runs database table.
type RetrievalRun struct {
	// RunID is the unique identifier for this retrieval run
	RunID string `parquet:"run_id,snappy"`

	// Target is the observed body
	Target string `parquet:"target,snappy"`

	// DataPath is the reduced data directory of the run
	DataPath string `parquet:"data_path,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	LinesRetrieved int32 `parquet:"lines_retrieved,snappy"`
	LinesSkipped   int32 `parquet:"lines_skipped,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// LineResult represents the aggregate brightness of one line group in one run.
// This struct maps to the aurora_line_results database table.
type LineResult struct {
	RunID          string    `parquet:"run_id,snappy"`
	LineID         string    `parquet:"line_id,snappy"`
	Label          string    `parquet:"label,snappy"`
	Species        string    `parquet:"species,snappy"`
	EchelleOrder   int32     `parquet:"echelle_order,snappy"`
	Brightness     float64   `parquet:"brightness,snappy"`
	Uncertainty    float64   `parquet:"uncertainty,snappy"`
	StandardError  float64   `parquet:"standard_error,snappy"`
	Systematic     float64   `parquet:"systematic,snappy"`
	FramesIncluded int32     `parquet:"frames_included,snappy"`
	FramesExcluded int32     `parquet:"frames_excluded,snappy"`
	RecordedAt     time.Time `parquet:"recorded_at,snappy"`
}

// FrameRow is the brightness of one frame of one line group.
type FrameRow struct {
	RunID       string  `parquet:"run_id,snappy"`
	LineID      string  `parquet:"line_id,snappy"`
	FrameIndex  int32   `parquet:"frame_index,snappy"`
	Filename    string  `parquet:"filename,snappy"`
	Brightness  float64 `parquet:"brightness,snappy"`
	Uncertainty float64 `parquet:"uncertainty,snappy"`
	Excluded    bool    `parquet:"excluded,snappy"`
}

// SummaryRow is one line group of a run summary.
type SummaryRow struct {
	Rank         int32   `parquet:"rank,snappy"`
	RunID        string  `parquet:"run_id,snappy"`
	Target       string  `parquet:"target,snappy"`
	LineID       string  `parquet:"line_id,snappy"`
	Label        string  `parquet:"label,snappy"`
	Species      string  `parquet:"species,snappy"`
	Status       string  `parquet:"status,snappy"`
	Brightness   float64 `parquet:"brightness,snappy"`
	Uncertainty  float64 `parquet:"uncertainty,snappy"`
	Frames       int32   `parquet:"frames,snappy"`
	Excluded     int32   `parquet:"excluded,snappy"`
	EchelleOrder int32   `parquet:"echelle_order,snappy"`
	Message      *string `parquet:"message,optional,snappy"`
}

// Write writes rows to w using the schema inferred from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadFile reads every row of a Parquet file written by WriteFile.
func ReadFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return rows, nil
}

// ConvertRetrievalRunRecords converts run store records for Parquet export.
func ConvertRetrievalRunRecords(records []schema.RetrievalRunRecord) []RetrievalRun {
	result := make([]RetrievalRun, len(records))
	for i, record := range records {
		result[i] = RetrievalRun{
			RunID:          record.RunID,
			Target:         record.Target,
			DataPath:       record.DataPath,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			LinesRetrieved: record.LinesRetrieved,
			LinesSkipped:   record.LinesSkipped,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertLineResultRecords converts run store line results for Parquet export.
func ConvertLineResultRecords(records []schema.LineResultRecord) []LineResult {
	result := make([]LineResult, len(records))
	for i, record := range records {
		result[i] = LineResult{
			RunID:          record.RunID,
			LineID:         record.LineID,
			Label:          record.Label,
			Species:        record.Species,
			EchelleOrder:   record.EchelleOrder,
			Brightness:     record.Brightness,
			Uncertainty:    record.Uncertainty,
			StandardError:  record.StandardError,
			Systematic:     record.Systematic,
			FramesIncluded: record.FramesIncluded,
			FramesExcluded: record.FramesExcluded,
			RecordedAt:     record.RecordedAt,
		}
	}
	return result
}

// ConvertFrames flattens the per-frame brightness of a result record.
func ConvertFrames(rec *schema.ResultRecord) []FrameRow {
	result := make([]FrameRow, len(rec.Frames))
	for i, f := range rec.Frames {
		result[i] = FrameRow{
			RunID:       rec.RunID,
			LineID:      string(rec.LineID),
			FrameIndex:  int32(f.Index),
			Filename:    f.Filename,
			Brightness:  f.Brightness,
			Uncertainty: f.Uncertainty,
			Excluded:    f.Excluded,
		}
	}
	return result
}

// ConvertSummary flattens a run summary into one row per line group.
func ConvertSummary(summary *schema.RunSummary) []SummaryRow {
	result := make([]SummaryRow, len(summary.Groups))
	for i, g := range summary.Groups {
		row := SummaryRow{
			Rank:         int32(g.Rank),
			RunID:        summary.RunID,
			Target:       summary.Target,
			LineID:       string(g.LineID),
			Label:        g.Label,
			Species:      g.Species,
			Status:       string(g.Status),
			Brightness:   g.Brightness,
			Uncertainty:  g.Uncertainty,
			Frames:       int32(g.Frames),
			Excluded:     int32(g.Excluded),
			EchelleOrder: int32(g.Order),
		}
		if g.Message != "" {
			msg := g.Message
			row.Message = &msg
		}
		result[i] = row
	}
	return result
}
