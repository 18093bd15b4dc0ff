// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/aurora/schema"
)

// SequenceReader loads the reduced data products of one observing night.
// This allows the pipeline to be tested against in-memory sequences.
type SequenceReader interface {
	// ReadSequence returns the calibrated, validated observing sequence stored in dir.
	ReadSequence(ctx context.Context, dir string) (*schema.ObservingSequence, error)
}

// ResultWriter persists per-line records and prints run summaries.
type ResultWriter interface {
	// WriteRecord writes every artifact of one line group into dir.
	WriteRecord(dir string, rec *schema.ResultRecord) error

	// WriteSummary prints the run summary using the configured output format.
	WriteSummary(summary *schema.RunSummary, cfg *Config) error
}

// RunManager defines the interface for managing the run store.
// This allows the store layer to be mocked for testing.
type RunManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking retrieval runs and line results.
type RunStore interface {
	// BeginRun records the start of a retrieval run
	BeginRun(runID string, startTime time.Time, target, dataPath string, configParams map[string]any) error

	// EndRun updates the run with completion data
	EndRun(runID string, endTime time.Time, retrieved, skipped int) error

	// RecordLineResult stores the aggregate of one line group
	RecordLineResult(runID string, rec *schema.ResultRecord) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns returns every tracked run ordered by start time
	GetAllRuns() ([]schema.RetrievalRunRecord, error)

	// GetAllLineResults returns every stored line result
	GetAllLineResults() ([]schema.LineResultRecord, error)

	// GetLineHistory returns the most recent results of one line group, newest first
	GetLineHistory(lineID schema.LineID, limit int) ([]schema.LineResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
