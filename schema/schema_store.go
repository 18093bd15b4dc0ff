package schema

import "time"

// RetrievalRunRecord represents a row from the aurora_retrieval_runs table.
type RetrievalRunRecord struct {
	RunID          string
	Target         string
	DataPath       string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	LinesRetrieved int32
	LinesSkipped   int32
	ConfigParams   *string
}

// LineResultRecord represents a row from the aurora_line_results table.
type LineResultRecord struct {
	RunID          string
	LineID         string
	Label          string
	Species        string
	EchelleOrder   int32
	Brightness     float64
	Uncertainty    float64
	StandardError  float64
	Systematic     float64
	FramesIncluded int32
	FramesExcluded int32
	RecordedAt     time.Time
}
