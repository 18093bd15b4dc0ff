// Package core has core logic for order extraction, background estimation and brightness retrieval.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
)

// ExecuteRetrieve runs a retrieval over every configured line group and
// prints the run summary. It serves as the main entry point for the 'retrieve' command.
func ExecuteRetrieve(ctx context.Context, cfg *contract.Config, deps Dependencies) error {
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		ctx = WithSuppressHeader(ctx)
	}
	summary, _, err := RunRetrieval(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return deps.Writer.WriteSummary(summary, cfg)
}

// RunRetrieval reads the reduced data and retrieves every line group of the
// configured catalog. The summary and outcomes gathered before a failure are
// returned alongside the error.
func RunRetrieval(ctx context.Context, cfg *contract.Config, deps Dependencies) (*schema.RunSummary, []GroupOutcome, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)

	seq, err := deps.Reader.ReadSequence(ctx, cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read reduced data: %w", err)
	}
	if !shouldSuppressHeader(ctx) {
		logRetrievalHeader(cfg, seq)
	}

	// --- Begin Run Tracking (if configured) ---
	var store contract.RunStore
	if deps.Runs != nil {
		store = deps.Runs.GetRunStore()
	}
	tracking := false
	if store != nil {
		if err := store.BeginRun(runID, start, seq.Target, cfg.DataPath, configParams(cfg)); err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else {
			tracking = true
		}
	}

	outcomes, runErr := retrieveGroups(ctx, cfg, seq, cfg.Lines(), deps)

	summary := &schema.RunSummary{
		RunID:     runID,
		Target:    seq.Target,
		DataPath:  cfg.DataPath,
		SavePath:  cfg.SavePath,
		StartTime: start,
		EndTime:   time.Now(),
	}
	for i, o := range outcomes {
		row := o.Summary()
		row.Rank = i + 1
		summary.Groups = append(summary.Groups, row)
	}
	recs := records(outcomes)

	// --- End Run Tracking ---
	if tracking {
		for _, rec := range recs {
			if err := store.RecordLineResult(runID, rec); err != nil {
				contract.LogWarn("Failed to record line result", err)
			}
		}
		retrieved := summary.Retrieved()
		if err := store.EndRun(runID, summary.EndTime, retrieved, len(outcomes)-retrieved); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	if runErr != nil {
		return summary, outcomes, runErr
	}

	if deps.Renderer != nil && len(recs) > 0 {
		if err := deps.Renderer.RenderSummary(recs, summaryChartPath(cfg)); err != nil {
			return summary, outcomes, fmt.Errorf("summary chart: %w", err)
		}
	}
	return summary, outcomes, nil
}

// configParams returns the parameters stored alongside a tracked run.
func configParams(cfg *contract.Config) map[string]any {
	exclusions := make(map[string][]int, len(cfg.Exclusions))
	for id, frames := range cfg.Exclusions {
		exclusions[string(id)] = frames
	}
	return map[string]any{
		"save_path":   cfg.SavePath,
		"seeing":      cfg.Seeing,
		"y_offset":    cfg.YOffset,
		"top_trim":    cfg.TopTrim,
		"bottom_trim": cfg.BottomTrim,
		"extended":    cfg.Extended,
		"background":  string(cfg.Background),
		"tolerance":   cfg.Tolerance,
		"window":      cfg.Window,
		"exclusions":  exclusions,
	}
}

// progressWriter returns stdout unless headers are suppressed, in which
// case progress goes to stderr to keep machine-readable output clean.
func progressWriter(ctx context.Context) io.Writer {
	if shouldSuppressHeader(ctx) {
		return os.Stderr
	}
	return os.Stdout
}

// notice prints a progress line for a line group.
func notice(ctx context.Context, format string, args ...any) {
	_, _ = fmt.Fprintf(progressWriter(ctx), format, args...)
}

// logRetrievalHeader prints a concise, 2-line header for a retrieval run.
func logRetrievalHeader(cfg *contract.Config, seq *schema.ObservingSequence) {
	target := seq.Target
	if target == "" {
		target = "unknown"
	}

	// Line 1: The observation summary (Target, frames and orders)
	fmt.Printf("🔭 Target: %s (%d frames, %d orders)\n", target, len(seq.Frames), len(seq.Orders))

	// Line 2: Where results are written
	fmt.Printf("📂 Data: %s → %s\n", cfg.DataPath, cfg.SavePath)
}
