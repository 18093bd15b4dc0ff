package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
)

// Renderer produces the diagnostic graphics of a run.
type Renderer interface {
	// RenderBackground draws the aperture and background sample geometry of a line group.
	RenderBackground(od *OrderData, bg *Background, dir string) error

	// RenderSpectrum draws the background-subtracted 1-D spectrum of a line group.
	RenderSpectrum(od *OrderData, bg *Background, dir string) error

	// RenderSummary draws the per-frame brightness of every retrieved line group.
	RenderSummary(records []*schema.ResultRecord, file string) error
}

// Dependencies bundles the collaborators of a retrieval run.
// A nil Renderer disables graphics and a nil Runs disables run tracking.
type Dependencies struct {
	Reader   contract.SequenceReader
	Writer   contract.ResultWriter
	Renderer Renderer
	Runs     contract.RunManager
}

// GroupOutcome is the result of processing one line group: either a
// retrieved record or a skip caused by the line not being in the data.
type GroupOutcome struct {
	Group  schema.LineGroup
	Status schema.OutcomeStatus
	Record *schema.ResultRecord
	Err    error
}

// Summary returns the row of the run summary for this outcome.
func (o GroupOutcome) Summary() schema.GroupSummary {
	s := schema.GroupSummary{
		LineID:  o.Group.ID,
		Label:   o.Group.Label(),
		Species: o.Group.Species,
		Status:  o.Status,
	}
	if o.Record != nil {
		s.Brightness = o.Record.Brightness
		s.Uncertainty = o.Record.Uncertainty
		s.Frames = len(o.Record.Frames)
		s.Excluded = len(o.Record.ExcludedFrames)
		s.Order = o.Record.EchelleOrder
	}
	if o.Err != nil {
		s.Message = o.Err.Error()
	}
	return s
}

// orderOptions derives the extraction options of a group from the config.
func orderOptions(cfg *contract.Config, id schema.LineID) OrderOptions {
	return OrderOptions{
		Seeing:     cfg.Seeing,
		TopTrim:    cfg.TopTrim,
		BottomTrim: cfg.BottomTrim,
		Tolerance:  cfg.Tolerance,
		Window:     cfg.Window,
		Exclude:    cfg.Exclusions[id],
	}
}

// processGroup runs OrderData, Background and AuroraBrightness for one line
// group, renders its graphics and saves its record. A missing line yields a
// skipped outcome. Every other failure is returned as an error.
func processGroup(ctx context.Context, cfg *contract.Config, seq *schema.ObservingSequence, group schema.LineGroup, deps Dependencies) (GroupOutcome, error) {
	outcome := GroupOutcome{Group: group}

	od, err := NewOrderData(seq, group, orderOptions(cfg, group.ID))
	if errors.Is(err, ErrLineNotFound) {
		outcome.Status = schema.SkippedOutcome
		outcome.Err = err
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}

	bg, err := NewBackground(od, cfg.YOffset, cfg.Background)
	if err != nil {
		return outcome, fmt.Errorf("%s: %w", group.Label(), err)
	}

	ab, err := NewAuroraBrightness(od, bg)
	if err != nil {
		return outcome, err
	}

	dir := GroupDir(cfg.SavePath, group.ID)
	if deps.Renderer != nil {
		if err := deps.Renderer.RenderBackground(od, bg, dir); err != nil {
			return outcome, fmt.Errorf("background graphic for %s: %w", group.Label(), err)
		}
	}

	rec, err := ab.SaveResults(deps.Writer, cfg.SavePath, runIDFromContext(ctx))
	if err != nil {
		return outcome, err
	}

	if deps.Renderer != nil {
		if err := deps.Renderer.RenderSpectrum(od, bg, dir); err != nil {
			return outcome, fmt.Errorf("spectrum graphic for %s: %w", group.Label(), err)
		}
	}

	outcome.Status = schema.RetrievedOutcome
	outcome.Record = rec
	return outcome, nil
}

// retrieveGroups processes groups one at a time in order. The context is
// checked before each group. Processing stops at the first failure other
// than a missing line, returning the outcomes gathered so far.
func retrieveGroups(ctx context.Context, cfg *contract.Config, seq *schema.ObservingSequence, groups []schema.LineGroup, deps Dependencies) ([]GroupOutcome, error) {
	outcomes := make([]GroupOutcome, 0, len(groups))
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := processGroup(ctx, cfg, seq, group, deps)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case schema.SkippedOutcome:
			notice(ctx, "%.1f not found! Skipping...\n", group.MeanWavelength())
		case schema.RetrievedOutcome:
			notice(ctx, "✨ %s: %s\n", group, schema.FormatBrightness(outcome.Record.Brightness, outcome.Record.Uncertainty, cfg.Precision))
		}
	}
	return outcomes, nil
}

// records returns the records of every retrieved outcome.
func records(outcomes []GroupOutcome) []*schema.ResultRecord {
	var out []*schema.ResultRecord
	for _, o := range outcomes {
		if o.Record != nil {
			out = append(out, o.Record)
		}
	}
	return out
}

// summaryChartPath returns the run-level chart file beneath the save path.
func summaryChartPath(cfg *contract.Config) string {
	return filepath.Join(cfg.SavePath, schema.SummaryChartFile)
}
