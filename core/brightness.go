package core

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/huangsam/aurora/core/algo"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
)

// AuroraBrightness holds the calibrated brightness of one line group per
// frame and averaged over the included frames.
type AuroraBrightness struct {
	Frames        []schema.FrameBrightness
	Mean          float64 // R
	Uncertainty   float64 // R, standard error and systematic in quadrature
	StandardError float64 // R
	Systematic    float64 // R

	od *OrderData
	bg *Background
}

// NewAuroraBrightness integrates the background-subtracted aperture of every
// frame, converts it to Rayleighs and averages the frames that are not
// excluded. It fails with ErrDegenerateAggregate when every frame is excluded.
func NewAuroraBrightness(od *OrderData, bg *Background) (*AuroraBrightness, error) {
	wl := od.Wavelengths()
	binWidth := od.Dispersion()
	if binWidth <= 0 {
		return nil, fmt.Errorf("%w: echelle order %d has no wavelength spacing", schema.ErrMalformedSequence, od.EchelleOrder)
	}
	scale := od.Calibration * od.Group.TotalStrength()
	cells := math.Sqrt(float64(bg.Aperture.Rows() * od.Columns()))

	ab := &AuroraBrightness{od: od, bg: bg}
	var values, sigmas []float64
	for i, f := range od.Frames() {
		signal := algo.Trapezoid(wl, bg.Subtracted(i), binWidth)
		fb := schema.FrameBrightness{
			Index:       f.Index,
			Filename:    f.Filename,
			Brightness:  signal * scale,
			Uncertainty: bg.Scatter(i) * cells * binWidth * scale,
			Excluded:    od.IsExcluded(i),
		}
		ab.Frames = append(ab.Frames, fb)
		if !fb.Excluded {
			values = append(values, fb.Brightness)
			sigmas = append(sigmas, fb.Uncertainty)
		}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w (%d frames, %d excluded)", od.Group.Label(), ErrDegenerateAggregate, len(od.Frames()), len(od.Excluded()))
	}

	ab.Mean, ab.StandardError = algo.MeanStdErr(values)
	ab.Systematic = algo.QuadratureMean(sigmas)
	ab.Uncertainty = algo.Quadrature(ab.StandardError, ab.Systematic)
	return ab, nil
}

// Transitions splits the group brightness between its transitions by line strength.
func (ab *AuroraBrightness) Transitions() []schema.TransitionBrightness {
	total := ab.od.Group.TotalStrength()
	out := make([]schema.TransitionBrightness, len(ab.od.Group.Lines))
	for i, l := range ab.od.Group.Lines {
		frac := 0.0
		if total > 0 {
			frac = l.LineStrength / total
		}
		out[i] = schema.TransitionBrightness{
			Wavelength:   l.RestWavelength,
			LineStrength: l.LineStrength,
			Brightness:   ab.Mean * frac,
			Uncertainty:  ab.Uncertainty * frac,
		}
	}
	return out
}

// Record builds the persisted form of the result.
func (ab *AuroraBrightness) Record(runID string) *schema.ResultRecord {
	od, bg := ab.od, ab.bg
	return &schema.ResultRecord{
		RunID:          runID,
		LineID:         od.Group.ID,
		Label:          od.Group.Label(),
		Species:        od.Group.Species,
		Wavelengths:    od.Group.Wavelengths(),
		LineStrengths:  od.Group.Strengths(),
		Units:          schema.BrightnessUnit,
		Target:         od.Target,
		EchelleOrder:   od.EchelleOrder,
		Frames:         ab.Frames,
		Transitions:    ab.Transitions(),
		Brightness:     ab.Mean,
		Uncertainty:    ab.Uncertainty,
		StandardError:  ab.StandardError,
		Systematic:     ab.Systematic,
		ExcludedFrames: od.Excluded(),
		Aperture:       bg.Aperture,
		TopTrim:        od.TopTrim,
		BottomTrim:     od.BottomTrim,
		Seeing:         od.Seeing,
		YOffset:        bg.YOffset,
		Background:     bg.Method,
		CreatedAt:      time.Now().UTC(),
	}
}

// GroupDir returns the directory beneath savePath owned by a line group.
func GroupDir(savePath string, id schema.LineID) string {
	return filepath.Join(savePath, string(id))
}

// SaveResults writes the record of this result into the line group's own
// directory beneath savePath and returns it.
func (ab *AuroraBrightness) SaveResults(w contract.ResultWriter, savePath, runID string) (*schema.ResultRecord, error) {
	rec := ab.Record(runID)
	if err := w.WriteRecord(GroupDir(savePath, rec.LineID), rec); err != nil {
		return nil, fmt.Errorf("save results for %s: %w", rec.LineID, err)
	}
	return rec, nil
}
