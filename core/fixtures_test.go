package core

import (
	"context"
	"math"
	"sync"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
)

// Synthetic fixture geometry shared by the core tests.
const (
	fixtureRows       = 20
	fixtureCols       = 201
	fixtureStart      = 629.8 // nm
	fixtureDispersion = 0.002 // nm per column
	fixtureSigma      = 0.006 // nm
	fixtureCal        = 2.5
	fixturePlateScale = 0.5
)

// gaussian returns a unit-area Gaussian of width sigma centered on mu.
func gaussian(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-0.5*d*d) / (sigma * math.Sqrt(2*math.Pi))
}

// fixtureAxis returns a linear wavelength axis.
func fixtureAxis(start, step float64, n int) []float64 {
	wl := make([]float64, n)
	for i := range wl {
		wl[i] = start + float64(i)*step
	}
	return wl
}

// signalRows distributes the line flux over rows around the order center.
var signalRows = map[int]float64{9: 0.25, 10: 0.5, 11: 0.25}

// newFixtureSequence builds a one-order sequence holding a line at center
// with integrated area areas[f] in frame f on a background given per row.
func newFixtureSequence(center float64, areas []float64, background func(row int) float64) *schema.ObservingSequence {
	wl := fixtureAxis(fixtureStart, fixtureDispersion, fixtureCols)
	seq := &schema.ObservingSequence{
		Target:     "Ganymede",
		PlateScale: fixturePlateScale,
		Orders: []schema.SpectralOrder{{
			EchelleOrder: 42,
			Wavelengths:  wl,
			Rows:         fixtureRows,
			Calibration:  fixtureCal,
		}},
	}
	for f, area := range areas {
		img := make([][]float64, fixtureRows)
		for r := range img {
			img[r] = make([]float64, fixtureCols)
			for c := range img[r] {
				img[r][c] = background(r) + area*signalRows[r]*gaussian(wl[c], center, fixtureSigma)
			}
		}
		seq.Frames = append(seq.Frames, schema.Frame{Index: f, Filename: "frame.fits", Images: [][][]float64{img}})
	}
	return seq
}

// flat returns a background of constant level.
func flat(level float64) func(int) float64 {
	return func(int) float64 { return level }
}

// singleLine returns a one-transition group at wavelength w.
func singleLine(id schema.LineID, w, strength float64) schema.LineGroup {
	return schema.LineGroup{ID: id, Species: "O I", Lines: []schema.EmissionLine{{RestWavelength: w, LineStrength: strength}}}
}

// fixtureOptions returns untrimmed options wide enough to hold the whole line.
func fixtureOptions() OrderOptions {
	return OrderOptions{Seeing: 1, Tolerance: schema.DefaultTolerance, Window: 40}
}

// memoryReader serves a sequence held in memory.
type memoryReader struct {
	seq *schema.ObservingSequence
	err error
}

func (r *memoryReader) ReadSequence(context.Context, string) (*schema.ObservingSequence, error) {
	return r.seq, r.err
}

// memoryWriter keeps every written record keyed by directory.
type memoryWriter struct {
	mu        sync.Mutex
	records   map[string]*schema.ResultRecord
	summaries []*schema.RunSummary
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{records: make(map[string]*schema.ResultRecord)}
}

func (w *memoryWriter) WriteRecord(dir string, rec *schema.ResultRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records[dir] = rec
	return nil
}

func (w *memoryWriter) WriteSummary(summary *schema.RunSummary, _ *contract.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.summaries = append(w.summaries, summary)
	return nil
}

// countingRenderer records which graphics were requested.
type countingRenderer struct {
	backgrounds []string
	spectra     []string
	summaries   []string
}

func (r *countingRenderer) RenderBackground(_ *OrderData, _ *Background, dir string) error {
	r.backgrounds = append(r.backgrounds, dir)
	return nil
}

func (r *countingRenderer) RenderSpectrum(_ *OrderData, _ *Background, dir string) error {
	r.spectra = append(r.spectra, dir)
	return nil
}

func (r *countingRenderer) RenderSummary(_ []*schema.ResultRecord, file string) error {
	r.summaries = append(r.summaries, file)
	return nil
}
