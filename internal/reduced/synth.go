package reduced

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/huangsam/aurora/schema"
)

// echelleConstant approximates m*lambda (nm) for the simulated spectrograph.
const echelleConstant = 34600.0

// Synthetic observation defaults.
const (
	DefaultSynthFrames       = 4
	DefaultSynthRows         = 40
	DefaultSynthColumns      = 400
	DefaultSynthPlateScale   = 0.3 // arcsec per bin
	DefaultSynthTargetRadius = 0.8 // arcsec
	DefaultSynthBackground   = 10.0
	DefaultSynthNoise        = 0.05
	DefaultSynthCalibration  = 2.0
	DefaultSynthBrightness   = 20.0 // R
)

// defaultBrightness holds typical satellite auroral brightnesses in Rayleighs.
var defaultBrightness = map[schema.LineID]float64{
	schema.OI5577: 80,
	schema.OI6300: 300,
	schema.OI6364: 100,
	schema.OI7774: 40,
	schema.OI8446: 60,
}

// SynthOptions describes a simulated observing night.
type SynthOptions struct {
	Target       string
	Seed         uint64
	Frames       int
	Rows         int
	Columns      int
	PlateScale   float64
	TargetRadius float64
	Background   float64 // counts per bin
	Noise        float64 // standard deviation of the background, counts per bin
	Calibration  float64 // R per (count nm)
	Extended     bool
	Brightness   map[schema.LineID]float64 // R, per line group
	Omit         []schema.LineID           // groups left without an order
	Start        time.Time
	Exposure     time.Duration
}

// withDefaults fills zero-valued options.
func (o SynthOptions) withDefaults() SynthOptions {
	if o.Target == "" {
		o.Target = "Ganymede"
	}
	if o.Frames == 0 {
		o.Frames = DefaultSynthFrames
	}
	if o.Rows == 0 {
		o.Rows = DefaultSynthRows
	}
	if o.Columns == 0 {
		o.Columns = DefaultSynthColumns
	}
	if o.PlateScale == 0 {
		o.PlateScale = DefaultSynthPlateScale
	}
	if o.TargetRadius == 0 {
		o.TargetRadius = DefaultSynthTargetRadius
	}
	if o.Background == 0 {
		o.Background = DefaultSynthBackground
	}
	if o.Calibration == 0 {
		o.Calibration = DefaultSynthCalibration
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2021, time.June, 8, 9, 0, 0, 0, time.UTC)
	}
	if o.Exposure == 0 {
		o.Exposure = 5 * time.Minute
	}
	return o
}

// BrightnessOf returns the injected brightness of a line group.
func (o SynthOptions) BrightnessOf(id schema.LineID) float64 {
	if b, ok := o.Brightness[id]; ok {
		return b
	}
	if b, ok := defaultBrightness[id]; ok {
		return b
	}
	return DefaultSynthBrightness
}

// Synthesize simulates a reduced observing night holding one rectified order
// per catalog group. Each group is a Gaussian in wavelength and along the slit
// whose calibrated integral equals the injected brightness, on a flat
// background with Gaussian noise. The same seed yields the same night.
func Synthesize(opts SynthOptions) (*schema.ObservingSequence, *schema.FluxCalibration, error) {
	opts = opts.withDefaults()
	if opts.Frames < 1 || opts.Rows < 3 || opts.Columns < 3 {
		return nil, nil, fmt.Errorf("synthetic night needs frames >= 1, rows >= 3 and columns >= 3 (got %d, %d, %d)",
			opts.Frames, opts.Rows, opts.Columns)
	}
	if opts.PlateScale <= 0 || opts.Calibration <= 0 || opts.Noise < 0 {
		return nil, nil, fmt.Errorf("synthetic night needs a positive plate scale and calibration and a non-negative noise")
	}

	omit := make(map[schema.LineID]struct{}, len(opts.Omit))
	for _, id := range opts.Omit {
		omit[id] = struct{}{}
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	spatial := spatialProfile(opts.Rows, opts.TargetRadius/(2*opts.PlateScale))

	seq := &schema.ObservingSequence{
		Target:       opts.Target,
		PlateScale:   opts.PlateScale,
		TargetRadius: opts.TargetRadius,
	}
	cal := &schema.FluxCalibration{}

	// spectra[o][c] is the spatially integrated line flux of order o.
	var spectra [][]float64
	prevOrder := math.MaxInt
	for _, g := range schema.AuroraLines(opts.Extended) {
		if _, ok := omit[g.ID]; ok {
			continue
		}
		wl, spectrum := groupSpectrum(g, opts)

		m := int(math.Round(echelleConstant / g.MeanWavelength()))
		if m >= prevOrder {
			m = prevOrder - 1
		}
		prevOrder = m

		seq.Orders = append(seq.Orders, schema.SpectralOrder{
			EchelleOrder: m,
			Wavelengths:  wl,
			Rows:         opts.Rows,
			Calibration:  opts.Calibration,
		})
		cal.Orders = append(cal.Orders, schema.OrderCalibration{EchelleOrder: m, CalibrationFactor: opts.Calibration})
		spectra = append(spectra, spectrum)
	}

	for f := range opts.Frames {
		frame := schema.Frame{
			Index:    f,
			Filename: fmt.Sprintf("%s_%03d.fits", opts.Start.Format("20060102"), f),
			Observed: opts.Start.Add(time.Duration(f) * opts.Exposure),
			Images:   make([][][]float64, len(seq.Orders)),
		}
		for oi, spectrum := range spectra {
			img := make([][]float64, opts.Rows)
			for r := range img {
				img[r] = make([]float64, len(spectrum))
				for c, flux := range spectrum {
					img[r][c] = opts.Background + opts.Noise*rng.NormFloat64() + flux*spatial[r]
				}
			}
			frame.Images[oi] = img
		}
		seq.Frames = append(seq.Frames, frame)
	}
	return seq, cal, nil
}

// groupSpectrum returns the wavelength axis of the order centered on g and
// the line flux per column, before the spatial profile is applied.
func groupSpectrum(g schema.LineGroup, opts SynthOptions) ([]float64, []float64) {
	mean := g.MeanWavelength()
	var span float64
	for _, w := range g.Wavelengths() {
		span = max(span, 2*math.Abs(w-mean))
	}
	dispersion := max(0.002, (span+0.4)/float64(opts.Columns))
	sigma := 1.25 * dispersion

	wl := make([]float64, opts.Columns)
	start := mean - dispersion*float64(opts.Columns-1)/2
	for c := range wl {
		wl[c] = start + float64(c)*dispersion
	}

	// Integrated counts per nm whose calibrated brightness is the injected value.
	area := opts.BrightnessOf(g.ID) / (opts.Calibration * g.TotalStrength())
	total := g.TotalStrength()
	spectrum := make([]float64, opts.Columns)
	for _, line := range g.Lines {
		share := area * line.LineStrength / total
		for c, w := range wl {
			d := (w - line.RestWavelength) / sigma
			spectrum[c] += share * math.Exp(-0.5*d*d) / (sigma * math.Sqrt(2*math.Pi))
		}
	}
	return wl, spectrum
}

// spatialProfile returns a Gaussian along the slit centered on the middle row,
// normalized so the rows sum to one.
func spatialProfile(rows int, sigma float64) []float64 {
	sigma = max(sigma, 0.5)
	center := float64(rows / 2)
	profile := make([]float64, rows)
	var sum float64
	for r := range profile {
		d := (float64(r) - center) / sigma
		profile[r] = math.Exp(-0.5 * d * d)
		sum += profile[r]
	}
	for r := range profile {
		profile[r] /= sum
	}
	return profile
}
