package core

import (
	"fmt"
	"math"

	"github.com/huangsam/aurora/core/algo"
	"github.com/huangsam/aurora/schema"
	"gonum.org/v1/gonum/floats"
)

// OrderOptions controls how a line group is located and cut out.
type OrderOptions struct {
	Seeing     float64 // arcsec
	TopTrim    int     // rows removed from the top edge
	BottomTrim int     // rows removed from the bottom edge
	Tolerance  float64 // nm between a target and its nearest column
	Window     int     // columns kept either side of the outermost target column
	Exclude    []int   // zero-based frame indices left out of the average
}

// FrameCutout is the trimmed, windowed image of one frame.
type FrameCutout struct {
	Index    int
	Filename string
	Data     [][]float64 // [trimmed row][window column]
}

// OrderData is the extracted view of one line group across every frame.
// It is built once and shared read-only by Background, AuroraBrightness
// and the graphics renderer. Slices returned by its methods must not be
// modified.
type OrderData struct {
	Group        schema.LineGroup
	Target       string
	EchelleOrder int
	Calibration  float64 // R per (count nm)
	PlateScale   float64 // arcsec per row
	TargetRadius float64 // arcsec
	Seeing       float64 // arcsec
	Rows         int     // untrimmed row count
	RowStart     int     // first trimmed row, full-order coordinates
	RowEnd       int     // one past the last trimmed row
	ColStart     int     // first window column
	ColEnd       int     // one past the last window column
	TopTrim      int
	BottomTrim   int

	targetColumns []int
	wavelengths   []float64
	dispersion    float64 // nm per column across the whole order
	frames        []FrameCutout
	excluded      map[int]struct{}
}

// NewOrderData locates the order holding every wavelength of group, trims
// it and records the frames excluded for the group.
func NewOrderData(seq *schema.ObservingSequence, group schema.LineGroup, opts OrderOptions) (*OrderData, error) {
	if opts.TopTrim < 0 || opts.BottomTrim < 0 {
		return nil, fmt.Errorf("%w: trims must not be negative (top %d, bottom %d)", ErrInvalidTrim, opts.TopTrim, opts.BottomTrim)
	}

	orderIdx, columns := locateOrder(seq, group, opts.Tolerance)
	if orderIdx < 0 {
		return nil, fmt.Errorf("%s: %w", group.Label(), ErrLineNotFound)
	}
	order := seq.Orders[orderIdx]

	if order.Calibration <= 0 {
		return nil, fmt.Errorf("%w for echelle order %d", ErrMissingCalibration, order.EchelleOrder)
	}

	rowStart, rowEnd := opts.TopTrim, order.Rows-opts.BottomTrim
	if rowEnd <= rowStart {
		return nil, fmt.Errorf("%w: top %d and bottom %d remove all %d rows", ErrInvalidTrim, opts.TopTrim, opts.BottomTrim, order.Rows)
	}

	lo, hi := columns[0], columns[0]
	for _, c := range columns {
		lo, hi = min(lo, c), max(hi, c)
	}
	ncols := len(order.Wavelengths)
	colStart := algo.Clamp(lo-opts.Window, 0, ncols-1)
	colEnd := algo.Clamp(hi+opts.Window, 0, ncols-1) + 1

	excluded := make(map[int]struct{}, len(opts.Exclude))
	for _, idx := range opts.Exclude {
		if idx < 0 || idx >= len(seq.Frames) {
			return nil, fmt.Errorf("%w: frame %d for %s, sequence has %d frames", ErrInvalidExclusion, idx, group.ID, len(seq.Frames))
		}
		excluded[idx] = struct{}{}
	}

	frames := make([]FrameCutout, len(seq.Frames))
	for i, f := range seq.Frames {
		img := f.Images[orderIdx]
		data := make([][]float64, rowEnd-rowStart)
		for r := range data {
			data[r] = img[rowStart+r][colStart:colEnd]
		}
		frames[i] = FrameCutout{Index: i, Filename: f.Filename, Data: data}
	}

	return &OrderData{
		Group:         group,
		Target:        seq.Target,
		EchelleOrder:  order.EchelleOrder,
		Calibration:   order.Calibration,
		PlateScale:    seq.PlateScale,
		TargetRadius:  seq.TargetRadius,
		Seeing:        opts.Seeing,
		Rows:          order.Rows,
		RowStart:      rowStart,
		RowEnd:        rowEnd,
		ColStart:      colStart,
		ColEnd:        colEnd,
		TopTrim:       opts.TopTrim,
		BottomTrim:    opts.BottomTrim,
		targetColumns: columns,
		wavelengths:   order.Wavelengths[colStart:colEnd],
		dispersion:    algo.MeanSpacing(order.Wavelengths),
		frames:        frames,
		excluded:      excluded,
	}, nil
}

// locateOrder returns the index of the order holding every target within
// tolerance and the nearest column of each target. When several orders
// qualify, the one whose axis midpoint is closest to the group mean wins.
func locateOrder(seq *schema.ObservingSequence, group schema.LineGroup, tolerance float64) (int, []int) {
	targets := group.Wavelengths()
	if len(targets) == 0 {
		return -1, nil
	}
	mean := group.MeanWavelength()

	best, bestDist := -1, math.Inf(1)
	var bestCols []int
	for oi, o := range seq.Orders {
		cols := make([]int, len(targets))
		ok := true
		for ti, w := range targets {
			idx, dist := algo.NearestIndex(o.Wavelengths, w)
			if idx < 0 || dist > tolerance {
				ok = false
				break
			}
			cols[ti] = idx
		}
		if !ok {
			continue
		}
		mid := (floats.Min(o.Wavelengths) + floats.Max(o.Wavelengths)) / 2
		if d := math.Abs(mid - mean); d < bestDist {
			best, bestDist, bestCols = oi, d, cols
		}
	}
	return best, bestCols
}

// TrimmedRows returns the number of rows left after trimming.
func (od *OrderData) TrimmedRows() int {
	return od.RowEnd - od.RowStart
}

// Columns returns the number of window columns.
func (od *OrderData) Columns() int {
	return od.ColEnd - od.ColStart
}

// Wavelengths returns the wavelength axis of the window.
func (od *OrderData) Wavelengths() []float64 {
	return od.wavelengths
}

// TargetColumns returns the nearest full-order column of each target wavelength.
func (od *OrderData) TargetColumns() []int {
	return od.targetColumns
}

// Dispersion returns the mean wavelength step of the window in nm. A
// one-column window takes the step of the whole order.
func (od *OrderData) Dispersion() float64 {
	if len(od.wavelengths) < 2 {
		return od.dispersion
	}
	return algo.MeanSpacing(od.wavelengths)
}

// Frames returns every frame cutout, excluded frames included.
func (od *OrderData) Frames() []FrameCutout {
	return od.frames
}

// IsExcluded reports whether frame i is left out of the average.
func (od *OrderData) IsExcluded(i int) bool {
	_, ok := od.excluded[i]
	return ok
}

// Excluded returns the excluded frame indices in ascending order.
func (od *OrderData) Excluded() []int {
	return schema.SortedIndices(od.excluded)
}

// Included returns the number of frames contributing to the average.
func (od *OrderData) Included() int {
	return len(od.frames) - len(od.excluded)
}
