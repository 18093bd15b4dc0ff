package core

import (
	"fmt"
	"math"

	"github.com/huangsam/aurora/core/algo"
	"github.com/huangsam/aurora/schema"
)

// minPolyRows is the fewest sample rows a linear background fit accepts.
// Smaller samples fall back to the median.
const minPolyRows = 3

// Background is the per-frame background model of an OrderData, estimated
// from the trimmed rows outside the target aperture.
type Background struct {
	Method   schema.BackgroundMethod
	Aperture schema.Aperture // full-order row coordinates, inclusive
	YOffset  int

	od         *OrderData
	sampleRows []int         // full-order row coordinates
	levels     [][][]float64 // [frame][trimmed row][window column]
	scatter    []float64     // per frame
}

// NewBackground centers the aperture at the order center plus yOffset and
// models the background of every frame with the given method.
//
// The aperture half-width is the target radius plus seeing, in rows. When
// the aperture reaches past the trimmed rows it is clamped and marked as
// such. An aperture entirely outside the trimmed rows, or one leaving no
// rows for the background, is an error.
func NewBackground(od *OrderData, yOffset int, method schema.BackgroundMethod) (*Background, error) {
	center := od.Rows/2 + yOffset
	halfWidth := int(math.Ceil((od.TargetRadius + od.Seeing) / od.PlateScale))

	start, end := center-halfWidth, center+halfWidth
	ap := schema.Aperture{
		Start:     max(start, od.RowStart),
		End:       min(end, od.RowEnd-1),
		Center:    center,
		HalfWidth: halfWidth,
	}
	ap.Clamped = ap.Start != start || ap.End != end
	if ap.Rows() == 0 {
		return nil, fmt.Errorf("%w: rows %d..%d against trimmed %d..%d", ErrApertureOutOfRange, start, end, od.RowStart, od.RowEnd-1)
	}

	var sample []int
	for r := od.RowStart; r < od.RowEnd; r++ {
		if r < ap.Start || r > ap.End {
			sample = append(sample, r)
		}
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("%w: aperture %d..%d covers all trimmed rows", ErrNoBackgroundRows, ap.Start, ap.End)
	}

	if method == "" {
		method = schema.MedianBackground
	}
	bg := &Background{
		Method:     method,
		Aperture:   ap,
		YOffset:    yOffset,
		od:         od,
		sampleRows: sample,
	}
	for _, f := range od.Frames() {
		levels, scatter, err := bg.model(f)
		if err != nil {
			return nil, fmt.Errorf("background of frame %d: %w", f.Index, err)
		}
		bg.levels = append(bg.levels, levels)
		bg.scatter = append(bg.scatter, scatter)
	}
	return bg, nil
}

// model fits every window column of one frame and returns the background
// level at every trimmed row plus the scatter of the sample around it.
func (bg *Background) model(f FrameCutout) ([][]float64, float64, error) {
	od := bg.od
	rows, cols := od.TrimmedRows(), od.Columns()

	x := make([]float64, len(bg.sampleRows))
	for i, r := range bg.sampleRows {
		x[i] = float64(r)
	}

	levels := make([][]float64, rows)
	for r := range levels {
		levels[r] = make([]float64, cols)
	}
	residuals := make([]float64, 0, len(bg.sampleRows)*cols)
	y := make([]float64, len(bg.sampleRows))

	for c := range cols {
		for i, r := range bg.sampleRows {
			y[i] = f.Data[r-od.RowStart][c]
		}

		var eval func(float64) float64
		if bg.Method == schema.PolyBackground && len(y) >= minPolyRows {
			coef, err := algo.PolyFit(x, y, 1)
			if err != nil {
				return nil, 0, err
			}
			eval = func(row float64) float64 { return algo.PolyEval(coef, row) }
		} else {
			m := algo.Median(y)
			eval = func(float64) float64 { return m }
		}

		for r := range rows {
			levels[r][c] = eval(float64(od.RowStart + r))
		}
		for i, r := range bg.sampleRows {
			residuals = append(residuals, y[i]-levels[r-od.RowStart][c])
		}
	}
	return levels, algo.PopulationStdDev(residuals), nil
}

// SampleRows returns the full-order rows used to estimate the background.
func (bg *Background) SampleRows() []int {
	return bg.sampleRows
}

// InAperture reports whether a full-order row lies inside the aperture.
func (bg *Background) InAperture(row int) bool {
	return row >= bg.Aperture.Start && row <= bg.Aperture.End
}

// Level returns the background of frame at a full-order row and window column.
func (bg *Background) Level(frame, row, col int) float64 {
	return bg.levels[frame][row-bg.od.RowStart][col]
}

// Scatter returns the residual scatter of the background sample of frame.
func (bg *Background) Scatter(frame int) float64 {
	return bg.scatter[frame]
}

// MeanLevel returns the background of frame averaged over the aperture and window.
func (bg *Background) MeanLevel(frame int) float64 {
	var sum float64
	n := 0
	for r := bg.Aperture.Start; r <= bg.Aperture.End; r++ {
		for _, v := range bg.levels[frame][r-bg.od.RowStart] {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Subtracted returns the background-subtracted aperture rows of frame
// summed per window column.
func (bg *Background) Subtracted(frame int) []float64 {
	od := bg.od
	f := od.Frames()[frame]
	out := make([]float64, od.Columns())
	for r := bg.Aperture.Start; r <= bg.Aperture.End; r++ {
		row := f.Data[r-od.RowStart]
		lvl := bg.levels[frame][r-od.RowStart]
		for c := range out {
			out[c] += row[c] - lvl[c]
		}
	}
	return out
}
