package qa

import (
	"fmt"
	"image/color"
	"math"

	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	apertureStyle = draw.LineStyle{Color: color.RGBA{R: 200, A: 255}, Width: vg.Points(1.5)}
	trimStyle     = draw.LineStyle{Color: color.Gray{Y: 96}, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(4), vg.Points(3)}}
	levelStyle    = draw.LineStyle{Color: color.RGBA{B: 200, A: 255}, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(2), vg.Points(2)}}
)

// spatialProfile returns the window-summed counts of every trimmed row of a frame.
func spatialProfile(f core.FrameCutout) []float64 {
	out := make([]float64, len(f.Data))
	for r, row := range f.Data {
		out[r] = floats.Sum(row)
	}
	return out
}

// samplePoints returns the mean spatial profile at the trimmed rows outside
// the aperture, the rows the background is estimated from.
func samplePoints(od *core.OrderData, bg *core.Background) plotter.XYs {
	mean := includedMean(od, func(i int) []float64 { return spatialProfile(od.Frames()[i]) })
	var pts plotter.XYs
	for r, v := range mean {
		if row := od.RowStart + r; !bg.InAperture(row) {
			pts = append(pts, plotter.XY{X: float64(row), Y: v})
		}
	}
	return pts
}

// BackgroundGraphic writes background.png: the spatial profile of every
// frame with the background sample rows, the aperture bounds, trim bounds
// and the background level.
func BackgroundGraphic(od *core.OrderData, bg *core.Background, dir string) error {
	p := newPlot(
		fmt.Sprintf("%s %s nm background, order %d", od.Group.Species, od.Group.Label(), od.EchelleOrder),
		"Spatial bin", "Counts (window sum)")

	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i, f := range od.Frames() {
		profile := spatialProfile(f)
		pts := make(plotter.XYs, len(profile))
		for r, v := range profile {
			pts[r] = plotter.XY{X: float64(od.RowStart + r), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		if od.IsExcluded(i) {
			line.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(f.Filename, line)
		ymin, ymax = min(ymin, floats.Min(profile)), max(ymax, floats.Max(profile))
	}

	sample, err := plotter.NewScatter(samplePoints(od, bg))
	if err != nil {
		return err
	}
	sample.GlyphStyle.Shape = draw.CircleGlyph{}
	sample.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(sample)
	p.Legend.Add("sample rows", sample)

	level := includedMean(od, func(i int) []float64 { return []float64{bg.MeanLevel(i) * float64(od.Columns())} })
	if len(level) == 1 {
		ymin = min(ymin, level[0])
		lvl, err := plotter.NewLine(plotter.XYs{
			{X: float64(od.RowStart), Y: level[0]},
			{X: float64(od.RowEnd - 1), Y: level[0]},
		})
		if err != nil {
			return err
		}
		lvl.LineStyle = levelStyle
		p.Add(lvl)
		p.Legend.Add("background", lvl)
	}

	markers := []struct {
		x     float64
		style draw.LineStyle
		name  string
	}{
		{float64(bg.Aperture.Start), apertureStyle, "aperture"},
		{float64(bg.Aperture.End), apertureStyle, ""},
		{float64(od.RowStart), trimStyle, "trim"},
		{float64(od.RowEnd - 1), trimStyle, ""},
	}
	for _, m := range markers {
		l, err := verticalMarker(m.x, ymin, ymax, m.style)
		if err != nil {
			return err
		}
		p.Add(l)
		if m.name != "" {
			p.Legend.Add(m.name, l)
		}
	}

	return save(p, dir, schema.BackgroundGraphicFile)
}

// cutoutGrid adapts a mean cutout to plotter.GridXYZ.
type cutoutGrid struct {
	data        [][]float64 // [row][column]
	wavelengths []float64
	rowStart    int
}

func (g cutoutGrid) Dims() (c, r int)   { return len(g.wavelengths), len(g.data) }
func (g cutoutGrid) Z(c, r int) float64 { return g.data[r][c] }
func (g cutoutGrid) X(c int) float64    { return g.wavelengths[c] }
func (g cutoutGrid) Y(r int) float64    { return float64(g.rowStart + r) }

// BackgroundImage writes background_image.png: a heat map of the cutout
// averaged over the included frames.
func BackgroundImage(od *core.OrderData, dir string) error {
	rows := od.TrimmedRows()
	mean := make([][]float64, rows)
	for r := range mean {
		mean[r] = includedMean(od, func(i int) []float64 { return od.Frames()[i].Data[r] })
	}

	grid := cutoutGrid{data: mean, wavelengths: od.Wavelengths(), rowStart: od.RowStart}
	if c, r := grid.Dims(); c < 2 || r < 2 {
		return fmt.Errorf("cutout of %s is too small to image (%dx%d)", od.Group.Label(), r, c)
	}

	p := newPlot(
		fmt.Sprintf("%s %s nm mean cutout", od.Group.Species, od.Group.Label()),
		"Wavelength (nm)", "Spatial bin")
	p.Add(plotter.NewHeatMap(grid, palette.Heat(16, 1)))
	return save(p, dir, schema.BackgroundImageFile)
}
