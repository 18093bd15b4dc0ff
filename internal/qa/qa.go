// Package qa draws the diagnostic graphics of a retrieval: PNG figures of the
// background fit and the extracted spectrum of each line group
// (gonum.org/v1/plot), and an HTML summary chart of the run (go-echarts).
package qa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure size of the PNG graphics.
const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
)

// Renderer writes every graphic of a run.
type Renderer struct{}

var _ core.Renderer = Renderer{} // Compile-time check

// RenderBackground implements core.Renderer.
func (Renderer) RenderBackground(od *core.OrderData, bg *core.Background, dir string) error {
	if err := BackgroundGraphic(od, bg, dir); err != nil {
		return err
	}
	return BackgroundImage(od, dir)
}

// RenderSpectrum implements core.Renderer.
func (Renderer) RenderSpectrum(od *core.OrderData, bg *core.Background, dir string) error {
	return SpectrumGraphic(od, bg, dir)
}

// RenderSummary implements core.Renderer.
func (Renderer) RenderSummary(records []*schema.ResultRecord, file string) error {
	return SummaryChart(records, file)
}

// includedMean averages rows(i) over the frames that are not excluded.
// All frames are averaged when every frame is excluded.
func includedMean(od *core.OrderData, rows func(frame int) []float64) []float64 {
	var mean []float64
	n := 0
	for i := range od.Frames() {
		if od.IsExcluded(i) && od.Included() > 0 {
			continue
		}
		v := rows(i)
		if mean == nil {
			mean = make([]float64, len(v))
		}
		floats.Add(mean, v)
		n++
	}
	if n > 0 {
		floats.Scale(1/float64(n), mean)
	}
	return mean
}

// verticalMarker returns a line spanning [ymin, ymax] at x.
func verticalMarker(x, ymin, ymax float64, style draw.LineStyle) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: ymin}, {X: x, Y: ymax}})
	if err != nil {
		return nil, err
	}
	l.LineStyle = style
	return l, nil
}

// newPlot creates a plot with the common title, labels and grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

// save writes p as a PNG figure named file inside dir, creating dir when needed.
func save(p *plot.Plot, dir, file string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, file)
	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
