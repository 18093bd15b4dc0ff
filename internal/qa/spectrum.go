package qa

import (
	"fmt"
	"image/color"

	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var targetStyle = draw.LineStyle{Color: color.RGBA{R: 220, G: 120, A: 255}, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(4), vg.Points(2)}}

// SpectrumGraphic writes spectrum.png: the background-subtracted aperture
// spectrum averaged over the included frames, with the target wavelengths marked.
func SpectrumGraphic(od *core.OrderData, bg *core.Background, dir string) error {
	spectrum := includedMean(od, bg.Subtracted)
	wl := od.Wavelengths()
	if len(spectrum) != len(wl) || len(wl) == 0 {
		return fmt.Errorf("spectrum of %s has no samples", od.Group.Label())
	}

	p := newPlot(
		fmt.Sprintf("%s %s nm, %s (%d of %d frames)", od.Group.Species, od.Group.Label(), od.Target, od.Included(), len(od.Frames())),
		"Wavelength (nm)", "Counts (aperture sum)")

	pts := make(plotter.XYs, len(wl))
	for c := range wl {
		pts[c] = plotter.XY{X: wl[c], Y: spectrum[c]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("spectrum", line)

	ymin, ymax := min(floats.Min(spectrum), 0), floats.Max(spectrum)
	for i, w := range od.Group.Wavelengths() {
		marker, err := verticalMarker(w, ymin, ymax, targetStyle)
		if err != nil {
			return err
		}
		p.Add(marker)
		if i == 0 {
			p.Legend.Add(schema.FormatWavelengths(od.Group.Wavelengths())+" nm", marker)
		}
	}

	return save(p, dir, schema.SpectrumGraphicFile)
}
