package qa

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/aurora/schema"
)

// SummaryChart writes an HTML page holding the per-frame brightness of every
// retrieved line group and a bar chart of the averaged brightnesses.
func SummaryChart(records []*schema.ResultRecord, file string) error {
	if len(records) == 0 {
		return fmt.Errorf("no retrieved line groups to chart")
	}
	target := records[0].Target

	frames := 0
	for _, rec := range records {
		frames = max(frames, len(rec.Frames))
	}
	x := make([]string, frames)
	for i := range x {
		x[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: target + " aurora", Width: "1000px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Brightness per frame", Subtitle: target}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Brightness (" + schema.BrightnessUnit + ")"}),
	)
	line.SetXAxis(x)
	for _, rec := range records {
		data := make([]opts.LineData, frames)
		for i := range data {
			data[i] = opts.LineData{Value: "-"}
		}
		for i, f := range rec.Frames {
			if f.Excluded {
				continue
			}
			data[i] = opts.LineData{Value: f.Brightness, Name: f.Filename}
		}
		line.AddSeries(rec.Label+" nm", data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}

	labels := make([]string, len(records))
	means := make([]opts.BarData, len(records))
	errs := make([]opts.BarData, len(records))
	for i, rec := range records {
		labels[i] = rec.Label
		means[i] = opts.BarData{Value: rec.Brightness}
		errs[i] = opts.BarData{Value: rec.Uncertainty}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Averaged brightness", Subtitle: fmt.Sprintf("%d line groups", len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Line (nm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Brightness (" + schema.BrightnessUnit + ")"}),
	)
	bar.SetXAxis(labels).
		AddSeries("brightness", means, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("uncertainty", errs)

	page := components.NewPage()
	page.PageTitle = target + " aurora"
	page.AddCharts(line, bar)

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", file, err)
	}
	return f.Close()
}
