package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeRecordTable writes the human-readable results.txt of one line group.
func writeRecordTable(w io.Writer, rec *schema.ResultRecord, precision int) error {
	nf := newNumberFormat(precision)

	clamped := ""
	if rec.Aperture.Clamped {
		clamped = " (" + contract.ClampedValue + ")"
	}
	header := []string{
		fmt.Sprintf("Line: %s %s nm (%s)", rec.Species, rec.Label, rec.LineID),
		fmt.Sprintf("Wavelengths: %s nm", schema.FormatWavelengths(rec.Wavelengths)),
		fmt.Sprintf("Target: %s, echelle order %d", rec.Target, rec.EchelleOrder),
		fmt.Sprintf("Aperture: rows %d-%d%s, seeing %s arcsec, y-offset %d", rec.Aperture.Start, rec.Aperture.End, clamped, nf.float(rec.Seeing), rec.YOffset),
		fmt.Sprintf("Trim: top %d, bottom %d; background: %s", rec.TopTrim, rec.BottomTrim, rec.Background),
		fmt.Sprintf("Excluded frames: %s", schema.FormatIndices(rec.ExcludedFrames)),
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	frames := tablewriter.NewWriter(w)
	frames.Header([]string{"Frame", "File", "Brightness (R)", "Uncertainty (R)", "Used"})
	frames.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, f := range rec.Frames {
		used := "yes"
		if f.Excluded {
			used = "no"
		}
		data = append(data, []string{strconv.Itoa(f.Index), f.Filename, nf.float(f.Brightness), nf.float(f.Uncertainty), used})
	}
	if err := frames.Bulk(data); err != nil {
		return err
	}
	if err := frames.Render(); err != nil {
		return err
	}

	if len(rec.Transitions) > 1 {
		transitions := tablewriter.NewWriter(w)
		transitions.Header([]string{"Wavelength (nm)", "Strength", "Brightness (R)", "Uncertainty (R)"})
		transitions.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		data = data[:0]
		for _, t := range rec.Transitions {
			data = append(data, []string{
				strconv.FormatFloat(t.Wavelength, 'f', 3, 64),
				strconv.FormatFloat(t.LineStrength, 'f', 4, 64),
				nf.float(t.Brightness),
				nf.float(t.Uncertainty),
			})
		}
		if err := transitions.Bulk(data); err != nil {
			return err
		}
		if err := transitions.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Brightness: %s (standard error %s, systematic %s, %d of %d frames)\n",
		schema.FormatBrightness(rec.Brightness, rec.Uncertainty, precision),
		nf.float(rec.StandardError), nf.float(rec.Systematic), rec.IncludedFrames(), len(rec.Frames))
	return err
}
