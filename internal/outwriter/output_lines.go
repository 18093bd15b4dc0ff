package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintLines outputs the emission-line catalog using the configured output format.
func PrintLines(groups []schema.LineGroup, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, groups)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLinesCSV(w, groups)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLinesTable(w, groups)
		}, "Wrote table")
	}
}

// joinStrengths formats line strengths as "0.6667, 0.3333".
func joinStrengths(strengths []float64) string {
	parts := make([]string, len(strengths))
	for i, s := range strengths {
		parts[i] = strconv.FormatFloat(s, 'f', 4, 64)
	}
	return strings.Join(parts, ", ")
}

func writeLinesCSV(w io.Writer, groups []schema.LineGroup) error {
	header := []string{"line_id", "label", "species", "wavelengths", "line_strengths", "total_strength"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range groups {
			if err := cw.Write([]string{
				string(g.ID),
				g.Label(),
				g.Species,
				strings.ReplaceAll(schema.FormatWavelengths(g.Wavelengths()), ", ", "|"),
				strings.ReplaceAll(joinStrengths(g.Strengths()), ", ", "|"),
				strconv.FormatFloat(g.TotalStrength(), 'f', 4, 64),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLinesTable(w io.Writer, groups []schema.LineGroup) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Line", "Label (nm)", "Species", "Wavelengths (nm)", "Strengths"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, g := range groups {
		data = append(data, []string{
			string(g.ID),
			g.Label(),
			g.Species,
			schema.FormatWavelengths(g.Wavelengths()),
			joinStrengths(g.Strengths()),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d line groups\n", len(groups))
	return err
}

// PrintLineHistory outputs the stored results of one line group, newest first.
func PrintLineHistory(records []schema.LineResultRecord, cfg *contract.Config) error {
	nf := newNumberFormat(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, records, nf)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, records, nf)
		}, "Wrote table")
	}
}

func writeHistoryCSV(w io.Writer, records []schema.LineResultRecord, nf numberFormat) error {
	header := []string{"recorded_at", "run_id", "line_id", "echelle_order", "brightness", "uncertainty", "standard_error", "systematic", "frames_included", "frames_excluded"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			if err := cw.Write([]string{
				r.RecordedAt.Format(contract.DateTimeFormat),
				r.RunID,
				r.LineID,
				formatCount(r.EchelleOrder),
				nf.float(r.Brightness),
				nf.float(r.Uncertainty),
				nf.float(r.StandardError),
				nf.float(r.Systematic),
				formatCount(r.FramesIncluded),
				formatCount(r.FramesExcluded),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeHistoryTable(w io.Writer, records []schema.LineResultRecord, nf numberFormat) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results recorded yet.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recorded", "Run", "Order", "Brightness (R)", "Frames"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.RecordedAt.Local().Format(contract.DateTimeFormat),
			shortRunID(r.RunID),
			formatCount(r.EchelleOrder),
			nf.pair(r.Brightness, r.Uncertainty),
			formatCount(r.FramesIncluded) + "/" + formatCount(r.FramesIncluded+r.FramesExcluded),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d results for %s\n", len(records), records[0].LineID)
	return err
}

// shortRunID keeps the first block of a run UUID.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
