package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/parquet"
	"github.com/huangsam/aurora/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunSummary outputs the run summary, dispatching based on the output format configured.
func PrintRunSummary(summary *schema.RunSummary, cfg *contract.Config) error {
	nf := newNumberFormat(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, nf)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertSummary(summary))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, nf)
		}, "Wrote table")
	}
	return nil
}

// summaryCSVHeader lists the columns of the CSV summary.
var summaryCSVHeader = []string{
	"rank",
	"line_id",
	"label",
	"species",
	"echelle_order",
	"status",
	"brightness",
	"uncertainty",
	"frames",
	"excluded",
	"message",
}

// writeSummaryCSV writes one CSV row per line group.
func writeSummaryCSV(w io.Writer, summary *schema.RunSummary, nf numberFormat) error {
	return writeCSVWithHeader(w, summaryCSVHeader, func(cw *csv.Writer) error {
		for _, g := range summary.Groups {
			row := []string{
				strconv.Itoa(g.Rank),
				string(g.LineID),
				g.Label,
				g.Species,
				formatCount(g.Order),
				contract.GetPlainLabel(g.Status),
				nf.float(g.Brightness),
				nf.float(g.Uncertainty),
				formatCount(g.Frames),
				formatCount(g.Excluded),
				g.Message,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSummaryTable generates and writes the human-readable summary table.
func writeSummaryTable(w io.Writer, summary *schema.RunSummary, cfg *contract.Config, nf numberFormat) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Line", "Species", "Order", "Status", "Brightness (R)", "Frames", "Excluded", "Message"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxMessage := getMaxMessageWidth(cfg)
	var data [][]string
	for _, g := range summary.Groups {
		status := contract.GetPlainLabel(g.Status)
		if cfg.UseColors {
			status = contract.GetColorLabel(g.Status)
		}
		brightness, order, frames, excluded := "-", "-", "-", "-"
		if g.Status == schema.RetrievedOutcome {
			brightness = nf.pair(g.Brightness, g.Uncertainty)
			order = formatCount(g.Order)
			frames = formatCount(g.Frames)
			excluded = formatCount(g.Excluded)
		}
		data = append(data, []string{
			strconv.Itoa(g.Rank),
			g.Label + " nm",
			g.Species,
			order,
			status,
			brightness,
			frames,
			excluded,
			contract.TruncatePath(g.Message, maxMessage),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	duration := summary.EndTime.Sub(summary.StartTime)
	if _, err := fmt.Fprintf(w, "Retrieved %d of %d line groups for %s\n", summary.Retrieved(), len(summary.Groups), summary.Target); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Run %s completed in %v. Results: %s\n", summary.RunID, duration, summary.SavePath); err != nil {
		return err
	}
	return nil
}
