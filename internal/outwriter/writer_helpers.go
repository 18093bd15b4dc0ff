package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// writeWithFile sends one rendering of a result to outputFile, or to stdout
// when outputFile is empty. File output is confirmed on stderr.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(os.Stdout)
	}
	if err := createFile(outputFile, writer); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// createFile writes one artifact, closing the file before returning so that
// write errors surface. Errors from writer are returned wrapped with the path.
func createFile(path string, writer func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writer(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// writeJSON encodes data as indented JSON.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header followed by the rows produced by writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// numberFormat renders brightness values at the configured precision.
type numberFormat struct {
	precision int
}

func newNumberFormat(precision int) numberFormat {
	return numberFormat{precision: precision}
}

// float formats v with the configured number of decimals.
func (nf numberFormat) float(v float64) string {
	return strconv.FormatFloat(v, 'f', nf.precision, 64)
}

// pair formats a value with its uncertainty, e.g. "301.26 ± 4.10".
func (nf numberFormat) pair(v, u float64) string {
	return nf.float(v) + " ± " + nf.float(u)
}

// formatCount formats frame counts and echelle orders.
func formatCount[T ~int | ~int32](n T) string {
	return strconv.FormatInt(int64(n), 10)
}
