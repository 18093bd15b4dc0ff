package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFormat(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "default precision", precision: 2, value: 301.256, expected: "301.26"},
		{name: "whole rayleighs", precision: 0, value: 12.5, expected: "12"},
		{name: "fine precision", precision: 4, value: 0.70710678, expected: "0.7071"},
		{name: "negative residual", precision: 2, value: -0.004, expected: "-0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newNumberFormat(tt.precision).float(tt.value))
		})
	}

	assert.Equal(t, "301.26 ± 4.10", newNumberFormat(2).pair(301.256, 4.1))
	assert.Equal(t, "42", formatCount(42))
	assert.Equal(t, "7", formatCount(int32(7)))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"line_id": "OI-630.0", "brightness": 12.5}))
	assert.Equal(t, "{\n  \"brightness\": 12.5,\n  \"line_id\": \"OI-630.0\"\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"line_id", "message"}, func(w *csv.Writer) error {
		return w.Write([]string{"OI-557.7", "557.7: not found, skipped"})
	})
	require.NoError(t, err)
	assert.Equal(t, "line_id,message\nOI-557.7,\"557.7: not found, skipped\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"line_id"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "Retrieved 4 of 5 line groups\n")
		return err
	}, "Wrote table"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Retrieved 4 of 5 line groups\n", string(content))

	err = writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote table")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "summary.txt")

	err = writeWithFile("/nonexistent/path/summary.txt", func(io.Writer) error { return nil }, "Wrote table")
	assert.Error(t, err)
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, createFile(path, func(w io.Writer) error {
		return writeJSON(w, []int{1})
	}))
	assert.FileExists(t, path)

	err := createFile(path, func(io.Writer) error { return assert.AnError })
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "results.json")
}
