package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/parquet"
	"github.com/huangsam/aurora/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *schema.ResultRecord {
	return &schema.ResultRecord{
		RunID:         "5f0c7a56-1a8e-4b7e-9d35-2f1d7a9b6c01",
		LineID:        schema.OI7774,
		Label:         "777.4",
		Species:       "O I",
		Wavelengths:   []float64{777.194, 777.417, 777.539},
		LineStrengths: []float64{0.4286, 0.3333, 0.2381},
		Units:         schema.BrightnessUnit,
		Target:        "Ganymede",
		EchelleOrder:  44,
		Frames: []schema.FrameBrightness{
			{Index: 0, Filename: "20210608_000.fits", Brightness: 41.2, Uncertainty: 1.1},
			{Index: 1, Filename: "20210608_001.fits", Brightness: 97.3, Uncertainty: 1.4, Excluded: true},
			{Index: 2, Filename: "20210608_002.fits", Brightness: 38.8, Uncertainty: 0.9},
		},
		Transitions: []schema.TransitionBrightness{
			{Wavelength: 777.194, LineStrength: 0.4286, Brightness: 17.1, Uncertainty: 0.6},
			{Wavelength: 777.417, LineStrength: 0.3333, Brightness: 13.3, Uncertainty: 0.5},
			{Wavelength: 777.539, LineStrength: 0.2381, Brightness: 9.5, Uncertainty: 0.3},
		},
		Brightness:     40.0,
		Uncertainty:    1.4142135623730951,
		StandardError:  1.2,
		Systematic:     0.7106335201775948,
		ExcludedFrames: []int{1},
		Aperture:       schema.Aperture{Start: 16, End: 23, Center: 20, HalfWidth: 4, Clamped: true},
		TopTrim:        2,
		BottomTrim:     2,
		Seeing:         1,
		YOffset:        0,
		Background:     schema.MedianBackground,
		CreatedAt:      time.Date(2021, time.June, 8, 12, 30, 0, 123456789, time.UTC),
	}
}

func sampleSummary() *schema.RunSummary {
	start := time.Date(2021, time.June, 8, 12, 0, 0, 0, time.UTC)
	return &schema.RunSummary{
		RunID:     "5f0c7a56-1a8e-4b7e-9d35-2f1d7a9b6c01",
		Target:    "Ganymede",
		DataPath:  "/data/2021-06-08",
		SavePath:  "/data/2021-06-08/brightness",
		StartTime: start,
		EndTime:   start.Add(3 * time.Second),
		Groups: []schema.GroupSummary{
			{Rank: 1, LineID: schema.OI5577, Label: "557.7", Species: "O I", Status: schema.SkippedOutcome, Message: "557.7: wavelength not found in any order"},
			{Rank: 2, LineID: schema.OI6300, Label: "630.0", Species: "O I", Status: schema.RetrievedOutcome, Brightness: 301.25, Uncertainty: 4.5, Frames: 4, Excluded: 1, Order: 55},
		},
	}
}

func TestWriteRecordRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), string(schema.OI7774))
	rec := sampleRecord()

	require.NoError(t, NewOutWriter().WriteRecord(dir, rec))
	for _, name := range []string{schema.ResultsJSONFile, schema.ResultsTextFile, schema.FramesParquetFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	got, err := ReadResultRecord(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("ReadResultRecord() mismatch (-want +got):\n%s", diff)
	}

	frames, err := parquet.ReadFile[parquet.FrameRow](filepath.Join(dir, schema.FramesParquetFile))
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.True(t, frames[1].Excluded)
	assert.Equal(t, "OI-777.4", frames[2].LineID)
}

func TestWriteRecordText(t *testing.T) {
	dir := t.TempDir()
	ow := &OutWriter{Precision: 1}
	require.NoError(t, ow.WriteRecord(dir, sampleRecord()))

	content, err := os.ReadFile(filepath.Join(dir, schema.ResultsTextFile))
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Line: O I 777.4 nm (OI-777.4)")
	assert.Contains(t, text, "rows 16-23 (Clamped)")
	assert.Contains(t, text, "Excluded frames: 1")
	assert.Contains(t, text, "20210608_001.fits")
	assert.Contains(t, text, "777.539")
	assert.Contains(t, text, "Brightness: 40.0 ± 1.4 R (standard error 1.2, systematic 0.7, 2 of 3 frames)")
}

func TestWriteRecordUnwritableDir(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewOutWriter().WriteRecord(filepath.Join(blocker, "OI-630.0"), sampleRecord())
	assert.Error(t, err)
}

func TestReadResultRecordMissing(t *testing.T) {
	_, err := ReadResultRecord(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func summaryConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:     mode,
		OutputFile: filepath.Join(t.TempDir(), "summary."+string(mode)),
		Precision:  2,
		Width:      120,
	}
}

func TestPrintRunSummaryJSON(t *testing.T) {
	cfg := summaryConfig(t, schema.JSONOut)
	require.NoError(t, NewOutWriter().WriteSummary(sampleSummary(), cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got schema.RunSummary
	require.NoError(t, json.Unmarshal(content, &got))
	if diff := cmp.Diff(sampleSummary(), &got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintRunSummaryCSV(t *testing.T) {
	cfg := summaryConfig(t, schema.CSVOut)
	require.NoError(t, PrintRunSummary(sampleSummary(), cfg))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, summaryCSVHeader, rows[0])
	assert.Equal(t, []string{"2", "OI-630.0", "630.0", "O I", "55", "Retrieved", "301.25", "4.50", "4", "1", ""}, rows[2])
	assert.Equal(t, "Skipped", rows[1][5])
}

func TestPrintRunSummaryParquet(t *testing.T) {
	cfg := summaryConfig(t, schema.ParquetOut)
	require.NoError(t, PrintRunSummary(sampleSummary(), cfg))

	rows, err := parquet.ReadFile[parquet.SummaryRow](cfg.OutputFile)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "OI-557.7", rows[0].LineID)
	assert.Equal(t, 301.25, rows[1].Brightness)
}

func TestPrintRunSummaryTable(t *testing.T) {
	cfg := summaryConfig(t, schema.TextOut)
	require.NoError(t, PrintRunSummary(sampleSummary(), cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "630.0 nm")
	assert.Contains(t, text, "301.25 ± 4.50")
	assert.Contains(t, text, "Skipped")
	assert.Contains(t, text, "Retrieved 1 of 2 line groups for Ganymede")
	assert.Contains(t, text, "completed in 3s")
}

func TestPrintLines(t *testing.T) {
	groups := schema.AuroraLines(false)

	cfg := summaryConfig(t, schema.TextOut)
	require.NoError(t, PrintLines(groups, cfg))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "OI-844.6")
	assert.Contains(t, string(content), "5 line groups")

	cfg = summaryConfig(t, schema.CSVOut)
	require.NoError(t, PrintLines(groups, cfg))
	content, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, len(groups)+1)
	assert.Equal(t, "line_id,label,species,wavelengths,line_strengths,total_strength", lines[0])
	assert.Equal(t, "OI-630.0,630.0,O I,630.030,1.0000,1.0000", lines[2])

	cfg = summaryConfig(t, schema.JSONOut)
	require.NoError(t, PrintLines(groups, cfg))
	content, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded []schema.LineGroup
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, groups, decoded)
}

func TestPrintLineHistory(t *testing.T) {
	recorded := time.Date(2021, time.June, 8, 12, 0, 0, 0, time.UTC)
	records := []schema.LineResultRecord{
		{RunID: "5f0c7a56-1a8e-4b7e-9d35-2f1d7a9b6c01", LineID: "OI-630.0", EchelleOrder: 55, Brightness: 301.25, Uncertainty: 4.5, FramesIncluded: 3, FramesExcluded: 1, RecordedAt: recorded},
	}

	cfg := summaryConfig(t, schema.TextOut)
	require.NoError(t, PrintLineHistory(records, cfg))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "5f0c7a56")
	assert.Contains(t, string(content), "3/4")
	assert.Contains(t, string(content), "1 results for OI-630.0")

	cfg = summaryConfig(t, schema.CSVOut)
	require.NoError(t, PrintLineHistory(records, cfg))
	content, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2021-06-08 12:00:00,5f0c7a56-1a8e-4b7e-9d35-2f1d7a9b6c01,OI-630.0,55,301.25,4.50,0.00,0.00,3,1")

	cfg = summaryConfig(t, schema.TextOut)
	require.NoError(t, PrintLineHistory(nil, cfg))
	content, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "No results recorded yet.\n", string(content))
}

func TestGetMaxMessageWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 80, expected: 15},
		{width: 130, expected: 35},
		{width: 300, expected: 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, getMaxMessageWidth(&contract.Config{Width: tt.width}))
	}
}

func TestShortRunID(t *testing.T) {
	assert.Equal(t, "5f0c7a56", shortRunID("5f0c7a56-1a8e-4b7e-9d35-2f1d7a9b6c01"))
	assert.Equal(t, "legacy", shortRunID("legacy"))
}
