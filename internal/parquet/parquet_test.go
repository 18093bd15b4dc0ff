package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/aurora/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievalRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RetrievalRun))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"target",
		"data_path",
		"start_time",
		"end_time",
		"run_duration_ms",
		"lines_retrieved",
		"lines_skipped",
		"config_params",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestLineResultStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(LineResult))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"line_id",
		"label",
		"species",
		"echelle_order",
		"brightness",
		"uncertainty",
		"standard_error",
		"systematic",
		"frames_included",
		"frames_excluded",
		"recorded_at",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func sampleRuns() []RetrievalRun {
	now := time.Now()
	end := now.Add(90 * time.Second)
	duration := int32(90000)
	config := `{"seeing":1,"background":"median"}`
	return []RetrievalRun{
		{
			RunID:          "8d1c2c1e-5d0e-4a52-a3d1-4b0c1f7a2e11",
			Target:         "Io",
			DataPath:       "/data/2021-06-08",
			StartTime:      now,
			EndTime:        &end,
			RunDurationMs:  &duration,
			LinesRetrieved: 4,
			LinesSkipped:   1,
			ConfigParams:   &config,
		},
		{
			// Interrupted run with nullable fields unset
			RunID:     "2b6f6f5e-2c8c-4d0a-9a55-06a8c0f2d7b4",
			Target:    "Europa",
			DataPath:  "/data/2021-06-09",
			StartTime: now.Add(time.Hour),
		},
	}
}

func TestWriteFileRetrievalRuns(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteFile(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RetrievalRun](file)
	defer reader.Close()

	readData := make([]RetrievalRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].Target, readData[i].Target)
		assert.Equal(t, data[i].LinesRetrieved, readData[i].LinesRetrieved)
		assert.WithinDuration(t, data[i].StartTime, readData[i].StartTime, time.Nanosecond)
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime)
		} else {
			require.NotNil(t, readData[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond)
		}
		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteFileEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteFile([]LineResult{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")

	rows, err := ReadFile[LineResult](outputPath)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteFileInvalidPath(t *testing.T) {
	err := WriteFile(sampleRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile[FrameRow](filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
}

func TestWriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	rows := []SummaryRow{{Rank: 1, LineID: "OI-630.0", Status: "retrieved", Brightness: 12.5}}
	require.NoError(t, Write(&buf, rows))
	assert.Equal(t, "PAR1", buf.String()[:4])
}

func TestConvertFrames(t *testing.T) {
	rec := &schema.ResultRecord{
		RunID:  "run-1",
		LineID: schema.OI5577,
		Frames: []schema.FrameBrightness{
			{Index: 0, Filename: "a.fits", Brightness: 10, Uncertainty: 1},
			{Index: 1, Filename: "b.fits", Brightness: 30, Uncertainty: 2, Excluded: true},
		},
	}

	rows := ConvertFrames(rec)
	require.Len(t, rows, 2)
	assert.Equal(t, FrameRow{RunID: "run-1", LineID: "OI-557.7", FrameIndex: 1, Filename: "b.fits", Brightness: 30, Uncertainty: 2, Excluded: true}, rows[1])

	path := filepath.Join(t.TempDir(), schema.FramesParquetFile)
	require.NoError(t, WriteFile(rows, path))
	readBack, err := ReadFile[FrameRow](path)
	require.NoError(t, err)
	assert.Equal(t, rows, readBack)
}

func TestConvertSummary(t *testing.T) {
	summary := &schema.RunSummary{
		RunID:  "run-2",
		Target: "Io",
		Groups: []schema.GroupSummary{
			{Rank: 1, LineID: schema.OI5577, Label: "557.7", Species: "O I", Status: schema.SkippedOutcome, Message: "557.7: wavelength not found"},
			{Rank: 2, LineID: schema.OI6300, Label: "630.0", Species: "O I", Status: schema.RetrievedOutcome, Brightness: 12.5, Uncertainty: 1.5, Frames: 4, Excluded: 1, Order: 42},
		},
	}

	rows := ConvertSummary(summary)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Message)
	assert.Equal(t, "557.7: wavelength not found", *rows[0].Message)
	assert.Nil(t, rows[1].Message)
	assert.Equal(t, "retrieved", rows[1].Status)
	assert.Equal(t, int32(42), rows[1].EchelleOrder)
	assert.Equal(t, "Io", rows[1].Target)
}

func TestConvertRunStoreRecords(t *testing.T) {
	now := time.Now()
	runs := ConvertRetrievalRunRecords([]schema.RetrievalRunRecord{{RunID: "r", Target: "Io", StartTime: now, LinesRetrieved: 3}})
	require.Len(t, runs, 1)
	assert.Equal(t, "r", runs[0].RunID)
	assert.Equal(t, int32(3), runs[0].LinesRetrieved)

	lines := ConvertLineResultRecords([]schema.LineResultRecord{{RunID: "r", LineID: "OI-630.0", Brightness: 7.5, FramesIncluded: 3, RecordedAt: now}})
	require.Len(t, lines, 1)
	assert.Equal(t, "OI-630.0", lines[0].LineID)
	assert.Equal(t, 7.5, lines[0].Brightness)
	assert.Equal(t, int32(3), lines[0].FramesIncluded)
}
