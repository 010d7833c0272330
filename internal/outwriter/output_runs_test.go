package outwriter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []schema.RunRecord {
	start := time.Now().Add(-time.Hour)
	return []schema.RunRecord{
		{RunID: "run-2", StartTime: start, EndTime: start.Add(2 * time.Second), Builder: "group", ClassColumn: "weightBugProneness", NumRows: 1200, NumColumns: 20},
		{RunID: "run-1", StartTime: start.Add(-time.Hour), Builder: "standard"},
	}
}

func TestWriteRunsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRunsTable(&buf, sampleRuns()))

	out := buf.String()
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "Showing 2 runs")
}

func TestWriteCSVRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVRuns(&buf, sampleRuns()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "run_id,start_time,end_time"))
	assert.True(t, strings.HasPrefix(lines[2], "run-1,"))
}

func TestWriteRunResults(t *testing.T) {
	dir := t.TempDir()

	cfg := &contract.Config{Output: schema.ParquetOut}
	assert.Error(t, WriteRunResults(sampleRuns(), cfg))

	cfg.OutputFile = filepath.Join(dir, "runs.parquet")
	assert.NoError(t, WriteRunResults(sampleRuns(), cfg))

	cfg = &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(dir, "runs.json")}
	assert.NoError(t, NewOutWriter().WriteRuns(sampleRuns(), cfg))

	cfg = &contract.Config{Output: schema.ARFFOut}
	assert.Error(t, WriteRunResults(sampleRuns(), cfg))
}
