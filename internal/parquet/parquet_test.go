package parquet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionRunStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(ExtractionRun))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"repo_path",
		"builder",
		"class_column",
		"num_rows",
		"num_columns",
		"config_params",
	}
	for _, colName := range expectedColumns {
		_, ok := sch.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertRunRecords(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	records := []schema.RunRecord{
		{RunID: "a", StartTime: start, EndTime: start.Add(1500 * time.Millisecond), NumRows: 10, Params: `{"builder":"standard"}`},
		{RunID: "b", StartTime: start},
	}
	runs := ConvertRunRecords(records)
	require.Len(t, runs, 2)

	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int64(1500), *runs[0].RunDurationMs)
	assert.Equal(t, int32(10), runs[0].NumRows)
	require.NotNil(t, runs[0].ConfigParams)

	assert.Nil(t, runs[1].EndTime)
	assert.Nil(t, runs[1].RunDurationMs)
	assert.Nil(t, runs[1].ConfigParams)
}

func TestWriteExtractionRunsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")
	runs := ConvertRunRecords([]schema.RunRecord{{RunID: "a", StartTime: time.Now()}})
	require.NoError(t, WriteExtractionRunsParquet(runs, path))

	rows, err := parquet.ReadFile[ExtractionRun](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].RunID)
}

func sampleTable(t *testing.T) *attrs.Table {
	t.Helper()
	s := attrs.NewSchema()
	name, err := s.AddColumn("methodName", schema.StringColumn)
	require.NoError(t, err)
	_, err = s.AddColumn("changes", schema.NumericColumn)
	require.NoError(t, err)
	_, err = s.AddColumn("linBugProneness0.0", schema.NumericColumn)
	require.NoError(t, err)

	table := attrs.NewTable(s)
	table.Append(
		attrs.Row{s.Intern(name, "A.m()"), 3, 0.5},
		attrs.Row{s.Intern(name, "B.n()"), 1, attrs.Missing()},
		attrs.Row{attrs.Missing(), 2, 1},
	)
	return table
}

func TestTableSchema(t *testing.T) {
	sch := TableSchema(sampleTable(t))
	for _, name := range []string{"methodName", "changes", "linBugProneness0.0"} {
		leaf, ok := sch.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, leaf.Node.Optional(), name)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleTable(t)))

	f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.NumRows())
	assert.Len(t, f.Schema().Columns(), 3)
}

func TestWriteTableParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.parquet")
	require.NoError(t, WriteTableParquet(sampleTable(t), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
