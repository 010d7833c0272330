package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/internal/arff"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *attrs.Table {
	t.Helper()
	s := attrs.NewSchema()
	method, err := s.AddColumn(builder.MethodNameColumn, schema.StringColumn)
	require.NoError(t, err)
	commit, err := s.AddColumn(builder.CommitIDColumn, schema.StringColumn)
	require.NoError(t, err)
	_, err = s.AddColumn("STATEMENT_INSERT", schema.NumericColumn)
	require.NoError(t, err)
	_, err = s.AddColumn("linBugProneness0.0", schema.NumericColumn)
	require.NoError(t, err)

	table := attrs.NewTable(s)
	table.Append(
		attrs.Row{s.Intern(method, "pkg.A.low()"), s.Intern(commit, "0123456789abcdef"), 1, 0.25},
		attrs.Row{s.Intern(method, "pkg.A.open()"), s.Intern(commit, "c2"), 0, attrs.Missing()},
		attrs.Row{s.Intern(method, "pkg.B.high()"), s.Intern(commit, "c3"), 4, 0.9},
	)
	require.NoError(t, table.SetClass("linBugProneness0.0"))
	return table
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:       schema.TextOut,
		ResultLimit:  10,
		Precision:    2,
		Width:        120,
		Workers:      2,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestRankByClass(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1}, rankByClass(sampleTable(t)))

	unlabeled := sampleTable(t)
	unlabeled.ClassIndex = -1
	assert.Equal(t, []int{0, 1, 2}, rankByClass(unlabeled))
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	stats := builder.Stats{Histories: 2, Versions: 3, Chunks: 2, FixedChunks: 1}
	summary := Summary{Source: "/repo", Stats: &stats, Duration: time.Second, RunID: "run-1"}
	require.NoError(t, writeSummaryTable(&buf, sampleTable(t), textConfig(), summary))

	out := buf.String()
	assert.Less(t, strings.Index(out, "pkg.B.high()"), strings.Index(out, "pkg.A.low()"))
	assert.Less(t, strings.Index(out, "pkg.A.low()"), strings.Index(out, "pkg.A.open()"))
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "0.90")
	assert.Contains(t, out, contract.CriticalValue)
	assert.Contains(t, out, "Showing top 3 of 3 rows (2 labeled, 1 unlabeled) by linBugProneness0.0")
	assert.Contains(t, out, "Extracted 2 histories, 3 versions, 2 chunks (1 fixed) from /repo")
	assert.Contains(t, out, "Stored as run run-1")
}

func TestWriteSummaryTable_LimitAndRead(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()
	cfg.ResultLimit = 1
	require.NoError(t, writeSummaryTable(&buf, sampleTable(t), cfg, Summary{Source: "features.arff"}))

	out := buf.String()
	assert.Contains(t, out, "pkg.B.high()")
	assert.NotContains(t, out, "pkg.A.low()")
	assert.Contains(t, out, "Showing top 1 of 3 rows")
	assert.Contains(t, out, "Read features.arff in")
}

func TestWriteCSVTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVTable(&buf, sampleTable(t)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "methodName,commitId,STATEMENT_INSERT,linBugProneness0.0", lines[0])
	assert.Equal(t, "pkg.A.low(),0123456789abcdef,1,0.25", lines[1])
	assert.Equal(t, "pkg.A.open(),c2,0,", lines[2])
}

func TestWriteJSONTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONTable(&buf, sampleTable(t)))

	var decoded struct {
		Class   string `json:"class"`
		Columns []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"columns"`
		Rows [][]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "linBugProneness0.0", decoded.Class)
	require.Len(t, decoded.Columns, 4)
	assert.Equal(t, "string", decoded.Columns[0].Kind)
	require.Len(t, decoded.Rows, 3)
	assert.Equal(t, "pkg.A.low()", decoded.Rows[0][0])
	assert.Equal(t, 0.25, decoded.Rows[0][3])
	assert.Nil(t, decoded.Rows[1][3])
}

func TestEncodeTable_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, encodeTable(&buf, schema.YAMLOut, sampleTable(t)))
}

func TestWriteTableResults_ARFFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.arff")
	cfg := textConfig()
	cfg.Output = schema.ARFFOut
	cfg.OutputFile = path
	require.NoError(t, WriteTableResults(sampleTable(t), cfg, Summary{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	table, _, err := arff.Read(f)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)
}

func TestWriteTableResults_Split(t *testing.T) {
	dir := t.TempDir()
	cfg := textConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(dir, "features.csv")
	cfg.Split = true
	require.NoError(t, NewOutWriter().WriteTable(sampleTable(t), cfg, Summary{}))

	train, err := os.ReadFile(filepath.Join(dir, "features.train.csv"))
	require.NoError(t, err)
	predict, err := os.ReadFile(filepath.Join(dir, "features.predict.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(train)), "\n"), 3)
	assert.Len(t, strings.Split(strings.TrimSpace(string(predict)), "\n"), 2)
	assert.Contains(t, string(predict), "pkg.A.open()")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	assert.Equal(t, 20, GetMaxTableNameWidth(&contract.Config{Width: 50}))
	assert.Equal(t, 60, GetMaxTableNameWidth(&contract.Config{Width: 120}))
	assert.Equal(t, 90, GetMaxTableNameWidth(&contract.Config{Width: 400}))
}
