package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/huangsam/proneness/internal/arff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const processedARFF = `% saved by an earlier run
@relation proneness
@attribute method string
@attribute STATEMENT_INSERT numeric
@attribute label numeric
@data
'A.m()',2,0.5
'B.n(int)',1,?
`

func TestReadOnlyProvider(t *testing.T) {
	p := NewReadOnlyProvider()
	assert.True(t, p.ReadOnly())
	assert.False(t, p.DataReady())
	assert.Empty(t, p.MeasureNames())

	_, err := p.AllRows()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = p.TrainingRows()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = p.PredictionRows()
	assert.ErrorIs(t, err, ErrNoData)

	assert.ErrorIs(t, p.Extract(nil, nil), ErrReadOnly)
	assert.ErrorIs(t, p.ReadDataSet(strings.NewReader(processedARFF), true), ErrReadOnly)

	require.NoError(t, p.ReadDataSet(strings.NewReader(processedARFF), false))
	assert.True(t, p.DataReady())
	table, err := p.AllRows()
	require.NoError(t, err)
	assert.Equal(t, "label", table.ClassName())
	assert.Len(t, table.Rows, 2)

	train, err := p.TrainingRows()
	require.NoError(t, err)
	assert.Len(t, train.Rows, 1)
	predict, err := p.PredictionRows()
	require.NoError(t, err)
	assert.Len(t, predict.Rows, 1)
	assert.Equal(t, 0, p.Stats().Rows)
}

func TestReadDataSet_Empty(t *testing.T) {
	p := NewReadOnlyProvider()
	err := p.ReadDataSet(strings.NewReader("@relation empty\n@data\n"), false)
	assert.Error(t, err)
}

func TestNewDataSetProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Measures = []string{"geometric:0.7", "linear"}
	p, err := NewDataSetProvider(cfg)
	require.NoError(t, err)
	assert.False(t, p.ReadOnly())
	assert.Equal(t, "geomBugProneness0.7", p.ClassName())
	assert.Equal(t, []string{"geomBugProneness0.7", "linBugProneness0.0"}, p.MeasureNames())

	cfg.Measures = []string{"cubic"}
	_, err = NewDataSetProvider(cfg)
	assert.Error(t, err)
}

func TestProviderRawRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.Processor = "none"
	rawProvider, err := NewDataSetProvider(cfg)
	require.NoError(t, err)

	commits, err := loadCommits(t.Context(), cfg, nil, nil, nil)
	require.NoError(t, err)
	forest, err := loadForest(t.Context(), cfg)
	require.NoError(t, err)
	require.NoError(t, rawProvider.Extract(commits, forest))
	raw, err := rawProvider.AllRows()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, arff.Write(&buf, arff.DefaultRelation, raw))

	standard, err := NewDataSetProvider(testConfig())
	require.NoError(t, err)
	require.NoError(t, standard.ReadDataSet(&buf, true))
	processed, err := standard.AllRows()
	require.NoError(t, err)

	direct, err := NewDataSetProvider(testConfig())
	require.NoError(t, err)
	require.NoError(t, direct.Extract(commits, forest))
	expected, err := direct.AllRows()
	require.NoError(t, err)

	assert.Equal(t, expected.Schema.Names(), processed.Schema.Names())
	assert.Equal(t, len(expected.Rows), len(processed.Rows))
	assert.Equal(t, "linBugProneness0.0", processed.ClassName())
}

func TestReadDataSet_ProcessedWithClass(t *testing.T) {
	table, err := ConfiguredSchema(testConfig())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, arff.Write(&buf, arff.DefaultRelation, table))

	p, err := NewDataSetProvider(testConfig())
	require.NoError(t, err)
	require.NoError(t, p.ReadDataSet(&buf, false))
	read, err := p.AllRows()
	require.NoError(t, err)
	assert.Equal(t, "linBugProneness0.0", read.ClassName())
}
