package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/proneness/core/builder"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	r := NewRecorder()
	r.ObserveBuild("standard", builder.Stats{Histories: 2, Rows: 7, LabeledRows: 5}, 1500*time.Millisecond)

	assert.Equal(t, 7.0, testutil.ToFloat64(r.items.WithLabelValues("standard", "rows")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.items.WithLabelValues("standard", "labeled_rows")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.items.WithLabelValues("standard", "negative_fix_times")))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.duration.WithLabelValues("standard")))
}

func TestCacheLookup(t *testing.T) {
	r := NewRecorder()
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveBuild("group", builder.Stats{Chunks: 3}, time.Second)

	path := filepath.Join(t.TempDir(), "proneness.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `proneness_extraction_items{builder="group",kind="chunks"} 3`)
	assert.Contains(t, string(data), "# TYPE proneness_extraction_duration_seconds gauge")
}
