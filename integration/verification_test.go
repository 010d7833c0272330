//go:build basic

// Package integration contains integration tests for proneness.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: go test -tags database ./integration (needs Docker)
package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noStores = []string{"PRONENESS_CACHE_BACKEND=none", "PRONENESS_DATASET_BACKEND=none"}

// TestExtractSplitVerification checks that the split files partition the full table by label.
func TestExtractSplitVerification(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "features.csv")
	args := []string{"extract", "--changes-file", changesFixture, "--commits-file", commitsFixture, "--output", "csv"}

	_, err := runCommand(t, noStores, append(args, "--output-file", full)...)
	require.NoError(t, err)
	_, err = runCommand(t, noStores, append(args, "--output-file", full, "--split")...)
	require.NoError(t, err)

	all := readCSV(t, full)
	train := readCSV(t, filepath.Join(dir, "features.train.csv"))
	predict := readCSV(t, filepath.Join(dir, "features.predict.csv"))

	header := all[0]
	assert.Equal(t, header, train[0])
	assert.Equal(t, header, predict[0])
	assert.Equal(t, "linBugProneness0.0", header[len(header)-1], "label column is last")
	assert.Equal(t, len(all)-1, len(train)-1+len(predict)-1)

	for _, row := range train[1:] {
		assert.NotEmpty(t, row[len(row)-1], "training rows carry a label")
	}
	for _, row := range predict[1:] {
		assert.Empty(t, row[len(row)-1], "prediction rows have a missing label")
	}
}

// TestExtractReadRoundTrip checks that a saved ARFF table reads back with the same columns.
func TestExtractReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.arff")
	_, err := runCommand(t, noStores, "extract",
		"--snapshots-file", snapshotsFixture, "--commits-file", commitsFixture,
		"--measures", "geometric:0.7,linear", "--output", "arff", "--output-file", path)
	require.NoError(t, err)

	out, err := runCommand(t, noStores, "schema", "--input", path, "--output", "json")
	require.NoError(t, err)

	var desc struct {
		ClassColumn string `json:"class_column"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "geomBugProneness0.7", desc.ClassColumn)
}

// TestHistoryExportVerification checks that exported histories extract to the same table.
func TestHistoryExportVerification(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, noStores, "history", "export",
		"--snapshots-file", snapshotsFixture, "--commits-file", commitsFixture, "--output-file", dir)
	require.NoError(t, err)

	fromSnapshots, err := runCommand(t, noStores, "extract",
		"--snapshots-file", snapshotsFixture, "--commits-file", commitsFixture, "--output", "csv")
	require.NoError(t, err)
	fromExport, err := runCommand(t, noStores, "extract",
		"--changes-file", filepath.Join(dir, "changes.csv"),
		"--commits-file", filepath.Join(dir, "commits.csv"), "--output", "csv")
	require.NoError(t, err)

	assert.Equal(t, strings.TrimSpace(fromSnapshots), strings.TrimSpace(fromExport))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records
}
