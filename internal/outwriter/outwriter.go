// Package outwriter has output and writer logic.
package outwriter

import (
	"io"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTable prints a feature table using the configured output format.
func (ow *OutWriter) WriteTable(t *attrs.Table, cfg *contract.Config, summary Summary) error {
	return WriteTableResults(t, cfg, summary)
}

// WriteSchema prints the column layout of a feature table.
func (ow *OutWriter) WriteSchema(t *attrs.Table, cfg *contract.Config) error {
	return WriteSchemaDescription(DescribeSchema(t, cfg), cfg)
}

// WriteRuns prints stored extraction runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return WriteRunResults(runs, cfg)
}

// EncodeTable writes a feature table to w in a file format (arff, csv, json, parquet).
func (ow *OutWriter) EncodeTable(w io.Writer, mode schema.OutputMode, t *attrs.Table) error {
	return encodeTable(w, mode, t)
}
