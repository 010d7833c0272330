// Package parquet exports feature tables and dataset runs to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
	"github.com/parquet-go/parquet-go"
)

// ExtractionRun represents a single stored extraction run with metadata.
// This struct maps to the proneness_runs database table.
type ExtractionRun struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the extraction began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the extraction completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	RepoPath    string `parquet:"repo_path,snappy"`
	Builder     string `parquet:"builder,snappy"`
	ClassColumn string `parquet:"class_column,snappy"`
	NumRows     int32  `parquet:"num_rows,snappy"`
	NumColumns  int32  `parquet:"num_columns,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// WriteExtractionRunsParquet writes a slice of ExtractionRun structs to a Parquet file.
func WriteExtractionRunsParquet(data []ExtractionRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteExtractionRuns(file, data)
}

// WriteExtractionRuns writes runs to w. The schema is derived from the struct tags.
func WriteExtractionRuns(w io.Writer, data []ExtractionRun) error {
	writer := parquet.NewGenericWriter[ExtractionRun](w)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// ConvertRunRecords converts schema.RunRecord to ExtractionRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []ExtractionRun {
	result := make([]ExtractionRun, len(records))
	for i, record := range records {
		run := ExtractionRun{
			RunID:       record.RunID,
			StartTime:   record.StartTime,
			RepoPath:    record.RepoPath,
			Builder:     record.Builder,
			ClassColumn: record.ClassColumn,
			NumRows:     int32(record.NumRows),
			NumColumns:  int32(record.NumColumns),
		}
		if !record.EndTime.IsZero() {
			end := record.EndTime
			duration := end.Sub(record.StartTime).Milliseconds()
			run.EndTime = &end
			run.RunDurationMs = &duration
		}
		if record.Params != "" {
			params := record.Params
			run.ConfigParams = &params
		}
		result[i] = run
	}
	return result
}

// TableSchema derives a Parquet schema from a feature table. Every column is
// optional so that missing values become nulls; string columns hold the
// resolved strings rather than their dictionary codes.
func TableSchema(t *attrs.Table) *parquet.Schema {
	group := make(parquet.Group, t.Schema.Len())
	for i := range t.Schema.Len() {
		col := t.Schema.Column(i)
		var node parquet.Node
		if col.Kind == schema.StringColumn {
			node = parquet.String()
		} else {
			node = parquet.Leaf(parquet.DoubleType)
		}
		group[col.Name] = parquet.Compressed(parquet.Optional(node), &parquet.Snappy)
	}
	return parquet.NewSchema("proneness", group)
}

// WriteTable writes every row of t to w as a Parquet file.
func WriteTable(w io.Writer, t *attrs.Table) error {
	sch := TableSchema(t)

	// Leaf columns of a group are ordered by name, not by table position.
	leaves := make([]int, t.Schema.Len())
	for i := range t.Schema.Len() {
		leaf, ok := sch.Lookup(t.Schema.Column(i).Name)
		if !ok {
			return fmt.Errorf("parquet schema lost column %q", t.Schema.Column(i).Name)
		}
		leaves[i] = leaf.ColumnIndex
	}

	writer := parquet.NewGenericWriter[any](w, sch)
	rows := make([]parquet.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		out := make(parquet.Row, len(row))
		for i, v := range row {
			out[leaves[i]] = cellValue(t.Schema, i, v, leaves[i])
		}
		rows = append(rows, out)
	}
	if _, err := writer.WriteRows(rows); err != nil {
		return fmt.Errorf("failed to write rows to parquet file: %w", err)
	}
	return writer.Close()
}

// WriteTableParquet writes a feature table to a Parquet file.
func WriteTableParquet(t *attrs.Table, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteTable(file, t)
}

// cellValue converts one cell into a leaf value; nulls have definition level 0.
func cellValue(s *attrs.Schema, col int, v float64, leaf int) parquet.Value {
	if attrs.IsMissing(v) {
		return parquet.NullValue().Level(0, 0, leaf)
	}
	if s.Column(col).Kind == schema.StringColumn {
		str, _ := s.StringAt(col, v)
		return parquet.ByteArrayValue([]byte(str)).Level(0, 1, leaf)
	}
	return parquet.DoubleValue(v).Level(0, 1, leaf)
}
