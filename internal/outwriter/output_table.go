package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/internal/arff"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/parquet"
	"github.com/huangsam/proneness/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Summary describes where a table came from. It feeds the footer of the text output.
type Summary struct {
	Source   string         // repository path or input file
	Stats    *builder.Stats // nil when the table was read rather than extracted
	Duration time.Duration
	RunID    string // dataset store run, if one was recorded
}

// WriteTableResults outputs a feature table, dispatching based on the output
// format configured. With cfg.Split the labeled and unlabeled rows go to two files.
func WriteTableResults(t *attrs.Table, cfg *contract.Config, summary Summary) error {
	if cfg.Split {
		return writeSplitTables(t, cfg)
	}

	switch cfg.Output {
	case schema.ARFFOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return encodeTable(w, cfg.Output, t)
		}, fmt.Sprintf("Wrote %s", cfg.Output))
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, t, cfg, summary)
		}, "Wrote table")
	}
}

// writeSplitTables writes the training rows and the prediction rows side by side.
func writeSplitTables(t *attrs.Table, cfg *contract.Config) error {
	labeled, unlabeled := t.Partition()
	trainPath, predictPath := contract.SplitOutputPaths(cfg.OutputFile, cfg.Output.FileExtension())

	parts := []struct {
		path  string
		table *attrs.Table
		name  string
	}{
		{path: trainPath, table: labeled, name: "training"},
		{path: predictPath, table: unlabeled, name: "prediction"},
	}
	for _, part := range parts {
		err := writeWithFile(part.path, func(w io.Writer) error {
			return encodeTable(w, cfg.Output, part.table)
		}, fmt.Sprintf("Wrote %d %s rows", len(part.table.Rows), part.name))
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeTable writes every row of t in a machine-readable format.
func encodeTable(w io.Writer, mode schema.OutputMode, t *attrs.Table) error {
	switch mode {
	case schema.ARFFOut:
		return arff.Write(w, arff.DefaultRelation, t)
	case schema.CSVOut:
		return writeCSVTable(w, t)
	case schema.JSONOut:
		return writeJSONTable(w, t)
	case schema.ParquetOut:
		return parquet.WriteTable(w, t)
	default:
		return fmt.Errorf("output format %q cannot encode a feature table", mode)
	}
}

// writeCSVTable writes a header of column names followed by one record per row.
// Missing values are empty fields.
func writeCSVTable(w io.Writer, t *attrs.Table) error {
	return writeCSVWithHeader(w, t.Schema.Names(), func(cw *csv.Writer) error {
		rec := make([]string, t.Schema.Len())
		for _, row := range t.Rows {
			for i, v := range row {
				rec[i] = plainValue(t.Schema, i, v)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// jsonTable is the JSON layout of a feature table. Rows keep the column order.
type jsonTable struct {
	Relation string       `json:"relation"`
	Class    string       `json:"class,omitempty"`
	Columns  []jsonColumn `json:"columns"`
	Rows     [][]any      `json:"rows"`
}

type jsonColumn struct {
	Name string            `json:"name"`
	Kind schema.ColumnKind `json:"kind"`
}

// writeJSONTable writes the table with nulls for missing values.
func writeJSONTable(w io.Writer, t *attrs.Table) error {
	out := jsonTable{
		Relation: arff.DefaultRelation,
		Class:    t.ClassName(),
		Columns:  make([]jsonColumn, t.Schema.Len()),
		Rows:     make([][]any, len(t.Rows)),
	}
	for i := range t.Schema.Len() {
		col := t.Schema.Column(i)
		out.Columns[i] = jsonColumn{Name: col.Name, Kind: col.Kind}
	}
	for r, row := range t.Rows {
		values := make([]any, len(row))
		for i, v := range row {
			switch {
			case attrs.IsMissing(v):
				values[i] = nil
			case t.Schema.Column(i).Kind == schema.StringColumn:
				values[i], _ = t.Schema.StringAt(i, v)
			default:
				values[i] = v
			}
		}
		out.Rows[r] = values
	}
	return writeJSON(w, out)
}

// plainValue renders a cell without quoting: the string for string columns,
// the shortest exact decimal otherwise, "" when missing.
func plainValue(s *attrs.Schema, col int, v float64) string {
	if attrs.IsMissing(v) {
		return ""
	}
	if s.Column(col).Kind == schema.StringColumn {
		str, _ := s.StringAt(col, v)
		return str
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rankByClass returns row indices ordered by descending label value. Rows
// without a label go last; ties keep table order.
func rankByClass(t *attrs.Table) []int {
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	if t.ClassIndex < 0 {
		return order
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := t.Rows[order[a]][t.ClassIndex], t.Rows[order[b]][t.ClassIndex]
		if attrs.IsMissing(va) || attrs.IsMissing(vb) {
			return !attrs.IsMissing(va) && attrs.IsMissing(vb)
		}
		return va > vb
	})
	return order
}

// writeSummaryTable generates and writes the human-readable table of the
// highest-scoring rows.
func writeSummaryTable(w io.Writer, t *attrs.Table, cfg *contract.Config, summary Summary) error {
	fmtFloat := createFormatters(cfg.Precision)
	nameWidth := GetMaxTableNameWidth(cfg)
	methodCol := columnOrNone(t.Schema, builder.MethodNameColumn)
	commitCol := columnOrNone(t.Schema, builder.CommitIDColumn)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Method", "Commit", "Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	order := rankByClass(t)
	limit := min(cfg.ResultLimit, len(order))
	data := make([][]string, 0, limit)
	for rank, r := range order[:limit] {
		row := t.Rows[r]
		score := attrs.Missing()
		if t.ClassIndex >= 0 {
			score = row[t.ClassIndex]
		}
		label := contract.GetPlainLabel(score)
		if cfg.UseColors {
			label = contract.GetColorLabel(score)
		}
		data = append(data, []string{
			strconv.Itoa(rank + 1),
			contract.TruncateName(cellString(t.Schema, methodCol, row), nameWidth),
			shortCommit(cellString(t.Schema, commitCol, row)),
			fmtFloat(score),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	labeled, unlabeled := t.Partition()
	if _, err := fmt.Fprintf(w, "Showing top %d of %s rows (%s labeled, %s unlabeled) by %s\n",
		limit, humanize.Comma(int64(len(t.Rows))),
		humanize.Comma(int64(len(labeled.Rows))), humanize.Comma(int64(len(unlabeled.Rows))),
		classLabel(t)); err != nil {
		return err
	}
	return writeSummaryFooter(w, cfg, summary)
}

func writeSummaryFooter(w io.Writer, cfg *contract.Config, summary Summary) error {
	if summary.Stats == nil {
		_, err := fmt.Fprintf(w, "Read %s in %v\n", summary.Source, summary.Duration)
		return err
	}
	s := summary.Stats
	if _, err := fmt.Fprintf(w, "Extracted %s histories, %s versions, %s chunks (%s fixed) from %s\n",
		humanize.Comma(int64(s.Histories)), humanize.Comma(int64(s.Versions)),
		humanize.Comma(int64(s.Chunks)), humanize.Comma(int64(s.FixedChunks)), summary.Source); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Extraction completed in %v with %d workers. Cache backend: %s\n",
		summary.Duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	if summary.RunID != "" {
		if _, err := fmt.Fprintf(w, "Stored as run %s\n", summary.RunID); err != nil {
			return err
		}
	}
	return nil
}

func columnOrNone(s *attrs.Schema, name string) int {
	i, err := s.IndexOf(name)
	if err != nil {
		return -1
	}
	return i
}

func cellString(s *attrs.Schema, col int, row attrs.Row) string {
	if col < 0 || attrs.IsMissing(row[col]) {
		return contract.MissingValue
	}
	if str, ok := s.StringAt(col, row[col]); ok {
		return str
	}
	return strconv.FormatFloat(row[col], 'f', -1, 64)
}

func shortCommit(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func classLabel(t *attrs.Table) string {
	if name := t.ClassName(); name != "" {
		return name
	}
	return "table order"
}
