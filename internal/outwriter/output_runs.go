package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/parquet"
	"github.com/huangsam/proneness/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteRunResults outputs stored extraction runs, newest first.
func WriteRunResults(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRuns(w, runs)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output needs --output-file")
		}
		return parquet.WriteExtractionRunsParquet(parquet.ConvertRunRecords(runs), cfg.OutputFile)
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs)
		}, "Wrote table")
	default:
		return fmt.Errorf("run listings must be text, csv, json, parquet (received %s)", cfg.Output)
	}
}

func writeCSVRuns(w io.Writer, runs []schema.RunRecord) error {
	header := []string{"run_id", "start_time", "end_time", "repo_path", "builder", "class_column", "num_rows", "num_columns", "config_params"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			end := ""
			if !r.EndTime.IsZero() {
				end = r.EndTime.Format(time.RFC3339)
			}
			rec := []string{
				r.RunID,
				r.StartTime.Format(time.RFC3339),
				end,
				r.RepoPath,
				r.Builder,
				r.ClassColumn,
				strconv.Itoa(r.NumRows),
				strconv.Itoa(r.NumColumns),
				r.Params,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRunsTable(w io.Writer, runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Duration", "Builder", "Class", "Rows", "Columns"})

	data := make([][]string, len(runs))
	for i, r := range runs {
		duration := "running"
		if !r.EndTime.IsZero() {
			duration = r.EndTime.Sub(r.StartTime).Round(time.Millisecond).String()
		}
		data[i] = []string{
			r.RunID,
			humanize.Time(r.StartTime),
			duration,
			r.Builder,
			r.ClassColumn,
			humanize.Comma(int64(r.NumRows)),
			strconv.Itoa(r.NumColumns),
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs))
	return err
}
