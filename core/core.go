// Package core has core logic for extraction runs: it wires commit and
// history sources, the data set builder, the dataset store and the sinks.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/core/history"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/metrics"
	"github.com/huangsam/proneness/internal/outwriter"
	"github.com/sirupsen/logrus"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Names of the files written by the history export.
const (
	ExportedChangesFile = "changes.csv"
	ExportedCommitsFile = "commits.csv"
)

// ExtractionResult is the outcome of one extraction run.
type ExtractionResult struct {
	Table    *attrs.Table
	Stats    builder.Stats
	RunID    string // empty when dataset storage is disabled
	Source   string
	Duration time.Duration
}

// ExecuteExtract runs an extraction and prints the table.
// It serves as the main entry point for the 'extract' command.
func ExecuteExtract(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	client := contract.NewLocalGitClient()
	rec := metrics.NewRecorder()
	result, err := RunExtraction(ctx, cfg, client, mgr, rec)
	if err != nil {
		return err
	}
	writeMetrics(cfg, rec)
	return outwriter.NewOutWriter().WriteTable(result.Table, cfg, outwriter.Summary{
		Source:   result.Source,
		Stats:    &result.Stats,
		Duration: result.Duration,
		RunID:    result.RunID,
	})
}

// RunExtraction loads the commit log and method histories named by cfg,
// builds the processed table and records it in the dataset store.
func RunExtraction(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, rec *metrics.Recorder) (*ExtractionResult, error) {
	start := time.Now()

	provider, err := NewDataSetProvider(cfg)
	if err != nil {
		return nil, err
	}

	// --- 1. Sources (commit log with caching) ---
	commits, err := loadCommits(ctx, cfg, client, mgr, rec)
	if err != nil {
		return nil, err
	}
	forest, err := loadForest(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// --- 2. Begin Run Tracking (if configured) ---
	var store contract.DataSetStore
	if mgr != nil {
		store = mgr.GetDataSetStore()
	}
	runID := beginRun(store, cfg, start)

	// --- 3. Extraction ---
	buildStart := time.Now()
	if err := provider.Extract(commits, forest); err != nil {
		return nil, err
	}
	stats := provider.Stats()
	rec.ObserveBuild(string(cfg.Builder), stats, time.Since(buildStart))
	table, err := provider.AllRows()
	if err != nil {
		return nil, err
	}

	// --- 4. End Run Tracking ---
	if store != nil && runID != "" {
		if err := recordRun(store, runID, table); err != nil {
			contract.LogWarn("Failed to record extraction run", err)
			runID = ""
		}
	}

	contract.Logger.WithFields(logrus.Fields{
		"builder":     cfg.Builder,
		"histories":   stats.Histories,
		"versions":    stats.Versions,
		"chunks":      stats.Chunks,
		"rows":        stats.Rows,
		"labeled":     stats.LabeledRows,
		"negative_dt": stats.NegativeFixTimes,
		"class":       table.ClassName(),
	}).Info("Extraction finished")
	if stats.NegativeFixTimes > 0 {
		contract.Logger.WithField("rows", stats.NegativeFixTimes).Warn("Some commits predate the fix they follow; time since last fix is negative")
	}

	return &ExtractionResult{
		Table:    table,
		Stats:    stats,
		RunID:    runID,
		Source:   describeSources(cfg),
		Duration: time.Since(start),
	}, nil
}

// beginRun opens a run in the dataset store. Tracking failures never fail the
// extraction; they only disable recording.
func beginRun(store contract.DataSetStore, cfg *contract.Config, start time.Time) string {
	if store == nil {
		return ""
	}
	params := map[string]any{
		"builder":           string(cfg.Builder),
		"processor":         string(cfg.Processor),
		"measures":          cfg.Measures,
		"bugfixes_included": cfg.BugfixesIncluded,
		"fix_pattern":       cfg.FixPattern,
		"changes_file":      cfg.ChangesFile,
		"snapshots_file":    cfg.SnapshotsFile,
		"commits_file":      cfg.CommitsFile,
		"workers":           cfg.Workers,
	}
	runID, err := store.BeginRun(start, cfg.RepoPath, cfg.Builder, params)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ""
	}
	return runID
}

func recordRun(store contract.DataSetStore, runID string, table *attrs.Table) error {
	if err := store.RecordTable(runID, table); err != nil {
		return err
	}
	return store.EndRun(runID, time.Now(), len(table.Rows), table.Schema.Len(), table.ClassName())
}

// writeMetrics exports the run metrics when a metrics file is configured.
func writeMetrics(cfg *contract.Config, rec *metrics.Recorder) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Failed to write metrics file", err)
	}
}

// ExecuteRead loads a saved, processed ARFF table and prints it.
// The label is taken to be the last column.
func ExecuteRead(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	table, err := ReadProcessedTable(cfg.InputFile)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTable(table, cfg, outwriter.Summary{
		Source:   cfg.InputFile,
		Duration: time.Since(start),
	})
}

// ReadProcessedTable reads an ARFF file through a read-only provider.
func ReadProcessedTable(path string) (*attrs.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data set: %w", err)
	}
	defer func() { _ = f.Close() }()

	provider := NewReadOnlyProvider()
	if err := provider.ReadDataSet(f, false); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return provider.AllRows()
}

// ExecuteSchema prints the columns the configured builder and processor produce,
// or the columns of cfg.InputFile when one is given.
// This is a static display that does not require any history.
func ExecuteSchema(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	var table *attrs.Table
	var err error
	if cfg.InputFile != "" {
		table, err = ReadProcessedTable(cfg.InputFile)
	} else {
		table, err = ConfiguredSchema(cfg)
	}
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchema(table, cfg)
}

// ConfiguredSchema returns an empty processed table with the columns an
// extraction with cfg would produce.
func ConfiguredSchema(cfg *contract.Config) (*attrs.Table, error) {
	provider, err := NewDataSetProvider(cfg)
	if err != nil {
		return nil, err
	}
	if err := provider.Extract(nil, nil); err != nil {
		return nil, err
	}
	return provider.AllRows()
}

// ExecuteHistoryExport loads the configured history and commit sources and writes
// them as a change file and a commit file into the cfg.OutputFile directory.
func ExecuteHistoryExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return exportHistory(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func exportHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	commits, err := loadCommits(ctx, cfg, client, mgr, metrics.NewRecorder())
	if err != nil {
		return err
	}
	forest, err := loadForest(ctx, cfg)
	if err != nil {
		return err
	}

	dir := cfg.OutputFile
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	changesPath := filepath.Join(dir, ExportedChangesFile)
	if err := writeFile(changesPath, func(f *os.File) error { return history.WriteChanges(f, forest) }); err != nil {
		return err
	}
	commitsPath := filepath.Join(dir, ExportedCommitsFile)
	if err := writeFile(commitsPath, func(f *os.File) error { return history.WriteCommits(f, commits) }); err != nil {
		return err
	}

	contract.Logger.WithFields(logrus.Fields{
		"methods": forest.CountMethods(),
		"commits": len(commits),
		"changes": changesPath,
		"log":     commitsPath,
	}).Info("Exported history")
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
