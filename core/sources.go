package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/proneness/core/history"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/distill"
	"github.com/huangsam/proneness/internal/metrics"
	"github.com/huangsam/proneness/schema"
)

// loadCommits reads the commit log from the commits file, or from git through
// the commit cache when no file is configured.
func loadCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, rec *metrics.Recorder) ([]schema.RawCommit, error) {
	if cfg.CommitsFile == "" {
		return cachedCommitLog(ctx, cfg, client, mgr, rec)
	}
	f, err := os.Open(cfg.CommitsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open commit file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return history.ReadCommits(f)
}

// loadForest reads the method histories from the change file, or distills
// them from the snapshot file.
func loadForest(ctx context.Context, cfg *contract.Config) (history.Forest, error) {
	if cfg.ChangesFile != "" {
		f, err := os.Open(cfg.ChangesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open change file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return history.ReadChanges(f)
	}

	f, err := os.Open(cfg.SnapshotsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }()
	snapshots, err := history.ReadSnapshots(f)
	if err != nil {
		return nil, err
	}
	return history.DistillSnapshots(ctx, snapshots, distill.NewLineDiffer(), cfg.Workers)
}

// describeSources names the inputs of an extraction for summaries and logs.
func describeSources(cfg *contract.Config) string {
	histories := cfg.ChangesFile
	if histories == "" {
		histories = cfg.SnapshotsFile
	}
	commits := cfg.CommitsFile
	if commits == "" {
		commits = cfg.RepoPath
	}
	return fmt.Sprintf("%s with commits from %s", histories, commits)
}
