// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
)

// GitClient defines the git operations the extractor needs.
// This allows commit loading to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns the raw oldest-first commit log with one
	// record-separated entry per commit.
	GetCommitLog(ctx context.Context, repoPath string) ([]byte, error)
}

// CacheManager defines the interface for managing persistent stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetCommitStore() CommitCacheStore
	GetDataSetStore() DataSetStore
}

// CommitCacheStore caches encoded commit logs keyed by repository and HEAD.
type CommitCacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// DataSetStore persists extracted feature tables so they can be listed and reloaded.
type DataSetStore interface {
	// BeginRun creates a new extraction run and returns its unique ID.
	BeginRun(startTime time.Time, repoPath string, builder schema.BuilderKind, params map[string]any) (string, error)

	// RecordTable stores the columns and rows of a built table for the run.
	RecordTable(runID string, table *attrs.Table) error

	// EndRun updates the run with completion data.
	EndRun(runID string, endTime time.Time, numRows, numColumns int, classColumn string) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// LoadTable rebuilds the table recorded for a run.
	LoadTable(runID string) (*attrs.Table, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.DataSetStatus, error)

	// Clear removes every stored run.
	Clear() error

	Close() error
}
