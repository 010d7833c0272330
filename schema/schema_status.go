package schema

import "time"

// CacheStatus represents the status of the commit log cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// DataSetStatus represents the status of the dataset store.
type DataSetStatus struct {
	Backend     string           `json:"backend"`
	Connected   bool             `json:"connected"`
	TotalRuns   int              `json:"total_runs"`
	LastRunID   string           `json:"last_run_id"`
	LastRunTime time.Time        `json:"last_run_time"`
	TotalRows   int64            `json:"total_rows"`
	TableSizes  map[string]int64 `json:"table_sizes"`
}

// RunRecord describes one stored extraction run.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	RepoPath    string    `json:"repo_path"`
	Builder     string    `json:"builder"`
	ClassColumn string    `json:"class_column"`
	NumRows     int       `json:"num_rows"`
	NumColumns  int       `json:"num_columns"`
	Params      string    `json:"config_params"`
}
