package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/outwriter"
	"github.com/huangsam/proneness/schema"
)

// ErrDataSetsDisabled is returned when a command needs the dataset store but none is configured.
var ErrDataSetsDisabled = errors.New("dataset storage is disabled. set --dataset-backend")

// ExecuteDataSetList prints the most recent stored runs, up to cfg.ResultLimit.
func ExecuteDataSetList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	runs, err := ListRuns(mgr, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRuns(runs, cfg)
}

// ListRuns returns up to limit stored runs, newest first.
func ListRuns(mgr contract.CacheManager, limit int) ([]schema.RunRecord, error) {
	store, err := dataSetStore(mgr)
	if err != nil {
		return nil, err
	}
	runs, err := store.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ExecuteDataSetExport writes the table stored under runID using the configured output format.
func ExecuteDataSetExport(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, runID string) error {
	start := time.Now()
	store, err := dataSetStore(mgr)
	if err != nil {
		return err
	}
	table, err := store.LoadTable(runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return outwriter.NewOutWriter().WriteTable(table, cfg, outwriter.Summary{
		Source:   "run " + runID,
		Duration: time.Since(start),
		RunID:    runID,
	})
}

func dataSetStore(mgr contract.CacheManager) (contract.DataSetStore, error) {
	if mgr == nil {
		return nil, ErrDataSetsDisabled
	}
	store := mgr.GetDataSetStore()
	if store == nil {
		return nil, ErrDataSetsDisabled
	}
	return store, nil
}
