package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the commit cache and dataset stores.
// An empty backend leaves the corresponding store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, dataSetBackend schema.DatabaseBackend, dataSetConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var commitStore contract.CommitCacheStore
		if cacheBackend != "" {
			store, err := NewCommitCacheStore(commitCacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize commit caching: %w", err)
				return
			}
			commitStore = store
		}

		var dataSetStore contract.DataSetStore
		if dataSetBackend != "" {
			store, err := NewDataSetStore(dataSetBackend, dataSetConnStr)
			if err != nil {
				if commitStore != nil {
					_ = commitStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize dataset store: %w", err)
				return
			}
			dataSetStore = store
		}

		Manager.Lock()
		Manager.commits = commitStore
		Manager.datasets = dataSetStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.commits != nil {
			_ = Manager.commits.Close()
		}
		if Manager.datasets != nil {
			_ = Manager.datasets.Close()
		}
	})
}

// ClearCache removes the commit cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, commitCacheTable)
}

// ClearDataSets removes all stored datasets for the specified backend.
// SQL backends also drop the migration bookkeeping table.
func ClearDataSets(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, rowsTable, columnsTable, runsTable, "schema_migrations")
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropSQLTables(backend, connStr, tables...)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
