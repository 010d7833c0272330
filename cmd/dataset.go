package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/proneness/core"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/iocache"
	"github.com/huangsam/proneness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dataSetBackendConfig reads and validates the dataset backend settings.
func dataSetBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("dataset-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("dataset-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// dataSetSetup loads minimal configuration needed for dataset operations.
func dataSetSetup() error {
	backend, connStr, err := dataSetBackendConfig()
	if err != nil {
		return err
	}

	// No commit cache for dataset commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize dataset store: %w", err)
	}

	cfg.DataSetBackend = backend
	cfg.DataSetDBConnect = connStr
	return nil
}

// dataSetSetupWrapper wraps dataSetSetup to provide PreRunE for dataset commands.
func dataSetSetupWrapper(_ *cobra.Command, _ []string) error {
	return dataSetSetup()
}

// dataSetMigrateSetup loads the backend settings for migrations.
// It does NOT initialize stores or create tables, allowing migrations to
// run on a fresh database.
func dataSetMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := dataSetBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDataSetDBFilePath()
	}

	cfg.DataSetBackend = backend
	cfg.DataSetDBConnect = connStr
	return nil
}

// dataSetCmd focused on stored extraction runs.
var dataSetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage stored extraction runs and their tables",
	Long: `Manage the dataset store, which keeps every extraction run and its table
when --dataset-backend is set.

Each run stores its configuration, timing, shape and label column, along
with every cell of the processed table, so a table can be exported again
in any format without the original inputs.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show dataset store statistics
  list    - List the most recent runs
  export  - Write the table of one run
  clear   - Remove all stored runs
  migrate - Run database schema migrations`,
}

// dataSetStatusCmd shows dataset store status.
var dataSetStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display dataset store statistics and connection details",
	PreRunE: dataSetSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetDataSetStore()
		if store == nil {
			contract.LogFatal("Failed to get dataset status", core.ErrDataSetsDisabled)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get dataset status", err)
		}
		iocache.PrintDataSetStatus(os.Stdout, status)
	},
}

// dataSetListCmd lists stored runs.
var dataSetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent extraction runs",
	Long: `List stored runs, newest first, up to --limit.

Examples:
  proneness dataset list --dataset-backend sqlite
  proneness dataset list --output parquet --output-file runs.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDataSetList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
	},
}

// dataSetExportCmd writes the table of a stored run.
var dataSetExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write the table of a stored run in any output format",
	Long: `Load the processed table of one run from the dataset store and write it
with the configured output format. --split works as for extract.

Examples:
  proneness dataset export 7c9e... --output arff --output-file run.arff --split`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteDataSetExport(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Failed to export run", err)
		}
	},
}

// dataSetClearCmd clears the dataset store.
var dataSetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and tables",
	Long: `Delete all stored runs and their tables.

WARNING: This action cannot be undone. Consider exporting runs first.`,
	PreRunE: dataSetSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetDataSetDBFilePath()
		if cfg.DataSetBackend == schema.SQLiteBackend && cfg.DataSetDBConnect != "" {
			dbFilePath = cfg.DataSetDBConnect
		}
		if err := iocache.ClearDataSets(cfg.DataSetBackend, dbFilePath, cfg.DataSetDBConnect); err != nil {
			contract.LogFatal("Failed to clear dataset store", err)
		}
		fmt.Println("Dataset store cleared successfully.")
	},
}

// dataSetMigrateCmd runs database migrations for the dataset store.
var dataSetMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the dataset store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  proneness dataset migrate --dataset-backend sqlite
  proneness dataset migrate --dataset-backend sqlite --target-version 0`,
	PreRunE: dataSetMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateDataSets(cfg.DataSetBackend, cfg.DataSetDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Dataset schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated dataset schema from version %d to %d.\n", result.From, result.To)
	},
}
