// Package cmd defines the command-line interface for proneness.
package cmd

import (
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(dataSetCmd)
	rootCmd.AddCommand(mcpCmd)

	historyCmd.AddCommand(historyExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the dataset subcommands to the parent dataset command
	dataSetCmd.AddCommand(dataSetStatusCmd)
	dataSetCmd.AddCommand(dataSetListCmd)
	dataSetCmd.AddCommand(dataSetClearCmd)
	dataSetCmd.AddCommand(dataSetMigrateCmd)
	dataSetCmd.AddCommand(dataSetExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("changes-file", "c", "", "CSV change file with method,commit,change_type rows")
	rootCmd.PersistentFlags().StringP("snapshots-file", "s", "", "JSON lines snapshot file to distill into changes")
	rootCmd.PersistentFlags().String("commits-file", "", "CSV commit file with id,author,time,message rows (default: git log)")
	rootCmd.PersistentFlags().String("builder", string(schema.StandardBuilder), "Chunk builder: standard or group or single")
	rootCmd.PersistentFlags().String("processor", string(schema.StandardProcessor), "Column processor: standard or none")
	rootCmd.PersistentFlags().StringP("measures", "m", contract.DefaultMeasures, "Comma-separated proneness measures (linear, geometric:<base>, weighted)")
	rootCmd.PersistentFlags().String("class", "", "Label column or measure (default: first measure)")
	rootCmd.PersistentFlags().Bool("bugfixes", false, "Keep the fixing commit at the end of each chunk")
	rootCmd.PersistentFlags().String("fix-pattern", "", "Regular expression for fixing commit messages (default: bug|fix|issue)")
	rootCmd.PersistentFlags().Bool("split", false, "Write labeled and unlabeled rows to .train and .predict files")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows or runs to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or arff or csv or json or parquet")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns in text output")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Commit log cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("dataset-backend", string(schema.NoneBackend), "Dataset store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("dataset-db-connect", "", "Database connection string for the dataset store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics of the run to this textfile")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.LogFormatText, "Log format: text or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of schemaCmd to Viper
	schemaCmd.Flags().String("input", "", "Describe the columns of a saved ARFF table instead")
	if err := viper.BindPFlags(schemaCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schema flags", err)
	}

	// Bind all flags of dataSetMigrateCmd to Viper
	dataSetMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dataSetMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dataset migrate flags", err)
	}
}
