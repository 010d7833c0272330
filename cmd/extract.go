package cmd

import (
	"github.com/huangsam/proneness/core"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/spf13/cobra"
)

// extractCmd builds a feature table from method histories and commits.
var extractCmd = &cobra.Command{
	Use:   "extract [repo-path]",
	Short: "Extract a labeled feature table from method change histories",
	Long: `Build one row per chunk of method versions, labeled by bug-proneness measures.

Histories come from a change file (--changes-file) or a snapshot file
(--snapshots-file) that is distilled into changes. Commits come from
--commits-file or from the git log of the repository at repo-path.

Rows whose chunk never reached a fixing commit have a missing label and
are the prediction rows; the rest are training rows.

Examples:
  # Summarize the top rows of a standard extraction
  proneness extract --changes-file changes.csv --commits-file commits.csv

  # Write ARFF train/predict files with two measures, using the git log of a repo
  proneness extract ../repo -c changes.csv -m linear,geometric:0.7 \
    --output arff --output-file features.arff --split`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sourcesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExtract(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run extraction", err)
		}
	},
}

// readCmd prints a saved, processed table.
var readCmd = &cobra.Command{
	Use:   "read <table.arff>",
	Short: "Read a saved, processed ARFF table",
	Long: `Load a processed ARFF table written by an earlier extraction and print or
convert it. The last column is taken to be the label.

Examples:
  proneness read features.arff
  proneness read features.arff --output csv --output-file features.csv --split`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		cfg.InputFile = args[0]
		if err := core.ExecuteRead(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot read data set", err)
		}
	},
}

// schemaCmd describes the columns of an extraction.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Describe the columns an extraction produces",
	Long: `Print the columns the configured builder, processor and measures produce,
with each column's kind and role. No history is read.

Examples:
  proneness schema --builder group -m linear,weighted --output yaml
  proneness schema --input features.arff`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchema(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot describe schema", err)
		}
	},
}
