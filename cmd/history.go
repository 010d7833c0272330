package cmd

import (
	"github.com/huangsam/proneness/core"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd groups history utilities.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with method change histories",
}

// historyExportCmd writes the loaded histories and commits back out as CSV.
var historyExportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export histories and commits as a change file and a commit file",
	Long: `Write the configured history source as changes.csv and the commit source as
commits.csv into the --output-file directory (default: current directory).

Snapshot files are distilled first, so this turns snapshots into a change file
that later extractions can read without diffing again.

Examples:
  proneness history export -s snapshots.jsonl ../repo --output-file export/`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sourcesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export history", err)
		}
	},
}
