// internal/commands/report.go
package pabench

import (
	"github.com/spf13/cobra"

	"pabench/internal/metrics"
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the benchmark tables and HTML dashboard",
	Long: `Report rolls the evaluated case summaries up into the benchmark tables:
the raw per-case table, per-model confusion metrics with sensitivity and
specificity, administrative and clinical field-accuracy tables, and the
ICD-code similarity table. Each table is written as CSV alongside a
self-contained HTML dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return metrics.RunReport(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
