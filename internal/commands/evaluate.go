// internal/commands/evaluate.go
package pabench

import (
	"github.com/spf13/cobra"

	"pabench/internal/reconcile"
)

// evaluateCmd represents the evaluate command.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score agent submissions against the ground truth",
	Long: `Evaluate reads the ground-truth profiles and every submission JSON in the
submissions directory, scores each submitted form field, classifies each
submit/withhold decision, folds in non-submitting tasks from the fetched
task log, and appends the case summaries to the results directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reconcile.RunEvaluate(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
