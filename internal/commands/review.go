// internal/commands/review.go
package pabench

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pabench/internal/metrics"
	"pabench/internal/reconcile"
	"pabench/internal/tasks"
	"pabench/internal/tui"
)

// reviewCmd represents the review command.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse evaluated cases interactively",
	Long: `Review opens a terminal browser over the evaluated case summaries: one row
per case with its confusion label and error counts, and a detail pane
showing the wrong and missing fields of the selected case.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		summaries, err := reconcile.ReadSummaries(cfg.SummariesPath())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			return fmt.Errorf("no case summaries found at %s, run evaluate first", cfg.SummariesPath())
		}

		var submitted, nonSubmitted []reconcile.CaseSummary
		for _, s := range summaries {
			if s.Submitted {
				submitted = append(submitted, s)
			} else {
				nonSubmitted = append(nonSubmitted, s)
			}
		}

		steps := map[string]*int{}
		if records, err := tasks.ReadTasks(cfg.TasksPath()); err == nil {
			steps = tasks.NewStepEstimator(cfg.CostPerStep).StepsByTask(records)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		return tui.Run(metrics.BuildRawTable(submitted, nonSubmitted, steps))
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
