// internal/commands/fetch.go
package pabench

import (
	"github.com/spf13/cobra"

	"pabench/internal/tasks"
)

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch finished browser-agent tasks from the cloud API",
	Long: `Fetch pages through every task finished inside the configured time window,
collapses retried task IDs preferring the successful run, and saves the
batch to the results directory for evaluate and report to consume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tasks.RunFetch(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
