// internal/commands/show.go
package pabench

import (
	"github.com/spf13/cobra"
)

// showCmd groups read-only inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application state",
	Long:  `Show application state such as the resolved configuration.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
