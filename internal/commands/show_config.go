// internal/commands/show_config.go
package pabench

import (
	"github.com/spf13/cobra"

	"pabench/internal/appconfig"
)

// showConfigCmd implements the 'show config' command, which displays the
// current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		var file string
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
