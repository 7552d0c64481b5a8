// internal/commands/root.go
package pabench

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pabench/internal/appconfig"
	"pabench/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pabench",
	Short: "pabench — benchmark harness for pre-authorization form agents",
	Long: `pabench scores browser-agent submissions of a medical pre-authorization
webform against synthetic ground truth, classifies each submit/withhold
decision, and aggregates accuracy, sensitivity, and specificity per model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// Flags win over the config file; unset flags fall back to it.
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		} else {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(cfg.Debug))
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}
		if cmd.Flags().Changed("windowStart") {
			cfg.WindowStart = viper.GetString("windowStart")
		}
		if cmd.Flags().Changed("windowEnd") {
			cfg.WindowEnd = viper.GetString("windowEnd")
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("windowStart", "", "task window start (RFC 3339, UTC)")
	rootCmd.PersistentFlags().String("windowEnd", "", "task window end (RFC 3339, UTC)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("windowStart", rootCmd.PersistentFlags().Lookup("windowStart"))
	_ = viper.BindPFlag("windowEnd", rootCmd.PersistentFlags().Lookup("windowEnd"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool {
	return currentConfig != nil && currentConfig.Debug
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
