package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		fmt.Fprintln(out, "  (not loaded)")
		return
	}

	fmt.Fprintf(out, "  Ground Truth:      %s\n", cfg.GroundtruthPath)
	fmt.Fprintf(out, "  Submissions Dir:   %s\n", cfg.SubmissionsDir)
	fmt.Fprintf(out, "  Results Dir:       %s\n", cfg.ResultsDir)
	fmt.Fprintf(out, "  Tasks API Base:    %s\n", cfg.TasksAPIBase)
	fmt.Fprintf(out, "  Window Start:      %s\n", cfg.WindowStart)
	fmt.Fprintf(out, "  Window End:        %s\n", cfg.WindowEnd)
	fmt.Fprintf(out, "  Reject Types:      %v\n", cfg.RejectSampleTypes)
	fmt.Fprintf(out, "  Clean Types:       %v\n", cfg.CleanSampleTypes)
	fmt.Fprintf(out, "  CPT Codes:         %v\n", cfg.CPTCodes)
	fmt.Fprintf(out, "  Request Timeout:   %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())
}
