// internal/tasks/fetch.go
package tasks

import (
	"context"
	"fmt"
	"log"

	"pabench/internal/appconfig"
)

// RunFetch pulls every task finished inside the configured window from the
// cloud API and saves the deduped batch to the results directory.
func RunFetch(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.TasksAPIBase == "" {
		return fmt.Errorf("tasksApiBase is not configured")
	}

	start, end, err := cfg.Window()
	if err != nil {
		return err
	}
	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}

	client := NewClient(cfg.TasksAPIBase, apiKey, cfg.RequestTimeout(), cfg.Debug)
	log.Printf("Fetching tasks finished between %s and %s...", cfg.WindowStart, cfg.WindowEnd)

	records, err := client.Tasks(context.Background(), start, end)
	if err != nil {
		return err
	}
	log.Printf("Fetched %d tasks", len(records))

	if err := WriteTasks(cfg.TasksPath(), records); err != nil {
		return err
	}
	log.Printf("Wrote task log to %s", cfg.TasksPath())
	return nil
}
