// internal/tasks/steps.go
package tasks

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"pabench/internal/util"
)

// StepEstimator converts a task's reported cost into an estimated step
// count using a per-model cost-per-step rate table. The API does not report
// steps directly; cost divided by the per-step rate is the closest proxy.
type StepEstimator struct {
	costPerStep map[string]float64
}

// NewStepEstimator builds an estimator from the configured rate table. An
// empty table yields nil estimates for every task.
func NewStepEstimator(costPerStep map[string]float64) *StepEstimator {
	return &StepEstimator{costPerStep: costPerStep}
}

// Steps estimates the number of agent steps for one task, nil when the
// cost is unreported or the model has no configured rate.
func (e *StepEstimator) Steps(task TaskRecord) *int {
	if task.Cost == nil {
		return nil
	}
	rate, ok := e.costPerStep[task.LLM]
	if !ok || rate <= 0 {
		return nil
	}
	steps := int(math.Round(*task.Cost / rate))
	if steps < 0 {
		steps = 0
	}
	return &steps
}

// StepsByTask maps task ID to estimated steps for a batch of tasks.
func (e *StepEstimator) StepsByTask(records []TaskRecord) map[string]*int {
	out := make(map[string]*int, len(records))
	for _, task := range records {
		if task.ID == "" {
			continue
		}
		out[task.ID] = e.Steps(task)
	}
	return out
}

// WriteTasks saves a fetched task batch as pretty-printed JSON.
func WriteTasks(path string, records []TaskRecord) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal tasks: %w", err)
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write tasks %s: %w", path, err)
	}
	return nil
}

// ReadTasks loads a task batch previously saved by WriteTasks.
func ReadTasks(path string) ([]TaskRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tasks: %w", err)
	}
	var records []TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing tasks: %w", err)
	}
	return records, nil
}
