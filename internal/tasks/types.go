// internal/tasks/types.go
// Package tasks fetches completed automation runs from the browser-agent
// cloud API. The benchmark core treats the task log as a finished input:
// this package owns the polling window, paging, and retry-dedupe so that
// reconciliation never has to.
package tasks

import "time"

// TaskRecord is one automation run as reported by the cloud API. IsSuccess
// is tri-state: nil means the run was still in flight when fetched.
type TaskRecord struct {
	ID         string       `json:"id"`
	LLM        string       `json:"llm"`
	StartedAt  string       `json:"startedAt"`
	FinishedAt string       `json:"finishedAt"`
	IsSuccess  *bool        `json:"isSuccess"`
	Output     string       `json:"output"`
	Cost       *float64     `json:"cost"`
	Metadata   TaskMetadata `json:"metadata"`
}

// TaskMetadata carries the benchmark keys the submitting script attached to
// each run.
type TaskMetadata struct {
	SampleType  string `json:"sample_type"`
	PatientName string `json:"patient_name"`
}

// Failed reports whether the run finished without a submission.
func (t TaskRecord) Failed() bool {
	return t.IsSuccess != nil && !*t.IsSuccess
}

// Succeeded reports whether the run finished with a submission.
func (t TaskRecord) Succeeded() bool {
	return t.IsSuccess != nil && *t.IsSuccess
}

// Duration derives the wall-clock run time from the ISO-8601 timestamps.
// The second return is false when either timestamp is absent or malformed.
func (t TaskRecord) Duration() (time.Duration, bool) {
	started, err := time.Parse(time.RFC3339, t.StartedAt)
	if err != nil {
		return 0, false
	}
	finished, err := time.Parse(time.RFC3339, t.FinishedAt)
	if err != nil {
		return 0, false
	}
	return finished.Sub(started), true
}
