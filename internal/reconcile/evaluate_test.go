package reconcile

import (
	"testing"

	"pabench/internal/appconfig"
	"pabench/internal/tasks"
)

func boolPtr(b bool) *bool { return &b }

func TestNonSubmittedSummariesOnlyConvertsFailedTasks(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}

	records := []tasks.TaskRecord{
		{ID: "t-success", LLM: "o3", IsSuccess: boolPtr(true),
			Metadata: tasks.TaskMetadata{SampleType: "1", PatientName: "Jane Doe"}},
		{ID: "t-inflight", LLM: "o3",
			Metadata: tasks.TaskMetadata{SampleType: "1", PatientName: "Amy Pond"}},
		{ID: "t-failed", LLM: "o3", IsSuccess: boolPtr(false), Output: "stopped: flawed profile",
			Metadata: tasks.TaskMetadata{SampleType: "2a", PatientName: "John Smith"}},
	}
	if err := tasks.WriteTasks(cfg.TasksPath(), records); err != nil {
		t.Fatalf("WriteTasks error: %v", err)
	}

	out, err := nonSubmittedSummaries(cfg, NewClassifier(nil), nil)
	if err != nil {
		t.Fatalf("nonSubmittedSummaries error: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("only the failed task is a withhold, got %d cases: %+v", len(out), out)
	}
	s := out[0]
	if s.TaskID != "t-failed" {
		t.Fatalf("expected t-failed converted, got %s", s.TaskID)
	}
	if s.ConfusionLabel != LabelTN {
		t.Fatalf("withholding a flawed sample must classify TN, got %s", s.ConfusionLabel)
	}
	if s.Submitted {
		t.Fatal("expected a non-submitted case")
	}
}

func TestNonSubmittedSummariesSkipsRetriedTasks(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}

	records := []tasks.TaskRecord{
		{ID: "t-retried", LLM: "o3", IsSuccess: boolPtr(false),
			Metadata: tasks.TaskMetadata{SampleType: "1", PatientName: "Jane Doe"}},
	}
	if err := tasks.WriteTasks(cfg.TasksPath(), records); err != nil {
		t.Fatalf("WriteTasks error: %v", err)
	}

	submitted := []CaseSummary{{TaskID: "t-retried", LLM: "o3", SampleType: "1", Submitted: true}}
	out, err := nonSubmittedSummaries(cfg, NewClassifier(nil), submitted)
	if err != nil {
		t.Fatalf("nonSubmittedSummaries error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("a failed task with a submitted retry must not double-count, got %d", len(out))
	}
}

func TestNonSubmittedSummariesMissingTaskLog(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}

	out, err := nonSubmittedSummaries(cfg, NewClassifier(nil), nil)
	if err != nil {
		t.Fatalf("a missing task log must not fail evaluate: %v", err)
	}
	if out != nil {
		t.Fatalf("expected no cases without a task log, got %+v", out)
	}
}
