package reconcile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSubmissionsSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "01_valid.json"),
		`{"task_id":"t1","patient_id":"P001","llm":"o3","sample_type":"1","payload":{"sex":"F"}}`)
	writeFile(t, filepath.Join(dir, "02_invalid.json"), `{"llm":"o3"}`)
	writeFile(t, filepath.Join(dir, "03_not_json.json"), `{`)
	writeFile(t, filepath.Join(dir, "ignored.txt"), `not a submission`)

	records, err := LoadSubmissions(dir)
	if err != nil {
		t.Fatalf("LoadSubmissions error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one valid submission, got %d", len(records))
	}
	if records[0].TaskID != "t1" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestLoadGroundTruthRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groundtruth.json")
	writeFile(t, path, `[{"patient_id":"P001","sample_type":"1"},{"sample_type":"1"}]`)

	if _, err := LoadGroundTruth(path); err == nil {
		t.Fatal("a malformed ground-truth record must abort the load")
	}

	writeFile(t, path, `[{"patient_id":"P001","sample_type":"1","sex":"F"}]`)
	records, err := LoadGroundTruth(path)
	if err != nil {
		t.Fatalf("LoadGroundTruth error: %v", err)
	}
	if len(records) != 1 || records[0].PatientID != "P001" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestWriteAndReadSummaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "case_summaries.jsonl")

	summaries := []CaseSummary{
		{
			TaskID:         "t1",
			LLM:            "o3",
			SampleType:     "1",
			Submitted:      true,
			ConfusionLabel: LabelTP,
			NumIncorrect:   intPtr(0),
			NumMissing:     intPtr(1),
			Fields:         map[string]Verdict{"sex": Correct()},
			MissingFields:  []string{"dob"},
		},
		NonSubmittedCase(NewClassifier(nil), "t2", "o3", "2a", "John Smith", "withheld"),
	}
	if err := WriteSummaries(path, summaries); err != nil {
		t.Fatalf("WriteSummaries error: %v", err)
	}

	got, err := ReadSummaries(path)
	if err != nil {
		t.Fatalf("ReadSummaries error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two summaries, got %d", len(got))
	}
	if got[0].TaskID != "t1" || got[1].TaskID != "t2" {
		t.Fatalf("unexpected order: %s, %s", got[0].TaskID, got[1].TaskID)
	}
	if !got[0].Fields["sex"].IsCorrect {
		t.Fatal("expected the verdict map to round-trip")
	}
	if got[1].NumIncorrect != nil {
		t.Fatal("expected nil counts to survive the round trip")
	}
	if got[1].ConfusionLabel != LabelTN {
		t.Fatalf("expected TN, got %s", got[1].ConfusionLabel)
	}
}

func TestWriteSummariesReplacesPriorRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case_summaries.jsonl")

	first := []CaseSummary{{TaskID: "t1", LLM: "o3", SampleType: "1", Submitted: true, ConfusionLabel: LabelTP}}
	if err := WriteSummaries(path, first); err != nil {
		t.Fatalf("WriteSummaries error: %v", err)
	}

	rerun := []CaseSummary{{TaskID: "t1", LLM: "o3", SampleType: "1", Submitted: true, ConfusionLabel: LabelTP}}
	if err := WriteSummaries(path, rerun); err != nil {
		t.Fatalf("WriteSummaries rerun error: %v", err)
	}

	got, err := ReadSummaries(path)
	if err != nil {
		t.Fatalf("ReadSummaries error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("a rerun must replace the prior run's cases, got %d rows for 1 case", len(got))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
