// internal/reconcile/load.go
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pabench/internal/logging"
)

// LoadGroundTruth reads the ground-truth JSON array, validating each
// profile before indexing.
func LoadGroundTruth(path string) ([]GroundTruthRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ground truth: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("error parsing ground truth: %w", err)
	}

	records := make([]GroundTruthRecord, 0, len(raws))
	for i, raw := range raws {
		if err := ValidateGroundTruth(raw); err != nil {
			return nil, fmt.Errorf("ground truth record %d: %w", i, err)
		}
		var rec GroundTruthRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("ground truth record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadSubmissions reads every *.json file in dir, in name order for
// reproducible runs. Files that fail schema validation are logged and
// skipped rather than aborting the whole evaluation.
func LoadSubmissions(dir string) ([]SubmissionRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	sort.Strings(paths)

	var records []SubmissionRecord
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading submission %s: %w", path, err)
		}
		if err := ValidateSubmission(data); err != nil {
			logging.LogEvent("[EVAL] Skipping %s: %v", path, err)
			continue
		}
		var rec SubmissionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			logging.LogEvent("[EVAL] Skipping %s: %v", path, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteSummaries writes case summaries as a JSONL file, one object per
// line, creating parent directories as needed. The file is rebuilt
// wholesale: a rerun replaces the prior run's cases instead of stacking a
// second copy on top of them.
func WriteSummaries(path string, summaries []CaseSummary) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating results directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, summary := range summaries {
		if err := encoder.Encode(summary); err != nil {
			return fmt.Errorf("error writing results: %w", err)
		}
	}
	return nil
}

// ReadSummaries loads a JSONL summaries file written by WriteSummaries.
func ReadSummaries(path string) ([]CaseSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading summaries: %w", err)
	}

	var summaries []CaseSummary
	decoder := json.NewDecoder(bytes.NewReader(data))
	for decoder.More() {
		var s CaseSummary
		if err := decoder.Decode(&s); err != nil {
			return nil, fmt.Errorf("error parsing summaries: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
