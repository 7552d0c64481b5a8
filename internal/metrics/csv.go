// internal/metrics/csv.go
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// notApplicable marks an undefined ratio in CSV output. Never a zero: a
// model with no reject-expected cases did not achieve perfect failure.
const notApplicable = "n/a"

// WriteRawCSV writes the raw per-case table.
func WriteRawCSV(path string, rows []Row) error {
	records := [][]string{{
		"task_id", "number_of_steps", "llm", "sample_type", "patient_name",
		"submitted", "confusion_label", "num_incorrect", "num_missing",
		"incorrect_fields", "missing_fields", "clinical_info", "output_msg",
	}}
	for _, row := range rows {
		records = append(records, []string{
			row.TaskID,
			formatIntPtr(row.Steps),
			row.LLM,
			row.SampleType,
			row.PatientName,
			strconv.FormatBool(row.Submitted),
			string(row.ConfusionLabel),
			formatIntPtr(row.NumIncorrect),
			formatIntPtr(row.NumMissing),
			strings.Join(sortedKeys(row.IncorrectFields), ";"),
			strings.Join(row.MissingFields, ";"),
			formatIntPtr(row.ClinicalInfo),
			row.OutputMsg,
		})
	}
	return writeCSV(path, records)
}

// WriteConfusionCSV writes the per-model confusion metrics.
func WriteConfusionCSV(path string, metrics []ModelConfusion) error {
	records := [][]string{{"llm", "TP", "TN", "FP", "FN", "sensitivity", "specificity"}}
	for _, m := range metrics {
		records = append(records, []string{
			m.LLM,
			strconv.Itoa(m.TP),
			strconv.Itoa(m.TN),
			strconv.Itoa(m.FP),
			strconv.Itoa(m.FN),
			formatRatio(m.Sensitivity),
			formatRatio(m.Specificity),
		})
	}
	return writeCSV(path, records)
}

// WriteAccuracyCSV writes a per-field accuracy pivot, one model column per
// header named <llm>_accuracy.
func WriteAccuracyCSV(path string, table AccuracyTable) error {
	header := []string{"field_type"}
	for _, llm := range table.Models {
		header = append(header, accuracyColumn(llm))
	}

	records := [][]string{header}
	for _, field := range table.Fields {
		record := []string{field}
		for _, llm := range table.Models {
			record = append(record, formatFraction(table.Cells[field][llm]))
		}
		records = append(records, record)
	}
	return writeCSV(path, records)
}

// WriteSimilarityCSV writes the ICD-code similarity table.
func WriteSimilarityCSV(path string, rows []SimilarityRow) error {
	records := [][]string{{
		"llm", "sample_type", "patient_name",
		"exact_binary_index", "categorial_binary_index",
		"exact_jaccard_index", "categorial_jaccard_index",
	}}
	for _, row := range rows {
		records = append(records, []string{
			row.LLM,
			row.SampleType,
			row.PatientName,
			strconv.Itoa(row.ExactBinary),
			strconv.Itoa(row.CategoryBinary),
			formatFraction(row.ExactJaccard),
			formatFraction(row.CategoryJaccard),
		})
	}
	return writeCSV(path, records)
}

func accuracyColumn(llm string) string {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(llm)), " ", "_")
	return name + "_accuracy"
}

func writeCSV(path string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatRatio(v *float64) string {
	if v == nil {
		return notApplicable
	}
	return formatFraction(*v)
}

func formatFraction(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
