// internal/metrics/run.go
package metrics

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"pabench/internal/appconfig"
	"pabench/internal/logging"
	"pabench/internal/reconcile"
	"pabench/internal/tasks"
)

// Output file names under the configured results directory.
const (
	rawSummaryFile = "raw_summary.csv"
	overallFile    = "overall_metrics.csv"
	adminTableFile = "table1_accuracy.csv"
	clinicalFile   = "table2_clinical_info.csv"
	similarityFile = "table3_icd_codes.csv"
	reportFile     = "report.html"
)

// Boundary field names for the two accuracy tables.
const (
	adminStartField    = "patient_first_name"
	adminEndField      = "internal_test_code"
	clinicalStartField = "mca"
	clinicalEndField   = "prior_test_date"
)

// RunReport builds every benchmark table from the case summaries written by
// evaluate and renders them as CSV files plus a self-contained HTML
// dashboard.
func RunReport(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	summaries, err := reconcile.ReadSummaries(cfg.SummariesPath())
	if err != nil {
		return err
	}
	log.Printf("Loaded %d case summaries from %s", len(summaries), cfg.SummariesPath())

	var submitted, nonSubmitted []reconcile.CaseSummary
	for _, s := range summaries {
		if s.Submitted {
			submitted = append(submitted, s)
		} else {
			nonSubmitted = append(nonSubmitted, s)
		}
	}

	steps, err := stepEstimates(cfg)
	if err != nil {
		return err
	}

	tables := ReportTables{
		Raw: BuildRawTable(submitted, nonSubmitted, steps),
	}
	tables.Confusion = ConfusionMetrics(tables.Raw)
	tables.Admin = BuildAccuracyTable(tables.Raw, adminStartField, adminEndField, cfg.CleanSampleTypes)
	tables.Clinical = BuildAccuracyTable(tables.Raw, clinicalStartField, clinicalEndField, cfg.CleanSampleTypes)
	tables.Similarity = ICDSimilarity(tables.Raw, cfg.CleanSampleTypes)

	outputs := []struct {
		name  string
		write func(string) error
	}{
		{rawSummaryFile, func(p string) error { return WriteRawCSV(p, tables.Raw) }},
		{overallFile, func(p string) error { return WriteConfusionCSV(p, tables.Confusion) }},
		{adminTableFile, func(p string) error { return WriteAccuracyCSV(p, tables.Admin) }},
		{clinicalFile, func(p string) error { return WriteAccuracyCSV(p, tables.Clinical) }},
		{similarityFile, func(p string) error { return WriteSimilarityCSV(p, tables.Similarity) }},
		{reportFile, func(p string) error { return WriteReport(p, tables) }},
	}
	for _, out := range outputs {
		path := filepath.Join(cfg.ResultsDir, out.name)
		if err := out.write(path); err != nil {
			return err
		}
		log.Printf("Wrote %s", path)
	}

	printOverall(tables.Confusion)
	return nil
}

// stepEstimates loads the fetched task log and estimates steps per task. A
// missing task log leaves every step count empty rather than failing the
// report.
func stepEstimates(cfg *appconfig.Config) (map[string]*int, error) {
	records, err := tasks.ReadTasks(cfg.TasksPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.LogEvent("[REPORT] No task log at %s, step counts omitted", cfg.TasksPath())
			return map[string]*int{}, nil
		}
		return nil, err
	}
	return tasks.NewStepEstimator(cfg.CostPerStep).StepsByTask(records), nil
}

// printOverall prints the per-model sensitivity/specificity summary to
// stdout.
func printOverall(metrics []ModelConfusion) {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	fmt.Println(headerStyle.Render("Overall metrics:"))
	fmt.Printf("  %-40s %4s %4s %4s %4s %12s %12s\n",
		"llm", "TP", "TN", "FP", "FN", "sensitivity", "specificity")
	for _, m := range metrics {
		fmt.Printf("  %-40s %4d %4d %4d %4d %12s %12s\n",
			m.LLM, m.TP, m.TN, m.FP, m.FN,
			formatRatio(m.Sensitivity), formatRatio(m.Specificity))
	}
	fmt.Println()
}
