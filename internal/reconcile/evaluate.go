// internal/reconcile/evaluate.go
package reconcile

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"

	"pabench/internal/appconfig"
	"pabench/internal/compare"
	"pabench/internal/logging"
	"pabench/internal/tasks"
)

var okLabel = color.New(color.FgGreen).SprintFunc()
var badLabel = color.New(color.FgRed).SprintFunc()

// RunEvaluate scores every submission on disk against the ground truth,
// folds in the non-submitting tasks from the fetched task log, and writes
// the combined case summaries as JSONL.
func RunEvaluate(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	groundTruth, err := LoadGroundTruth(cfg.GroundtruthPath)
	if err != nil {
		return err
	}
	index := IndexGroundTruth(groundTruth)
	log.Printf("Loaded %d ground-truth profiles from %s", len(groundTruth), cfg.GroundtruthPath)

	submissions, err := LoadSubmissions(cfg.SubmissionsDir)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d submissions from %s", len(submissions), cfg.SubmissionsDir)

	cmp := compare.New()
	cmp.UseCPTCodes(cfg.CPTCodes)
	classifier := NewClassifier(cfg.RejectSampleTypes)
	reconciler := NewReconciler(cmp, classifier)

	type caseJob struct {
		sub SubmissionRecord
		gt  GroundTruthRecord
	}
	var jobs []caseJob
	for _, sub := range submissions {
		gt, ok := index[sub.PatientID]
		if !ok {
			logging.LogEvent("[EVAL] No ground truth for patient %q (task %s), skipping", sub.PatientID, sub.TaskID)
			continue
		}
		jobs = append(jobs, caseJob{sub: sub, gt: gt})
	}

	summaries := make([]CaseSummary, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job caseJob) {
			defer wg.Done()
			summaries[i] = reconciler.Reconcile(job.sub, job.gt)
		}(i, job)
	}
	wg.Wait()

	nonSubmitted, err := nonSubmittedSummaries(cfg, classifier, summaries)
	if err != nil {
		return err
	}
	summaries = append(summaries, nonSubmitted...)

	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return fmt.Errorf("error creating results directory: %w", err)
	}
	if err := WriteSummaries(cfg.SummariesPath(), summaries); err != nil {
		return err
	}
	log.Printf("Wrote %d case summaries to %s", len(summaries), cfg.SummariesPath())

	printTally(summaries)
	if cfg.Debug {
		pp.Println(summaries)
	}
	return nil
}

// nonSubmittedSummaries turns failed tasks that never produced a submission
// into withheld cases. Successful tasks without a local submission file and
// tasks still in flight (nil isSuccess) are not withholds and are left out.
// A missing task log is not an error: evaluate can run on submissions alone.
func nonSubmittedSummaries(cfg *appconfig.Config, classifier *Classifier, submitted []CaseSummary) ([]CaseSummary, error) {
	records, err := tasks.ReadTasks(cfg.TasksPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.LogEvent("[EVAL] No task log at %s, skipping non-submitted cases", cfg.TasksPath())
			return nil, nil
		}
		return nil, err
	}

	submittedIDs := make(map[string]struct{}, len(submitted))
	for _, s := range submitted {
		submittedIDs[s.TaskID] = struct{}{}
	}

	var out []CaseSummary
	for _, task := range records {
		if !task.Failed() {
			continue
		}
		if _, ok := submittedIDs[task.ID]; ok {
			continue
		}
		out = append(out, NonSubmittedCase(
			classifier,
			task.ID,
			task.LLM,
			task.Metadata.SampleType,
			task.Metadata.PatientName,
			task.Output,
		))
	}
	return out, nil
}

// printTally prints a per-model confusion tally to stdout.
func printTally(summaries []CaseSummary) {
	type tally struct{ tp, tn, fp, fn int }
	byModel := make(map[string]*tally)
	for _, s := range summaries {
		t, ok := byModel[s.LLM]
		if !ok {
			t = &tally{}
			byModel[s.LLM] = t
		}
		switch s.ConfusionLabel {
		case LabelTP:
			t.tp++
		case LabelTN:
			t.tn++
		case LabelFP:
			t.fp++
		case LabelFN:
			t.fn++
		}
	}

	models := make([]string, 0, len(byModel))
	for llm := range byModel {
		models = append(models, llm)
	}
	sort.Strings(models)

	for _, llm := range models {
		t := byModel[llm]
		fmt.Printf("%-40s %s %s\n",
			llm,
			okLabel(fmt.Sprintf("TP=%d TN=%d", t.tp, t.tn)),
			badLabel(fmt.Sprintf("FP=%d FN=%d", t.fp, t.fn)),
		)
	}
}
