// internal/reconcile/reconcile.go
package reconcile

import (
	"sort"
	"strings"

	"pabench/internal/compare"
)

// Reconciler produces a CaseSummary for one (submission, ground-truth)
// pair. It is stateless and safe for concurrent use: every case is computed
// from read-only inputs.
type Reconciler struct {
	cmp        *compare.Comparator
	classifier *Classifier
}

// NewReconciler wires a comparator and classifier. Nil arguments select the
// defaults.
func NewReconciler(cmp *compare.Comparator, cl *Classifier) *Reconciler {
	if cmp == nil {
		cmp = compare.New()
	}
	if cl == nil {
		cl = NewClassifier(nil)
	}
	return &Reconciler{cmp: cmp, classifier: cl}
}

// Reconcile compares every payload field that also exists in the ground
// truth and assembles the case summary. Fields only the ground truth knows
// about are invisible here: the agent never attempted them, so they surface
// only through missing_fields when present-but-empty.
func (r *Reconciler) Reconcile(sub SubmissionRecord, gt GroundTruthRecord) CaseSummary {
	verdicts := make(map[string]Verdict, len(sub.Payload))
	summary := CaseSummary{
		TaskID:      sub.TaskID,
		LLM:         sub.LLM,
		SampleType:  sub.SampleType,
		PatientName: payloadPatientName(sub.Payload),
		Submitted:   true,
	}

	for key, got := range sub.Payload {
		expected, known := gt.Fields[key]
		if !known {
			continue
		}

		if key == "cpt_codes" {
			exact := verdictFor(r.cmp.CPT().Exact(got, expected), expected, got)
			semantic := verdictFor(r.cmp.CPT().Semantic(got, expected), expected, got)
			summary.CPTExact = &exact
			summary.CPTSemantic = &semantic
		}

		// An empty submitted value is never a wrong answer, only a missing
		// one; counting it both ways would double-penalize.
		if !r.cmp.Equal(key, got, expected) && !compare.IsEmpty(got) {
			verdicts[key] = Mismatch(expected, got)
		} else {
			verdicts[key] = Correct()
		}
	}

	summary.Fields = verdicts
	summary.ClinicalInfo = intPtr(clinicalInfoFlag(verdicts))

	incorrect := make(map[string]Verdict)
	for key, v := range verdicts {
		if !v.IsCorrect {
			incorrect[key] = v
		}
	}
	summary.IncorrectFields = incorrect
	summary.NumIncorrect = intPtr(len(incorrect))

	var missing []string
	for key, v := range sub.Payload {
		if compare.IsEmpty(v) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	summary.MissingFields = missing
	summary.NumMissing = intPtr(len(missing))

	summary.ConfusionLabel = r.classifier.Classify(sub.SampleType, true)
	return summary
}

// clinicalInfoFlag is 1 iff every clinical-indicator field was answered
// correctly. A clinical field the agent never filled fails the flag.
func clinicalInfoFlag(verdicts map[string]Verdict) int {
	for _, field := range ClinicalInfoFields {
		v, ok := verdicts[field]
		if !ok || !v.IsCorrect {
			return 0
		}
	}
	return 1
}

func verdictFor(correct bool, expected, got any) Verdict {
	if correct {
		return Correct()
	}
	return Mismatch(expected, got)
}

func payloadPatientName(payload map[string]any) string {
	first := compare.Stringify(payload["patient_first_name"])
	last := compare.Stringify(payload["patient_last_name"])
	return strings.TrimSpace(first + " " + last)
}
