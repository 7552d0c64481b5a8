// internal/reconcile/classify.go
package reconcile

// defaultRejectTypes are the sample types carrying an intentionally
// injected disqualifying flaw: 2a (implausible subscriber age gap), 2b
// (prior test dated after collection), 2c (required collection date
// omitted), 3b (clinically irrelevant profile). Submitting any of these is
// the error, regardless of how accurately the fields were copied.
var defaultRejectTypes = []string{"2a", "2b", "2c", "3b"}

// Classifier assigns a confusion label to each evaluated case from the
// sample-type taxonomy and the submit/withhold outcome. A flat 2x2 table:
// no transitions, one evaluation per case, never unlabeled.
type Classifier struct {
	reject map[string]struct{}
}

// NewClassifier builds a classifier for the given reject-expected sample
// types; nil selects the default taxonomy.
func NewClassifier(rejectTypes []string) *Classifier {
	if len(rejectTypes) == 0 {
		rejectTypes = defaultRejectTypes
	}
	reject := make(map[string]struct{}, len(rejectTypes))
	for _, t := range rejectTypes {
		reject[t] = struct{}{}
	}
	return &Classifier{reject: reject}
}

// RejectExpected reports whether withholding was the correct behavior for
// the sample type.
func (c *Classifier) RejectExpected(sampleType string) bool {
	_, ok := c.reject[sampleType]
	return ok
}

// Classify maps (sample type, submitted) to a confusion label.
func (c *Classifier) Classify(sampleType string, submitted bool) Label {
	if submitted {
		if c.RejectExpected(sampleType) {
			return LabelFP
		}
		return LabelTP
	}
	if c.RejectExpected(sampleType) {
		return LabelTN
	}
	return LabelFN
}

// NonSubmittedCase builds the case summary for a task that never produced a
// submission, whether the run failed or the agent deliberately withheld.
// Field counts stay nil: there is no payload to score.
func NonSubmittedCase(cl *Classifier, taskID, llm, sampleType, patientName, output string) CaseSummary {
	return CaseSummary{
		TaskID:         taskID,
		LLM:            llm,
		SampleType:     sampleType,
		PatientName:    patientName,
		Submitted:      false,
		ConfusionLabel: cl.Classify(sampleType, false),
		OutputMsg:      output,
	}
}
