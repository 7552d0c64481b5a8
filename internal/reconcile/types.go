// internal/reconcile/types.go
// Package reconcile scores one agent submission against one ground-truth
// record and classifies the submit/withhold decision. It owns the benchmark's
// data model: ground truth, submissions, per-field verdicts, and the case
// summary consumed by the metrics tables.
package reconcile

import (
	"encoding/json"
	"fmt"

	"pabench/internal/compare"
)

// FormFields is the canonical column order of the pre-authorization form,
// administrative fields first, clinical fields last. The accuracy tables
// slice this list between two boundary field names.
var FormFields = []string{
	"patient_first_name",
	"patient_last_name",
	"dob",
	"sex",
	"member_id",
	"patient_address",
	"subscriber_name",
	"subscriber_relation",
	"provider_name",
	"provider_npi",
	"provider_phone",
	"provider_fax",
	"provider_address",
	"lab_name",
	"lab_npi",
	"lab_address",
	"test_type",
	"test_configuration",
	"cpt_codes",
	"urgency",
	"specimen_type",
	"collection_date",
	"internal_test_code",
	"mca",
	"dd_id",
	"dysmorphic",
	"neurological",
	"metabolic",
	"autism",
	"early_onset",
	"previous_test_negative",
	"family_history",
	"consanguinity",
	"icd_codes",
	"secondary_icd_codes",
	"prior_test_type",
	"prior_test_result",
	"prior_test_date",
}

// ClinicalInfoFields are the fields that must all be correct for the
// clinical_info aggregate flag: one pass/fail answer to "did the agent get
// the clinical picture right", independent of administrative fields.
var ClinicalInfoFields = []string{
	"mca",
	"dd_id",
	"dysmorphic",
	"neurological",
	"metabolic",
	"autism",
	"early_onset",
	"family_history",
	"consanguinity",
	"icd_codes",
	"secondary_icd_codes",
	"prior_test_type",
	"prior_test_result",
	"prior_test_date",
}

// GroundTruthRecord is one synthetic "correct" form instance. Fields holds
// the full flat mapping, including patient_id and sample_type; the two are
// also lifted out for lookup convenience. Immutable once loaded.
type GroundTruthRecord struct {
	PatientID  string
	SampleType string
	Fields     map[string]any
}

// UnmarshalJSON keeps the open field set intact while lifting the
// identifying keys.
func (g *GroundTruthRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Fields = raw
	g.PatientID = compare.Stringify(raw["patient_id"])
	g.SampleType = compare.Stringify(raw["sample_type"])
	return nil
}

// IndexGroundTruth maps records by patient_id for submission lookup.
func IndexGroundTruth(records []GroundTruthRecord) map[string]GroundTruthRecord {
	indexed := make(map[string]GroundTruthRecord, len(records))
	for _, r := range records {
		indexed[r.PatientID] = r
	}
	return indexed
}

// SubmissionRecord is one agent-produced attempt, read-only to the scoring
// core. Submitted defaults to true when the key is absent: a submission file
// on disk exists because the agent completed the form.
type SubmissionRecord struct {
	TaskID     string
	PatientID  string
	LLM        string
	SampleType string
	Submitted  bool
	Payload    map[string]any
}

func (s *SubmissionRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		TaskID     string         `json:"task_id"`
		PatientID  string         `json:"patient_id"`
		LLM        string         `json:"llm"`
		SampleType string         `json:"sample_type"`
		Submitted  *bool          `json:"submitted"`
		Payload    map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.TaskID = raw.TaskID
	s.PatientID = raw.PatientID
	s.LLM = raw.LLM
	s.SampleType = raw.SampleType
	s.Submitted = raw.Submitted == nil || *raw.Submitted
	s.Payload = raw.Payload
	return nil
}

// Verdict is the outcome for a single field: either correct, or a mismatch
// carrying both sides. The zero value is a mismatch with no context; use
// Correct() or Mismatch().
type Verdict struct {
	IsCorrect bool
	Expected  any
	Got       any
}

// Correct returns the correct-field verdict.
func Correct() Verdict { return Verdict{IsCorrect: true} }

// Mismatch returns a verdict recording what was expected and what the agent
// actually submitted.
func Mismatch(expected, got any) Verdict {
	return Verdict{Expected: expected, Got: got}
}

// MarshalJSON keeps the original wire shape: 1 for a correct field, an
// {Expected, Got} object for a mismatch.
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v.IsCorrect {
		return []byte("1"), nil
	}
	return json.Marshal(struct {
		Expected any `json:"Expected"`
		Got      any `json:"Got"`
	}{v.Expected, v.Got})
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n != 1 {
			return fmt.Errorf("unexpected verdict value %d", n)
		}
		*v = Correct()
		return nil
	}
	var m struct {
		Expected any `json:"Expected"`
		Got      any `json:"Got"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("verdict must be 1 or an Expected/Got object: %w", err)
	}
	*v = Mismatch(m.Expected, m.Got)
	return nil
}

// Label is the confusion-matrix outcome for one case.
type Label string

const (
	// LabelTP — the agent correctly proceeded with a submittable profile.
	LabelTP Label = "TP"
	// LabelTN — the agent correctly withheld on a flawed profile.
	LabelTN Label = "TN"
	// LabelFP — the agent submitted when it should have withheld.
	LabelFP Label = "FP"
	// LabelFN — the agent withheld on a profile it should have submitted.
	LabelFN Label = "FN"
)

// CaseSummary is the evaluated result of one (submission, ground-truth)
// pair. Built once, never mutated; NumIncorrect and NumMissing are nil for
// non-submitted cases, where field-level accuracy has no meaning.
type CaseSummary struct {
	TaskID          string             `json:"task_id"`
	LLM             string             `json:"llm"`
	SampleType      string             `json:"sample_type"`
	PatientName     string             `json:"patient_name"`
	Submitted       bool               `json:"submitted"`
	ConfusionLabel  Label              `json:"confusion_label"`
	NumIncorrect    *int               `json:"num_incorrect"`
	NumMissing      *int               `json:"num_missing"`
	Fields          map[string]Verdict `json:"fields,omitempty"`
	CPTExact        *Verdict           `json:"cpt_codes_exact,omitempty"`
	CPTSemantic     *Verdict           `json:"cpt_codes_semantic,omitempty"`
	ClinicalInfo    *int               `json:"clinical_info,omitempty"`
	IncorrectFields map[string]Verdict `json:"incorrect_fields"`
	MissingFields   []string           `json:"missing_fields"`
	OutputMsg       string             `json:"output_msg"`
}

func intPtr(n int) *int { return &n }
