package reconcile

import (
	"testing"
)

func groundTruthFixture() GroundTruthRecord {
	return GroundTruthRecord{
		PatientID:  "P001",
		SampleType: "1",
		Fields: map[string]any{
			"patient_id":          "P001",
			"sample_type":         "1",
			"patient_first_name":  "Jane",
			"patient_last_name":   "Doe",
			"dob":                 "2019-03-02",
			"sex":                 "Female",
			"member_id":           "123456789",
			"cpt_codes":           []any{"81415", "81416", "81416"},
			"icd_codes":           []any{"F84.0", "R62.50"},
			"mca":                 true,
			"dd_id":               true,
			"dysmorphic":          false,
			"neurological":        true,
			"metabolic":           false,
			"autism":              true,
			"early_onset":         true,
			"family_history":      false,
			"consanguinity":       false,
			"secondary_icd_codes": []any{},
			"prior_test_type":     "CMA",
			"prior_test_result":   "Negative",
			"prior_test_date":     "2024-05-01",
		},
	}
}

func correctPayload() map[string]any {
	return map[string]any{
		"patient_first_name":  "Jane",
		"patient_last_name":   "Doe",
		"dob":                 "2019-03-02",
		"sex":                 "female",
		"member_id":           "ID 123-456-789",
		"cpt_codes":           []any{"81415", "81416x2"},
		"icd_codes":           []any{"R62.50", "F84.0"},
		"mca":                 true,
		"dd_id":               true,
		"dysmorphic":          false,
		"neurological":        true,
		"metabolic":           false,
		"autism":              true,
		"early_onset":         true,
		"family_history":      false,
		"consanguinity":       false,
		"secondary_icd_codes": []any{},
		"prior_test_type":     "CMA",
		"prior_test_result":   "negative",
		"prior_test_date":     "2024-05-01",
	}
}

func TestReconcileAllCorrect(t *testing.T) {
	r := NewReconciler(nil, nil)
	sub := SubmissionRecord{
		TaskID:     "task-1",
		PatientID:  "P001",
		LLM:        "gpt-4.1",
		SampleType: "1",
		Submitted:  true,
		Payload:    correctPayload(),
	}

	summary := r.Reconcile(sub, groundTruthFixture())

	if summary.ConfusionLabel != LabelTP {
		t.Fatalf("expected TP for a submitted clean case, got %s", summary.ConfusionLabel)
	}
	if summary.NumIncorrect == nil || *summary.NumIncorrect != 0 {
		t.Fatalf("expected zero incorrect fields, got %v", summary.NumIncorrect)
	}
	if summary.ClinicalInfo == nil || *summary.ClinicalInfo != 1 {
		t.Fatalf("expected clinical_info flag 1, got %v", summary.ClinicalInfo)
	}
	if summary.PatientName != "Jane Doe" {
		t.Fatalf("expected patient name from payload, got %q", summary.PatientName)
	}
	if v, ok := summary.Fields["sex"]; !ok || !v.IsCorrect {
		t.Fatalf("expected case-insensitive sex to be correct, got %+v", v)
	}
	if summary.CPTSemantic == nil || !summary.CPTSemantic.IsCorrect {
		t.Fatal("expected semantic CPT verdict to be correct")
	}
	if summary.CPTExact == nil || summary.CPTExact.IsCorrect {
		t.Fatal("expected exact CPT verdict to fail on notation drift")
	}
}

func TestReconcileMismatchAndMissing(t *testing.T) {
	r := NewReconciler(nil, nil)
	payload := correctPayload()
	payload["dob"] = "2019-03-03"   // wrong answer
	payload["autism"] = false       // wrong clinical answer
	payload["prior_test_date"] = "" // missing, never incorrect
	payload["icd_codes"] = []any{}  // missing list
	sub := SubmissionRecord{
		TaskID:     "task-2",
		PatientID:  "P001",
		LLM:        "gpt-4.1",
		SampleType: "1",
		Submitted:  true,
		Payload:    payload,
	}

	summary := r.Reconcile(sub, groundTruthFixture())

	if *summary.NumIncorrect != 2 {
		t.Fatalf("expected two incorrect fields, got %d: %v", *summary.NumIncorrect, summary.IncorrectFields)
	}
	v, ok := summary.IncorrectFields["dob"]
	if !ok {
		t.Fatal("expected dob in incorrect_fields")
	}
	if v.Expected != "2019-03-02" || v.Got != "2019-03-03" {
		t.Fatalf("expected both sides recorded, got %+v", v)
	}

	if *summary.NumMissing != 2 {
		t.Fatalf("expected two missing fields, got %d: %v", *summary.NumMissing, summary.MissingFields)
	}
	if summary.MissingFields[0] != "icd_codes" || summary.MissingFields[1] != "prior_test_date" {
		t.Fatalf("expected sorted missing fields, got %v", summary.MissingFields)
	}
	if _, ok := summary.IncorrectFields["prior_test_date"]; ok {
		t.Fatal("an empty submitted value must not count as incorrect")
	}
	if *summary.ClinicalInfo != 0 {
		t.Fatal("expected clinical_info flag 0 when a clinical field is wrong")
	}
}

func TestReconcileIgnoresFieldsAbsentFromGroundTruth(t *testing.T) {
	r := NewReconciler(nil, nil)
	payload := correctPayload()
	payload["free_text_notes"] = "n/a"
	sub := SubmissionRecord{
		TaskID:     "task-3",
		PatientID:  "P001",
		LLM:        "o3",
		SampleType: "1",
		Submitted:  true,
		Payload:    payload,
	}

	summary := r.Reconcile(sub, groundTruthFixture())

	if _, ok := summary.Fields["free_text_notes"]; ok {
		t.Fatal("fields unknown to the ground truth must not be scored")
	}
	if *summary.NumIncorrect != 0 {
		t.Fatalf("expected no incorrect fields, got %v", summary.IncorrectFields)
	}
}

func TestReconcileClinicalInfoRequiresEveryField(t *testing.T) {
	r := NewReconciler(nil, nil)
	payload := correctPayload()
	delete(payload, "consanguinity")
	sub := SubmissionRecord{
		TaskID:     "task-4",
		PatientID:  "P001",
		LLM:        "o3",
		SampleType: "1",
		Submitted:  true,
		Payload:    payload,
	}

	summary := r.Reconcile(sub, groundTruthFixture())

	if *summary.ClinicalInfo != 0 {
		t.Fatal("a clinical field the agent never filled must fail the flag")
	}
	if *summary.NumIncorrect != 0 {
		t.Fatal("an unfilled field is not an incorrect field")
	}
}

func TestReconcileFlawedSampleIsFalsePositive(t *testing.T) {
	r := NewReconciler(nil, nil)
	gt := groundTruthFixture()
	gt.SampleType = "2a"
	gt.Fields["sample_type"] = "2a"
	sub := SubmissionRecord{
		TaskID:     "task-5",
		PatientID:  "P001",
		LLM:        "o3",
		SampleType: "2a",
		Submitted:  true,
		Payload:    correctPayload(),
	}

	summary := r.Reconcile(sub, gt)

	if summary.ConfusionLabel != LabelFP {
		t.Fatalf("submitting a reject-expected sample must classify FP, got %s", summary.ConfusionLabel)
	}
}
