// internal/metrics/types.go
// Package metrics rolls per-case verdicts up into the benchmark's reporting
// tables: the raw per-case summary, confusion counts with sensitivity and
// specificity per model, per-field accuracy tables, and ICD-code similarity
// scores. Tables are rebuilt wholesale from the current case set on every
// report; nothing here is updated incrementally.
package metrics

import "pabench/internal/reconcile"

// Row is one line of the raw summary table: a case summary joined with the
// estimated number of agent steps for its task.
type Row struct {
	reconcile.CaseSummary
	Steps *int `json:"number_of_steps"`
}

// ModelConfusion holds the confusion counts and derived ratios for one
// model. Sensitivity and Specificity are nil when their denominator is
// zero: an undefined ratio must never masquerade as a zero.
type ModelConfusion struct {
	LLM         string   `json:"llm"`
	TP          int      `json:"TP"`
	TN          int      `json:"TN"`
	FP          int      `json:"FP"`
	FN          int      `json:"FN"`
	Sensitivity *float64 `json:"sensitivity"`
	Specificity *float64 `json:"specificity"`
}

// AccuracyTable is a per-field accuracy pivot: one row per field type, one
// column per model, cell = fraction of clean submitted cases where the
// field was correct.
type AccuracyTable struct {
	Fields []string
	Models []string
	Cells  map[string]map[string]float64
}

// SimilarityRow grades one case's ICD code list against ground truth at two
// granularities: exact codes and category prefixes (the part before the
// decimal point).
type SimilarityRow struct {
	LLM             string  `json:"llm"`
	SampleType      string  `json:"sample_type"`
	PatientName     string  `json:"patient_name"`
	ExactBinary     int     `json:"exact_binary_index"`
	CategoryBinary  int     `json:"categorial_binary_index"`
	ExactJaccard    float64 `json:"exact_jaccard_index"`
	CategoryJaccard float64 `json:"categorial_jaccard_index"`
}

// defaultCleanTypes are the sample types with no injected flaw, used as the
// field-accuracy baseline: 1 (clean) and 3a (clean plus extra irrelevant
// codes, still submittable).
var defaultCleanTypes = []string{"1", "3a"}
