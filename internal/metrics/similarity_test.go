package metrics

import (
	"testing"

	"pabench/internal/reconcile"
)

func similarityCase(taskID, sampleType string, verdict reconcile.Verdict) reconcile.CaseSummary {
	s := submittedCase(taskID, "o3", sampleType, reconcile.LabelTP)
	s.Fields = map[string]reconcile.Verdict{"icd_codes": verdict}
	return s
}

func TestICDSimilarityCorrectShortCircuits(t *testing.T) {
	rows := BuildRawTable([]reconcile.CaseSummary{
		similarityCase("t1", "1", reconcile.Correct()),
	}, nil, nil)

	out := ICDSimilarity(rows, nil)
	if len(out) != 1 {
		t.Fatalf("expected one similarity row, got %d", len(out))
	}
	s := out[0]
	if s.ExactBinary != 1 || s.CategoryBinary != 1 {
		t.Fatalf("expected perfect binary indices, got %+v", s)
	}
	if !almostEqual(s.ExactJaccard, 1.0) || !almostEqual(s.CategoryJaccard, 1.0) {
		t.Fatalf("expected perfect Jaccard indices, got %+v", s)
	}
}

func TestICDSimilarityPartialOverlap(t *testing.T) {
	verdict := reconcile.Mismatch(
		[]any{"F84.0", "R62.50", "Q87.1"},
		[]any{"F84.0"},
	)
	rows := BuildRawTable([]reconcile.CaseSummary{
		similarityCase("t1", "1", verdict),
	}, nil, nil)

	s := ICDSimilarity(rows, nil)[0]
	if s.ExactBinary != 0 {
		t.Fatal("expected exact binary index 0 for differing sets")
	}
	if !almostEqual(s.ExactJaccard, 1.0/3.0) {
		t.Fatalf("exact Jaccard = %v, want 1/3", s.ExactJaccard)
	}
	if !almostEqual(s.CategoryJaccard, 1.0/3.0) {
		t.Fatalf("category Jaccard = %v, want 1/3", s.CategoryJaccard)
	}
}

func TestICDSimilarityCategoryGranularity(t *testing.T) {
	// Same categories, different sub-codes.
	verdict := reconcile.Mismatch(
		[]any{"F84.0", "R62.50"},
		[]any{"F84.9", "R62.0"},
	)
	rows := BuildRawTable([]reconcile.CaseSummary{
		similarityCase("t1", "1", verdict),
	}, nil, nil)

	s := ICDSimilarity(rows, nil)[0]
	if s.ExactBinary != 0 || !almostEqual(s.ExactJaccard, 0.0) {
		t.Fatalf("expected disjoint exact sets, got %+v", s)
	}
	if s.CategoryBinary != 1 || !almostEqual(s.CategoryJaccard, 1.0) {
		t.Fatalf("expected identical category sets, got %+v", s)
	}
}

func TestICDSimilarityBothEmpty(t *testing.T) {
	verdict := reconcile.Mismatch([]any{}, []any{})
	rows := BuildRawTable([]reconcile.CaseSummary{
		similarityCase("t1", "1", verdict),
	}, nil, nil)

	s := ICDSimilarity(rows, nil)[0]
	if !almostEqual(s.ExactJaccard, 1.0) {
		t.Fatalf("two empty sets are identical, got %v", s.ExactJaccard)
	}
	if s.ExactBinary != 1 {
		t.Fatal("expected binary index 1 for two empty sets")
	}
}

func TestICDSimilaritySkipsFlawedAndWithheldCases(t *testing.T) {
	rows := BuildRawTable([]reconcile.CaseSummary{
		similarityCase("t1", "2a", reconcile.Correct()),
	}, []reconcile.CaseSummary{
		withheldCase("t2", "o3", "1", reconcile.LabelFN),
	}, nil)

	if out := ICDSimilarity(rows, nil); len(out) != 0 {
		t.Fatalf("expected no similarity rows, got %d", len(out))
	}
}
