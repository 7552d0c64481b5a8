// internal/metrics/similarity.go
package metrics

import (
	"strings"

	"pabench/internal/compare"
	"pabench/internal/reconcile"
	"pabench/internal/util"
)

// ICDSimilarity grades the icd_codes verdict of every clean submitted case.
// An already-correct verdict short-circuits to perfect scores; a mismatch
// is rescored from its Expected/Got sides at exact and category
// granularity. Partial credit reporting only — the binary classifier never
// sees these numbers.
func ICDSimilarity(rows []Row, cleanTypes []string) []SimilarityRow {
	var out []SimilarityRow
	for _, row := range filterClean(rows, cleanTypes) {
		verdict, ok := row.Fields["icd_codes"]
		if !ok {
			continue
		}
		out = append(out, similarityFor(row, verdict))
	}
	return out
}

func similarityFor(row Row, verdict reconcile.Verdict) SimilarityRow {
	s := SimilarityRow{
		LLM:         row.LLM,
		SampleType:  row.SampleType,
		PatientName: row.PatientName,
	}

	if verdict.IsCorrect {
		s.ExactBinary, s.CategoryBinary = 1, 1
		s.ExactJaccard, s.CategoryJaccard = 1.0, 1.0
		return s
	}

	expected := codeSet(verdict.Expected)
	got := codeSet(verdict.Got)
	expectedCats := categorySet(expected)
	gotCats := categorySet(got)

	s.ExactBinary = util.BoolToInt(setsEqual(expected, got))
	s.CategoryBinary = util.BoolToInt(setsEqual(expectedCats, gotCats))
	s.ExactJaccard = jaccard(expected, got)
	s.CategoryJaccard = jaccard(expectedCats, gotCats)
	return s
}

// codeSet normalizes a scalar or list into a set of trimmed, uppercased
// code strings. Blank entries are dropped.
func codeSet(v any) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range compare.ToList(v) {
		code := strings.ToUpper(strings.TrimSpace(compare.Stringify(item)))
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// categorySet truncates each code to its prefix before the decimal point,
// ignoring sub-code specificity.
func categorySet(codes map[string]struct{}) map[string]struct{} {
	cats := make(map[string]struct{}, len(codes))
	for code := range codes {
		prefix := strings.TrimSpace(strings.SplitN(code, ".", 2)[0])
		if prefix == "" {
			continue
		}
		cats[prefix] = struct{}{}
	}
	return cats
}

// jaccard is |a∩b| / |a∪b|, with two empty sets counting as identical.
func jaccard(a, b map[string]struct{}) float64 {
	intersection, union := 0, len(b)
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
