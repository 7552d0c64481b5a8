package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pabench/internal/reconcile"
)

func reportFixture() ReportTables {
	sens := 2.0 / 3.0
	tables := ReportTables{
		Raw: BuildRawTable([]reconcile.CaseSummary{
			submittedCase("t1", "o3", "1", reconcile.LabelTP),
		}, nil, nil),
		Confusion: []ModelConfusion{{
			LLM: "o3", TP: 2, TN: 3, FP: 1, FN: 1,
			Sensitivity: &sens,
		}},
		Admin: AccuracyTable{
			Fields: []string{"sex", "clinical_info"},
			Models: []string{"o3"},
			Cells: map[string]map[string]float64{
				"sex":           {"o3": 1},
				"clinical_info": {"o3": 0.5},
			},
		},
		Similarity: []SimilarityRow{{
			LLM: "o3", SampleType: "1", PatientName: "Jane Doe",
			ExactBinary: 1, CategoryBinary: 1, ExactJaccard: 1, CategoryJaccard: 1,
		}},
	}
	return tables
}

func TestGenerateReport(t *testing.T) {
	html, err := GenerateReport(reportFixture())
	if err != nil {
		t.Fatalf("GenerateReport error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"o3",
		"0.6667",
		notApplicable, // undefined specificity
		"Jane Doe",
		"clinical_info",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected report to contain %q", want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "report.html")

	if err := WriteReport(path, reportFixture()); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "<html") {
		t.Fatal("expected an HTML document")
	}
}
