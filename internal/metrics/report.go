// internal/metrics/report.go
package metrics

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"pabench/internal/util"
)

// ReportTables bundles everything the HTML dashboard renders.
type ReportTables struct {
	Raw        []Row
	Confusion  []ModelConfusion
	Admin      AccuracyTable
	Clinical   AccuracyTable
	Similarity []SimilarityRow
}

type reportData struct {
	Title       string
	GeneratedAt string
	Confusion   []ModelConfusion
	Sensitivity map[string]string
	Specificity map[string]string
	Admin       tableView
	Clinical    tableView
	Similarity  []SimilarityRow
	CaseCount   int
}

type tableView struct {
	Header []string
	Rows   [][]string
}

// GenerateReport renders a self-contained HTML dashboard for the benchmark
// tables.
func GenerateReport(tables ReportTables) (string, error) {
	data := reportData{
		Title:       "pabench: pre-authorization agent benchmark report",
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Confusion:   tables.Confusion,
		Sensitivity: make(map[string]string, len(tables.Confusion)),
		Specificity: make(map[string]string, len(tables.Confusion)),
		Admin:       accuracyView(tables.Admin),
		Clinical:    accuracyView(tables.Clinical),
		Similarity:  tables.Similarity,
		CaseCount:   len(tables.Raw),
	}
	for _, m := range tables.Confusion {
		data.Sensitivity[m.LLM] = formatRatio(m.Sensitivity)
		data.Specificity[m.LLM] = formatRatio(m.Specificity)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteReport renders the dashboard and writes it to path.
func WriteReport(path string, tables ReportTables) error {
	html, err := GenerateReport(tables)
	if err != nil {
		return fmt.Errorf("failed generating HTML report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}
	if err := util.WriteFile(path, []byte(html)); err != nil {
		return fmt.Errorf("unable to write HTML report %s: %w", path, err)
	}
	return nil
}

func accuracyView(table AccuracyTable) tableView {
	view := tableView{Header: append([]string{"field_type"}, table.Models...)}
	for _, field := range table.Fields {
		row := []string{field}
		for _, llm := range table.Models {
			row = append(row, formatFraction(table.Cells[field][llm]))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

var reportTemplate = template.Must(template.New("benchmark-report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --primary: #334155;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body { font-family: system-ui, sans-serif; background: var(--light); color: var(--text); margin: 2rem; }
    h1 { color: var(--primary); }
    h2 { color: var(--primary); margin-top: 2rem; }
    table { border-collapse: collapse; background: #fff; margin-top: 0.5rem; }
    th, td { border: 1px solid var(--border); padding: 0.4rem 0.8rem; text-align: left; }
    th { background: var(--primary); color: #fff; }
    .meta { color: #64748B; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <p class="meta">Generated {{ .GeneratedAt }} — {{ .CaseCount }} cases</p>

  <h2>Overall metrics</h2>
  <table>
    <tr><th>llm</th><th>TP</th><th>TN</th><th>FP</th><th>FN</th><th>sensitivity</th><th>specificity</th></tr>
    {{ range .Confusion }}
    <tr>
      <td>{{ .LLM }}</td><td>{{ .TP }}</td><td>{{ .TN }}</td><td>{{ .FP }}</td><td>{{ .FN }}</td>
      <td>{{ index $.Sensitivity .LLM }}</td><td>{{ index $.Specificity .LLM }}</td>
    </tr>
    {{ end }}
  </table>

  <h2>Table 1 — administrative field accuracy</h2>
  <table>
    <tr>{{ range .Admin.Header }}<th>{{ . }}</th>{{ end }}</tr>
    {{ range .Admin.Rows }}<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>{{ end }}
  </table>

  <h2>Table 2 — clinical field accuracy</h2>
  <table>
    <tr>{{ range .Clinical.Header }}<th>{{ . }}</th>{{ end }}</tr>
    {{ range .Clinical.Rows }}<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>{{ end }}
  </table>

  <h2>Table 3 — ICD code similarity</h2>
  <table>
    <tr><th>llm</th><th>sample_type</th><th>patient_name</th><th>exact</th><th>category</th><th>exact Jaccard</th><th>category Jaccard</th></tr>
    {{ range .Similarity }}
    <tr>
      <td>{{ .LLM }}</td><td>{{ .SampleType }}</td><td>{{ .PatientName }}</td>
      <td>{{ .ExactBinary }}</td><td>{{ .CategoryBinary }}</td>
      <td>{{ printf "%.4f" .ExactJaccard }}</td><td>{{ printf "%.4f" .CategoryJaccard }}</td>
    </tr>
    {{ end }}
  </table>
</body>
</html>
`
