// internal/metrics/tables.go
package metrics

import (
	"sort"

	"pabench/internal/reconcile"
)

// BuildRawTable assembles the raw per-case table. Non-submitted rows whose
// task also produced a submitted row are dropped: a retried task must not
// appear twice, and the successful record wins. Rows are sorted stably by
// (llm, sample_type) so report output is reproducible.
func BuildRawTable(submitted, nonSubmitted []reconcile.CaseSummary, steps map[string]*int) []Row {
	submittedIDs := make(map[string]struct{}, len(submitted))
	for _, s := range submitted {
		submittedIDs[s.TaskID] = struct{}{}
	}

	rows := make([]Row, 0, len(submitted)+len(nonSubmitted))
	for _, s := range submitted {
		rows = append(rows, Row{CaseSummary: s, Steps: steps[s.TaskID]})
	}
	for _, s := range nonSubmitted {
		if _, dup := submittedIDs[s.TaskID]; dup {
			continue
		}
		rows = append(rows, Row{CaseSummary: s, Steps: steps[s.TaskID]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LLM != rows[j].LLM {
			return rows[i].LLM < rows[j].LLM
		}
		return rows[i].SampleType < rows[j].SampleType
	})
	return rows
}

// ConfusionMetrics counts TP/TN/FP/FN per model and derives sensitivity and
// specificity, leaving a ratio nil when its denominator is zero.
func ConfusionMetrics(rows []Row) []ModelConfusion {
	byModel := make(map[string]*ModelConfusion)
	var order []string
	for _, row := range rows {
		mc, ok := byModel[row.LLM]
		if !ok {
			mc = &ModelConfusion{LLM: row.LLM}
			byModel[row.LLM] = mc
			order = append(order, row.LLM)
		}
		switch row.ConfusionLabel {
		case reconcile.LabelTP:
			mc.TP++
		case reconcile.LabelTN:
			mc.TN++
		case reconcile.LabelFP:
			mc.FP++
		case reconcile.LabelFN:
			mc.FN++
		}
	}

	sort.Strings(order)
	out := make([]ModelConfusion, 0, len(order))
	for _, llm := range order {
		mc := byModel[llm]
		mc.Sensitivity = ratio(mc.TP, mc.TP+mc.FN)
		mc.Specificity = ratio(mc.TN, mc.TN+mc.FP)
		out = append(out, *mc)
	}
	return out
}

func ratio(num, den int) *float64 {
	if den <= 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// BuildAccuracyTable computes mean per-field accuracy over submitted cases
// of the clean sample types, for the canonical field columns between
// startField and endField inclusive, with clinical_info appended. A field
// the agent never filled scores 0 for that case. Empty input, or boundary
// names that do not resolve, yield a table with no field rows — callers
// must tolerate zero-row results.
func BuildAccuracyTable(rows []Row, startField, endField string, cleanTypes []string) AccuracyTable {
	fields := fieldSpan(startField, endField)
	if len(fields) > 0 {
		fields = append(fields, "clinical_info")
	}

	table := AccuracyTable{
		Fields: fields,
		Cells:  make(map[string]map[string]float64),
	}
	if len(fields) == 0 {
		return table
	}

	filtered := filterClean(rows, cleanTypes)
	counts := make(map[string]int)
	correct := make(map[string]map[string]int)
	for _, row := range filtered {
		if row.LLM == "" {
			continue
		}
		counts[row.LLM]++
		for _, field := range fields {
			if !fieldCorrect(row.CaseSummary, field) {
				continue
			}
			if correct[field] == nil {
				correct[field] = make(map[string]int)
			}
			correct[field][row.LLM]++
		}
	}

	for llm := range counts {
		table.Models = append(table.Models, llm)
	}
	sort.Strings(table.Models)

	for _, field := range fields {
		cells := make(map[string]float64, len(table.Models))
		for _, llm := range table.Models {
			cells[llm] = float64(correct[field][llm]) / float64(counts[llm])
		}
		table.Cells[field] = cells
	}
	return table
}

// fieldSpan slices the canonical form-field order between two boundary
// names, inclusive. An unknown or inverted boundary yields nil.
func fieldSpan(startField, endField string) []string {
	start, end := -1, -1
	for i, f := range reconcile.FormFields {
		if f == startField {
			start = i
		}
		if f == endField {
			end = i
		}
	}
	if start < 0 || end < 0 || start > end {
		return nil
	}
	return append([]string(nil), reconcile.FormFields[start:end+1]...)
}

func fieldCorrect(s reconcile.CaseSummary, field string) bool {
	if field == "clinical_info" {
		return s.ClinicalInfo != nil && *s.ClinicalInfo == 1
	}
	v, ok := s.Fields[field]
	return ok && v.IsCorrect
}

func filterClean(rows []Row, cleanTypes []string) []Row {
	if len(cleanTypes) == 0 {
		cleanTypes = defaultCleanTypes
	}
	clean := make(map[string]struct{}, len(cleanTypes))
	for _, t := range cleanTypes {
		clean[t] = struct{}{}
	}

	var out []Row
	for _, row := range rows {
		if !row.Submitted {
			continue
		}
		if _, ok := clean[row.SampleType]; !ok {
			continue
		}
		out = append(out, row)
	}
	return out
}
