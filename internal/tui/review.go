// internal/tui/review.go
// Package tui renders the interactive case-summary browser used by the
// review command.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pabench/internal/metrics"
	"pabench/internal/reconcile"
	"pabench/internal/util"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(1)
)

// reviewModel drives the case browser: a scrollable table of evaluated
// cases with a detail pane for the selected row.
type reviewModel struct {
	table table.Model
	rows  []metrics.Row
}

// NewReviewModel builds the browser over an already-sorted raw table.
func NewReviewModel(rows []metrics.Row) reviewModel {
	columns := []table.Column{
		{Title: "LLM", Width: 28},
		{Title: "Type", Width: 5},
		{Title: "Patient", Width: 22},
		{Title: "Label", Width: 6},
		{Title: "Incorrect", Width: 10},
		{Title: "Missing", Width: 8},
		{Title: "Steps", Width: 6},
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, table.Row{
			row.LLM,
			row.SampleType,
			row.PatientName,
			string(row.ConfusionLabel),
			formatCount(row.NumIncorrect),
			formatCount(row.NumMissing),
			formatCount(row.Steps),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return reviewModel{table: t, rows: rows}
}

// Init initializes the model.
func (m reviewModel) Init() tea.Cmd {
	return nil
}

// Update handles key and resize messages.
func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := msg.Height - 12
		if height < 5 {
			height = 5
		}
		m.table.SetHeight(height)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table plus the detail pane for the selected case.
func (m reviewModel) View() string {
	var b strings.Builder
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")

	if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.rows) {
		b.WriteString(detailStyle.Render(caseDetail(m.rows[cursor])))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: navigate • q: quit"))
	b.WriteString("\n")
	return b.String()
}

// caseDetail summarizes the selected case: wrong fields with both sides,
// missing fields, and the agent's output message for withheld runs.
func caseDetail(row metrics.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "task %s", row.TaskID)

	if !row.Submitted {
		b.WriteString("  (not submitted)")
		if msg := strings.TrimSpace(row.OutputMsg); msg != "" {
			fmt.Fprintf(&b, "\noutput: %s", util.TruncateRunes(msg, 120))
		}
		return b.String()
	}

	if len(row.IncorrectFields) == 0 && len(row.MissingFields) == 0 {
		b.WriteString("  all fields correct")
		return b.String()
	}
	for _, field := range sortedFieldNames(row) {
		v := row.IncorrectFields[field]
		fmt.Fprintf(&b, "\n%s: expected %v, got %v", field, v.Expected, v.Got)
	}
	if len(row.MissingFields) > 0 {
		fmt.Fprintf(&b, "\nmissing: %s", strings.Join(row.MissingFields, ", "))
	}
	return b.String()
}

func sortedFieldNames(row metrics.Row) []string {
	names := make([]string, 0, len(row.IncorrectFields))
	for _, field := range reconcile.FormFields {
		if _, ok := row.IncorrectFields[field]; ok {
			names = append(names, field)
		}
	}
	// Any field outside the canonical order still gets shown, last.
	for field := range row.IncorrectFields {
		if !containsString(names, field) {
			names = append(names, field)
		}
	}
	return names
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func formatCount(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// Run starts the browser and blocks until the user quits.
func Run(rows []metrics.Row) error {
	_, err := tea.NewProgram(NewReviewModel(rows), tea.WithAltScreen()).Run()
	return err
}
