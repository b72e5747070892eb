package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/view"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// RenderTaskTable renders the visible tasks, or the placeholder when none match.
func RenderTaskTable(r view.Result) string {
	if r.Empty() {
		return Placeholder
	}
	rows := make([][]string, len(r.Tasks))
	for i, t := range r.Tasks {
		rows[i] = []string{
			fmt.Sprint(t.ID),
			checkbox(t.Completed),
			TextStyle(t.Completed).Render(t.Text),
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	return renderTable([]string{"ID", "Done", "Task", "Created"}, rows)
}

// RenderView is the full terminal rendering of one store snapshot.
func RenderView(r view.Result, s model.Stats) string {
	var sb strings.Builder
	sb.WriteString(RenderTaskTable(r))
	sb.WriteString("\n")
	sb.WriteString(RenderStats(s))
	if r.Mode != "" && r.Mode != model.FilterAll {
		sb.WriteString("  " + labelStyle.Render("(showing "+string(r.Mode)+")"))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
