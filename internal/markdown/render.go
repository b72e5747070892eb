package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rogersnm/todos/internal/model"
)

// Placeholder is shown instead of an empty list.
const Placeholder = "No tasks found."

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func TextStyle(completed bool) lipgloss.Style {
	if completed {
		return doneStyle
	}
	return pendingStyle
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderStats(s model.Stats) string {
	return RenderField("Total", fmt.Sprint(s.Total)) + "  " +
		RenderField("Completed", fmt.Sprint(s.Completed)) + "  " +
		RenderField("Pending", fmt.Sprint(s.Pending))
}

func RenderHeader(title string) string {
	return headerStyle.Render(title)
}

func RenderWarning(msg string) string {
	return warnStyle.Render("warning: " + msg)
}
