package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Plain renderers for command-line output.

func RenderTaskList(items []TodoItemData) string {
	if len(items) == 0 {
		return mutedStyle.Render("no tasks")
	}
	var b strings.Builder
	for _, item := range items {
		box := "[ ]"
		text := item.Text
		if item.Completed {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		short := item.ID
		if len(short) > 8 {
			short = short[:8]
		}
		b.WriteString(fmt.Sprintf("%2d. %s %s %s\n", item.Position, box, mutedStyle.Render(short), text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// StatusMarkdown is the markdown summary used by the status command.
func StatusMarkdown(status StatusPanelData, goal *GoalProgressData) string {
	var b strings.Builder
	b.WriteString("# taskquest\n\n")
	b.WriteString(fmt.Sprintf("- **Level:** %d\n", status.Level))
	b.WriteString(fmt.Sprintf("- **Experience:** %d (%d/%d to next level)\n", status.Experience, status.IntoLevel, status.PerLevel))
	b.WriteString(fmt.Sprintf("- **Points:** %d\n", status.Points))
	if goal == nil {
		b.WriteString("\n_No goal set._\n")
		return b.String()
	}
	b.WriteString("\n## Goal\n\n")
	b.WriteString(fmt.Sprintf("%s\n\n", goal.Description))
	b.WriteString(fmt.Sprintf("- **Deadline:** %s\n", goal.Deadline))
	b.WriteString(fmt.Sprintf("- **Progress:** %d%% (%d/%d)\n", goal.Percentage, goal.Completed, goal.Required))
	b.WriteString(fmt.Sprintf("- **Remaining:** %s\n", goal.RemainingText))
	switch {
	case goal.IsAchieved:
		b.WriteString("- **State:** achieved\n")
	case goal.IsPastDeadline:
		b.WriteString("- **State:** missed\n")
	default:
		b.WriteString("- **State:** in progress\n")
	}
	if goal.PenaltyPoints > 0 {
		applied := "not applied"
		if goal.PenaltyApplied {
			applied = "applied"
		}
		b.WriteString(fmt.Sprintf("- **Penalty:** %d pts (%s)\n", goal.PenaltyPoints, applied))
	}
	return b.String()
}

func RenderError(msg string) string {
	return errorStyle.Render("error: " + msg)
}

// RenderNoticeLine is the single-line form of a notification.
func RenderNoticeLine(severity string, msg string) string {
	style := lipgloss.NewStyle().Foreground(severityColor(severity))
	return style.Render(fmt.Sprintf("[%s] %s", severity, msg))
}
