package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatusPanelData struct {
	Level        int
	Experience   int
	Points       int
	LevelBarView string
	IntoLevel    int
	PerLevel     int
}

type TodoItemData struct {
	Position  int
	ID        string
	Text      string
	Completed bool
	Selected  bool
}

type TodoPanelData struct {
	InputView string
	Adding    bool
	Items     []TodoItemData
}

type GoalFormData struct {
	Active     bool
	FieldViews []string
	Labels     []string
	Focus      int
}

type GoalProgressData struct {
	Description    string
	Deadline       string
	BarView        string
	Percentage     int
	Completed      int
	Required       int
	RemainingText  string
	IsAchieved     bool
	IsPastDeadline bool
	PenaltyPoints  int
	PenaltyApplied bool
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
	// Recent holds past notifications as severity/message pairs, oldest
	// first.
	Recent [][2]string
}

func RenderStatusPanel(data StatusPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("progress") + "\n")
	b.WriteString(fmt.Sprintf("level %d  |  %d xp  |  %d pts\n", data.Level, data.Experience, data.Points))
	b.WriteString(data.LevelBarView + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d xp to level %d", data.IntoLevel, data.PerLevel, data.Level+1)))
	return b.String()
}

func RenderTodoPanel(data TodoPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("to-do") + "\n")
	if data.Adding {
		b.WriteString(data.InputView + "\n")
	} else {
		b.WriteString(mutedStyle.Render("actions: [a]add [space]toggle [d]delete [j/k]move") + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString(mutedStyle.Render("nothing to do yet"))
		return b.String()
	}
	for _, item := range data.Items {
		box := "[ ]"
		text := textStyle.Render(item.Text)
		if item.Completed {
			box = "[x]"
			text = doneStyle.Render(item.Text)
		}
		line := fmt.Sprintf("%2d. %s %s", item.Position, box, text)
		if item.Selected {
			line = selectedStyle.Render(fmt.Sprintf("%2d. %s %s", item.Position, box, item.Text))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderGoalForm(data GoalFormData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("set goal") + "\n")
	for i, view := range data.FieldViews {
		label := ""
		if i < len(data.Labels) {
			label = data.Labels[i]
		}
		marker := "  "
		if i == data.Focus {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-16s %s\n", marker, label, view))
	}
	b.WriteString(mutedStyle.Render("[tab]next field [enter]save [esc]cancel"))
	return b.String()
}

func RenderGoalProgress(data GoalProgressData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("goal") + "\n")
	b.WriteString(textStyle.Render(data.Description) + "\n")
	b.WriteString(mutedStyle.Render("deadline: "+data.Deadline) + "\n")
	b.WriteString(data.BarView + "\n")
	b.WriteString(fmt.Sprintf("%d%%  %d/%d done  %s\n", data.Percentage, data.Completed, data.Required, data.RemainingText))
	switch {
	case data.IsAchieved:
		b.WriteString(achievedStyle.Render("goal achieved"))
	case data.IsPastDeadline:
		b.WriteString(pastDueStyle.Render("deadline passed without reaching the goal"))
	default:
		if data.PenaltyPoints > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("miss it and lose %d pts", data.PenaltyPoints)))
		}
	}
	if data.PenaltyApplied {
		b.WriteString("\n" + mutedStyle.Render("penalty applied"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderNoGoal() string {
	return titleStyle.Render("goal") + "\n" + mutedStyle.Render("no goal set. press [g] to set one")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return titleStyle.Render("command") + "\n" + input
}

// RenderNotification draws the snackbar in the severity color.
func RenderNotification(severity string, message string) string {
	if message == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(severityColor(severity)).
		Foreground(severityColor(severity)).
		Padding(0, 1)
	return style.Render(fmt.Sprintf("%s  %s", strings.ToUpper(severity), message))
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("help: "+data.Mode) + "\n")
	b.WriteString(RenderMarkdown(strings.Join(data.Bindings, "\n")) + "\n")
	b.WriteString(data.HelpView)
	if len(data.Recent) > 0 {
		b.WriteString("\n\n" + titleStyle.Render("recent notifications"))
		for _, r := range data.Recent {
			b.WriteString("\n" + RenderNoticeLine(r[0], r[1]))
		}
	}
	return b.String()
}
