package views

import (
	"strings"
	"testing"
)

func TestRenderTodoPanelMarksCompletedAndSelected(t *testing.T) {
	out := RenderTodoPanel(TodoPanelData{Items: []TodoItemData{
		{Position: 1, ID: "a", Text: "write docs", Completed: true},
		{Position: 2, ID: "b", Text: "ship", Selected: true},
	}})
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "ship") {
		t.Fatalf("unexpected todo panel:\n%s", out)
	}
}

func TestRenderTodoPanelEmpty(t *testing.T) {
	out := RenderTodoPanel(TodoPanelData{})
	if !strings.Contains(out, "nothing to do yet") {
		t.Fatalf("expected empty message, got:\n%s", out)
	}
}

func TestRenderGoalProgressStates(t *testing.T) {
	achieved := RenderGoalProgress(GoalProgressData{Description: "Ship", IsAchieved: true, Percentage: 100, Completed: 2, Required: 2})
	if !strings.Contains(achieved, "goal achieved") || !strings.Contains(achieved, "100%") {
		t.Fatalf("unexpected achieved render:\n%s", achieved)
	}
	missed := RenderGoalProgress(GoalProgressData{Description: "Ship", IsPastDeadline: true, PenaltyApplied: true})
	if !strings.Contains(missed, "deadline passed") || !strings.Contains(missed, "penalty applied") {
		t.Fatalf("unexpected missed render:\n%s", missed)
	}
}

func TestRenderNotification(t *testing.T) {
	if RenderNotification("info", "") != "" {
		t.Fatal("expected empty render for empty message")
	}
	out := RenderNotification("warning", "points deducted")
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, "points deducted") {
		t.Fatalf("unexpected notification: %s", out)
	}
}

func TestStatusMarkdown(t *testing.T) {
	md := StatusMarkdown(StatusPanelData{Level: 2, Experience: 150, Points: 30, IntoLevel: 50, PerLevel: 100}, nil)
	if !strings.Contains(md, "**Level:** 2") || !strings.Contains(md, "_No goal set._") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	md = StatusMarkdown(StatusPanelData{Level: 1}, &GoalProgressData{Description: "Ship", Percentage: 50, Completed: 1, Required: 2, PenaltyPoints: 5})
	if !strings.Contains(md, "## Goal") || !strings.Contains(md, "5 pts (not applied)") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestRenderTaskListShortensIDs(t *testing.T) {
	out := RenderTaskList([]TodoItemData{{Position: 1, ID: "0123456789abcdef", Text: "x"}})
	if !strings.Contains(out, "01234567") || strings.Contains(out, "0123456789") {
		t.Fatalf("unexpected list: %s", out)
	}
}

func TestRenderHelpPanelRecent(t *testing.T) {
	out := RenderHelpPanel(HelpPanelData{Mode: "list"})
	if strings.Contains(out, "recent notifications") {
		t.Fatalf("no recent block expected without notices: %s", out)
	}
	out = RenderHelpPanel(HelpPanelData{Mode: "list", Recent: [][2]string{{"warning", "points deducted"}}})
	if !strings.Contains(out, "recent notifications") || !strings.Contains(out, "[warning] points deducted") {
		t.Fatalf("unexpected help panel: %s", out)
	}
}
