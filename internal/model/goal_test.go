package model

import (
	"errors"
	"testing"
)

func TestGoalDraftBuildSuccess(t *testing.T) {
	d := GoalDraft{
		Description:   "  Ship release  ",
		Deadline:      "2026-03-01T18:00",
		RequiredCount: "3.8",
		PenaltyPoints: "",
	}
	g, err := d.Build("goal-1")
	if err != nil {
		t.Fatalf("build goal: %v", err)
	}
	want := Goal{ID: "goal-1", Description: "Ship release", Deadline: "2026-03-01T18:00", RequiredCount: 3}
	if g != want {
		t.Fatalf("unexpected goal: %+v", g)
	}
}

func TestGoalDraftBuildValidation(t *testing.T) {
	cases := []struct {
		name  string
		draft GoalDraft
		want  error
	}{
		{"blank description", GoalDraft{Description: "  ", Deadline: "2026-03-01", RequiredCount: "1"}, ErrGoalDescriptionRequired},
		{"missing deadline", GoalDraft{Description: "x", RequiredCount: "1"}, ErrGoalDescriptionRequired},
		{"empty required", GoalDraft{Description: "x", Deadline: "2026-03-01"}, ErrInvalidRequiredCount},
		{"zero required", GoalDraft{Description: "x", Deadline: "2026-03-01", RequiredCount: "0"}, ErrInvalidRequiredCount},
		{"text required", GoalDraft{Description: "x", Deadline: "2026-03-01", RequiredCount: "many"}, ErrInvalidRequiredCount},
		{"negative penalty", GoalDraft{Description: "x", Deadline: "2026-03-01", RequiredCount: "1", PenaltyPoints: "-1"}, ErrInvalidPenalty},
		{"text penalty", GoalDraft{Description: "x", Deadline: "2026-03-01", RequiredCount: "1", PenaltyPoints: "lots"}, ErrInvalidPenalty},
	}
	for _, tc := range cases {
		_, err := tc.draft.Build("id")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestGoalDraftFractionalRequiredBelowOneIsAccepted(t *testing.T) {
	g, err := GoalDraft{Description: "x", Deadline: "2026-03-01", RequiredCount: "0.5"}.Build("id")
	if err != nil {
		t.Fatalf("build goal: %v", err)
	}
	if g.RequiredCount != 0 {
		t.Fatalf("expected floored required count 0, got %d", g.RequiredCount)
	}
}

func TestDraftFromGoal(t *testing.T) {
	if d := DraftFromGoal(nil); d != (GoalDraft{}) {
		t.Fatalf("expected empty draft, got %+v", d)
	}
	d := DraftFromGoal(&Goal{Description: "Read", Deadline: "2026-03-01", RequiredCount: 4})
	if d.RequiredCount != "4" || d.PenaltyPoints != "" || d.Description != "Read" {
		t.Fatalf("unexpected draft: %+v", d)
	}
}
