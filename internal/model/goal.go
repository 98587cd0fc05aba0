package model

import (
	"errors"
	"strings"
)

var (
	ErrGoalDescriptionRequired = errors.New("model: goal description and deadline are required")
	ErrInvalidRequiredCount    = errors.New("model: required count must be at least 1")
	ErrInvalidPenalty          = errors.New("model: penalty points must be at least 0")
)

// Goal is the single optional deadline goal. Deadline keeps the string the
// user entered; it is parsed on every evaluation.
type Goal struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Deadline       string `json:"deadline"`
	RequiredCount  int    `json:"requiredCount"`
	PenaltyPoints  int    `json:"penaltyPoints"`
	PenaltyApplied bool   `json:"penaltyApplied"`
}

// GoalProgress is derived from a Goal, the completed task count and a clock.
type GoalProgress struct {
	ProgressPercentage int
	RemainingTimeText  string
	CompletedCount     int
	RequiredCount      int
	IsAchieved         bool
	IsPastDeadline     bool
}

// GoalDraft holds raw goal form input.
type GoalDraft struct {
	Description   string
	Deadline      string
	RequiredCount string
	PenaltyPoints string
}

// DraftFromGoal prefills a form from an existing goal. Zero counts are left
// blank so the form shows its placeholders.
func DraftFromGoal(g *Goal) GoalDraft {
	if g == nil {
		return GoalDraft{}
	}
	d := GoalDraft{Description: g.Description, Deadline: g.Deadline}
	if g.RequiredCount != 0 {
		d.RequiredCount = itoa(g.RequiredCount)
	}
	if g.PenaltyPoints != 0 {
		d.PenaltyPoints = itoa(g.PenaltyPoints)
	}
	return d
}

// Build validates the draft and returns a goal with PenaltyApplied unset.
// The caller assigns the id.
func (d GoalDraft) Build(id string) (Goal, error) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" || d.Deadline == "" {
		return Goal{}, ErrGoalDescriptionRequired
	}
	required, ok := ParseNumber(d.RequiredCount)
	if !ok || required <= 0 {
		return Goal{}, ErrInvalidRequiredCount
	}
	penaltyRaw := d.PenaltyPoints
	if penaltyRaw == "" {
		penaltyRaw = "0"
	}
	penalty, ok := ParseNumber(penaltyRaw)
	if !ok || penalty < 0 {
		return Goal{}, ErrInvalidPenalty
	}
	return Goal{
		ID:            id,
		Description:   desc,
		Deadline:      d.Deadline,
		RequiredCount: ClampCount(required),
		PenaltyPoints: ClampCount(penalty),
	}, nil
}
