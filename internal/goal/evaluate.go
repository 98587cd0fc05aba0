package goal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/taskquest/internal/gamify"
	"github.com/sandeepkv93/taskquest/internal/model"
)

const (
	TextDeadlineInvalid = "deadline invalid"
	TextDeadlinePassed  = "deadline passed"
	TextUnderOneMinute  = "under one minute remaining"
)

// Evaluate derives goal progress from the goal, the number of completed
// tasks and the current time.
func Evaluate(g model.Goal, completedCount int, now time.Time, loc *time.Location) model.GoalProgress {
	if completedCount < 0 {
		completedCount = 0
	}
	required := g.RequiredCount
	if required < 0 {
		required = 0
	}

	gp := model.GoalProgress{
		CompletedCount: completedCount,
		RequiredCount:  required,
	}
	if required == 0 {
		gp.IsAchieved = true
		gp.ProgressPercentage = 100
	} else {
		gp.IsAchieved = completedCount >= required
		ratio := math.Min(float64(completedCount)/float64(required), 1)
		gp.ProgressPercentage = int(math.Floor(ratio*100 + 0.5))
	}

	deadline, ok := ParseDeadline(g.Deadline, loc)
	if !ok {
		gp.RemainingTimeText = TextDeadlineInvalid
		return gp
	}
	gp.IsPastDeadline = !now.Before(deadline)
	gp.RemainingTimeText = RemainingTimeText(deadline.Sub(now))
	return gp
}

// RemainingTimeText breaks a positive duration into days, hours and whole
// minutes. Zero units are omitted.
func RemainingTimeText(d time.Duration) string {
	if d <= 0 {
		return TextDeadlinePassed
	}
	totalMinutes := int64(d / time.Minute)
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	var parts []string
	if days > 0 {
		parts = append(parts, unit(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, unit(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, unit(minutes, "minute"))
	}
	if len(parts) == 0 {
		return TextUnderOneMinute
	}
	return strings.Join(parts, " ") + " remaining"
}

func unit(n int64, name string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", name)
	}
	return fmt.Sprintf("%d %ss", n, name)
}

// Penalty is the outcome of CheckPenalty. When Apply is false Goal and
// Progress are the inputs unchanged.
type Penalty struct {
	Apply        bool
	Goal         model.Goal
	Progress     model.Progress
	Notification model.Notification
}

// CheckPenalty deducts the goal's penalty once the deadline has passed
// without the goal being achieved. A goal already marked PenaltyApplied is
// never charged again.
func CheckPenalty(g model.Goal, gp model.GoalProgress, progress model.Progress) Penalty {
	out := Penalty{Goal: g, Progress: progress}
	if !gp.IsPastDeadline || gp.IsAchieved || g.PenaltyApplied || g.PenaltyPoints <= 0 {
		return out
	}
	out.Apply = true
	out.Goal.PenaltyApplied = true
	out.Progress = gamify.ApplyPenalty(progress, g.PenaltyPoints)
	out.Notification = model.Notify(model.SeverityWarning,
		"Goal \"%s\" was not achieved; %d points deducted.", g.Description, g.PenaltyPoints)
	return out
}
