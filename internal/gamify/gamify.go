package gamify

import "github.com/sandeepkv93/taskquest/internal/model"

const (
	// ExperiencePerTask is credited when a task is completed and taken back
	// when it is reopened.
	ExperiencePerTask = 50
	PointsPerTask     = 10

	// ExperiencePerLevel is the width of every level band.
	ExperiencePerLevel = 100
)

// LevelFor returns floor(experience/100)+1. Negative experience counts as 0.
func LevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// Normalize clamps points and experience at zero and re-derives the level.
func Normalize(p model.Progress) model.Progress {
	if p.Points < 0 {
		p.Points = 0
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	p.Level = LevelFor(p.Experience)
	return p
}

// Toggle flips the completion flag of the task with the given id and adjusts
// progress by the per-task credit. An unknown id leaves everything unchanged
// and reports changed=false. The input slice is not modified.
func Toggle(tasks []model.Task, progress model.Progress, id string) ([]model.Task, model.Progress, bool) {
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return tasks, progress, false
	}

	next := make([]model.Task, len(tasks))
	copy(next, tasks)
	next[idx].Completed = !next[idx].Completed

	if next[idx].Completed {
		progress.Experience += ExperiencePerTask
		progress.Points += PointsPerTask
	} else {
		progress.Experience -= ExperiencePerTask
		progress.Points -= PointsPerTask
	}
	return next, Normalize(progress), true
}

// ApplyPenalty deducts points, never going below zero.
func ApplyPenalty(progress model.Progress, points int) model.Progress {
	if points > 0 {
		progress.Points -= points
	}
	return Normalize(progress)
}

// LevelProgress describes how far experience is into the current level.
type LevelProgress struct {
	Level   int
	Current int
	Needed  int
	Percent float64
}

func NextLevelProgress(experience int) LevelProgress {
	if experience < 0 {
		experience = 0
	}
	current := experience % ExperiencePerLevel
	return LevelProgress{
		Level:   LevelFor(experience),
		Current: current,
		Needed:  ExperiencePerLevel,
		Percent: float64(current) / float64(ExperiencePerLevel),
	}
}
