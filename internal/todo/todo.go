package todo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/taskquest/internal/gamify"
	"github.com/sandeepkv93/taskquest/internal/model"
)

var (
	ErrTaskNotFound  = errors.New("todo: task not found")
	ErrAmbiguousRef  = errors.New("todo: task reference matches more than one task")
	ErrEmptyTaskText = errors.New("todo: task text is empty")
)

// Add appends a new task. Whitespace-only text is rejected with
// ErrEmptyTaskText and tasks is returned unchanged. The text is stored as
// entered.
func Add(tasks []model.Task, text string, newID func() string) ([]model.Task, model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return tasks, model.Task{}, ErrEmptyTaskText
	}
	task := model.Task{ID: newID(), Text: text}
	if err := task.Validate(); err != nil {
		return tasks, model.Task{}, err
	}
	next := make([]model.Task, 0, len(tasks)+1)
	next = append(next, tasks...)
	next = append(next, task)
	return next, task, nil
}

// Delete removes the task with the given id. Progress is not adjusted; an
// unknown id is a no-op.
func Delete(tasks []model.Task, id string) ([]model.Task, bool) {
	next := make([]model.Task, 0, len(tasks))
	removed := false
	for _, t := range tasks {
		if t.ID == id {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		return tasks, false
	}
	return next, true
}

// Toggle flips a task and applies the completion credit.
func Toggle(tasks []model.Task, progress model.Progress, id string) ([]model.Task, model.Progress, bool) {
	return gamify.Toggle(tasks, progress, id)
}

func CompletedCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Resolve finds a task by exact id, 1-based position, or unique id prefix,
// in that order. A number outside the list is tried as a prefix.
func Resolve(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, ErrTaskNotFound
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], nil
	}

	var match *model.Task
	for i := range tasks {
		if !strings.HasPrefix(tasks[i].ID, ref) {
			continue
		}
		if match != nil {
			return model.Task{}, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
		}
		match = &tasks[i]
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	return *match, nil
}
