package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTask = errors.New("model: invalid task")

type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidTask)
	}
	return nil
}

// Progress is the gamification state. Level is derived from Experience and
// is only carried here so callers do not have to recompute it.
type Progress struct {
	Points     int
	Experience int
	Level      int
}

func NewProgress() Progress {
	return Progress{Level: 1}
}
