package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/goal"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/storage"
	"github.com/sandeepkv93/taskquest/internal/todo"
)

const (
	MsgGoalSet             = "New goal set!"
	MsgGoalReset           = "Goal reset."
	MsgGoalFieldsRequired  = "Enter a goal description and deadline."
	MsgInvalidRequired     = "Required count must be a number of at least 1."
	MsgInvalidPenaltyInput = "Penalty points must be a number of at least 0."
)

type Options struct {
	KV       storage.KV
	Log      *zap.Logger
	Now      func() time.Time
	NewID    func() string
	Location *time.Location
}

// Session owns the application state for one UI or command invocation. It is
// not safe for concurrent use; callers serialize access on their own loop.
type Session struct {
	kv    storage.KV
	log   *zap.Logger
	now   func() time.Time
	newID func() string
	loc   *time.Location

	state   storage.Snapshot
	pending []model.Notification
}

// Open loads the persisted state. A legacy level that was migrated into
// experience is written back immediately.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.KV == nil {
		return nil, errors.New("session: nil store")
	}
	s := &Session{
		kv:    opts.KV,
		log:   opts.Log,
		now:   opts.Now,
		newID: opts.NewID,
		loc:   opts.Location,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with what the store holds. Queued
// notifications are kept.
func (s *Session) Reload(ctx context.Context) error {
	if r, ok := s.kv.(storage.Refresher); ok {
		if err := r.Refresh(ctx); err != nil {
			return err
		}
	}
	snap, err := storage.Load(ctx, s.kv, storage.LoadOptions{Log: s.log, NewID: s.newID})
	if err != nil {
		return err
	}
	if snap.Migrated {
		if err := storage.SaveProgress(ctx, s.kv, snap.Progress); err != nil {
			s.log.Error("write migrated experience", zap.Error(err))
		}
		snap.Migrated = false
	}
	s.state = snap
	s.log.Debug("state loaded",
		zap.Int("todos", len(snap.Todos)),
		zap.Int("experience", snap.Progress.Experience),
		zap.Bool("goal", snap.Goal != nil),
	)
	return nil
}

func (s *Session) Tasks() []model.Task {
	out := make([]model.Task, len(s.state.Todos))
	copy(out, s.state.Todos)
	return out
}

func (s *Session) Progress() model.Progress { return s.state.Progress }

// Goal returns a copy of the current goal, or nil.
func (s *Session) Goal() *model.Goal {
	if s.state.Goal == nil {
		return nil
	}
	g := *s.state.Goal
	return &g
}

func (s *Session) Location() *time.Location { return s.loc }

func (s *Session) CompletedCount() int { return todo.CompletedCount(s.state.Todos) }

// Draft returns goal form values prefilled from the current goal.
func (s *Session) Draft() model.GoalDraft { return model.DraftFromGoal(s.state.Goal) }

func (s *Session) Resolve(ref string) (model.Task, error) {
	return todo.Resolve(s.state.Todos, ref)
}

// AddTask appends a task. Blank text returns todo.ErrEmptyTaskText and
// changes nothing.
func (s *Session) AddTask(ctx context.Context, text string) (model.Task, error) {
	tasks, task, err := todo.Add(s.state.Todos, text, s.newID)
	if err != nil {
		return model.Task{}, err
	}
	next := s.state
	next.Todos = tasks
	return task, s.commit(ctx, next)
}

func (s *Session) DeleteTask(ctx context.Context, id string) (bool, error) {
	tasks, ok := todo.Delete(s.state.Todos, id)
	if !ok {
		return false, nil
	}
	next := s.state
	next.Todos = tasks
	return true, s.commit(ctx, next)
}

func (s *Session) ToggleTask(ctx context.Context, id string) (bool, error) {
	tasks, progress, ok := todo.Toggle(s.state.Todos, s.state.Progress, id)
	if !ok {
		return false, nil
	}
	next := s.state
	next.Todos = tasks
	next.Progress = progress
	return true, s.commit(ctx, next)
}

// SetGoal validates the draft and replaces the current goal. Validation
// failures queue an error notification and return the model error.
func (s *Session) SetGoal(ctx context.Context, draft model.GoalDraft) (model.Goal, error) {
	g, err := draft.Build(s.newID())
	if err != nil {
		s.notify(model.Notify(model.SeverityError, "%s", validationMessage(err)))
		return model.Goal{}, err
	}
	next := s.state
	next.Goal = &g
	s.notify(model.Notify(model.SeveritySuccess, MsgGoalSet))
	s.log.Info("goal set",
		zap.String("id", g.ID),
		zap.String("deadline", g.Deadline),
		zap.Int("required", g.RequiredCount),
		zap.Int("penalty", g.PenaltyPoints),
	)
	return g, s.commit(ctx, next)
}

func (s *Session) ClearGoal(ctx context.Context) error {
	next := s.state
	next.Goal = nil
	s.notify(model.Notify(model.SeverityInfo, MsgGoalReset))
	s.log.Info("goal reset")
	return s.commit(ctx, next)
}

// GoalProgress evaluates the current goal without side effects.
func (s *Session) GoalProgress() (model.GoalProgress, bool) {
	if s.state.Goal == nil {
		return model.GoalProgress{}, false
	}
	return goal.Evaluate(*s.state.Goal, s.CompletedCount(), s.now(), s.loc), true
}

// Evaluate re-evaluates the goal and applies the missed-deadline penalty
// when due. ok is false when there is no goal.
func (s *Session) Evaluate(ctx context.Context) (model.GoalProgress, bool, error) {
	gp, ok := s.GoalProgress()
	if !ok {
		return gp, false, nil
	}
	p := goal.CheckPenalty(*s.state.Goal, gp, s.state.Progress)
	if !p.Apply {
		return gp, true, nil
	}

	prev := s.state
	next := s.state
	g := p.Goal
	next.Goal = &g
	next.Progress = p.Progress
	s.state = next
	s.notify(p.Notification)
	s.log.Warn("goal penalty applied",
		zap.String("id", g.ID),
		zap.Int("penalty", g.PenaltyPoints),
		zap.Int("points", next.Progress.Points),
	)
	if err := s.persist(ctx, prev, next); err != nil {
		return gp, true, err
	}
	return gp, true, nil
}

// TakeNotifications drains queued notifications, oldest first.
func (s *Session) TakeNotifications() []model.Notification {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Session) notify(n model.Notification) {
	s.pending = append(s.pending, n)
}

// commit installs next, writes it through and re-evaluates the goal. The
// in-memory state is kept even when the write fails.
func (s *Session) commit(ctx context.Context, next storage.Snapshot) error {
	prev := s.state
	s.state = next
	persistErr := s.persist(ctx, prev, next)
	_, _, evalErr := s.Evaluate(ctx)
	return errors.Join(persistErr, evalErr)
}

func (s *Session) persist(ctx context.Context, prev, next storage.Snapshot) error {
	if err := storage.Persist(ctx, s.kv, prev, next); err != nil {
		s.log.Error("persist state", zap.Error(err))
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrGoalDescriptionRequired):
		return MsgGoalFieldsRequired
	case errors.Is(err, model.ErrInvalidRequiredCount):
		return MsgInvalidRequired
	case errors.Is(err, model.ErrInvalidPenalty):
		return MsgInvalidPenaltyInput
	default:
		return err.Error()
	}
}
