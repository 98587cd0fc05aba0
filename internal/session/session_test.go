package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/storage"
	"github.com/sandeepkv93/taskquest/internal/todo"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func ids() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openSession(t *testing.T, kv storage.KV, c *clock) *Session {
	t.Helper()
	s, err := Open(t.Context(), Options{KV: kv, Now: c.Now, NewID: ids(), Location: time.UTC})
	require.NoError(t, err)
	return s
}

func stored(t *testing.T, kv storage.KV, key string) (string, bool) {
	t.Helper()
	v, ok, err := kv.Get(t.Context(), key)
	require.NoError(t, err)
	return v, ok
}

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAddToggleDeletePersist(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := openSession(t, kv, &clock{t: start})
	ctx := t.Context()

	task, err := s.AddTask(ctx, "write tests")
	require.NoError(t, err)
	require.Equal(t, "id-1", task.ID)

	_, err = s.AddTask(ctx, "   ")
	require.ErrorIs(t, err, todo.ErrEmptyTaskText)
	require.Len(t, s.Tasks(), 1)

	ok, err := s.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.Progress{Points: 10, Experience: 50, Level: 1}, s.Progress())

	v, _ := stored(t, kv, storage.KeyPoints)
	require.Equal(t, "10", v)
	v, _ = stored(t, kv, storage.KeyExperience)
	require.Equal(t, "50", v)

	ok, err = s.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, s.Tasks())
	require.Equal(t, 10, s.Progress().Points, "deleting a completed task keeps its credit")

	v, _ = stored(t, kv, storage.KeyTodos)
	require.JSONEq(t, `[]`, v)

	ok, err = s.ToggleTask(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReopenRestoresState(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := &clock{t: start}
	s := openSession(t, kv, c)
	task, err := s.AddTask(t.Context(), "persist me")
	require.NoError(t, err)
	_, err = s.ToggleTask(t.Context(), task.ID)
	require.NoError(t, err)

	again := openSession(t, kv, c)
	require.Equal(t, s.Tasks(), again.Tasks())
	require.Equal(t, s.Progress(), again.Progress())
}

func TestOpenWritesBackMigratedLevel(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(t.Context(), storage.KeyLevel, "3"))

	s := openSession(t, kv, &clock{t: start})
	require.Equal(t, 200, s.Progress().Experience)
	v, ok := stored(t, kv, storage.KeyExperience)
	require.True(t, ok)
	require.Equal(t, "200", v)
}

func TestSetGoalValidation(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := openSession(t, kv, &clock{t: start})

	_, err := s.SetGoal(t.Context(), model.GoalDraft{Description: "x", Deadline: "2026-03-02", RequiredCount: "0"})
	require.ErrorIs(t, err, model.ErrInvalidRequiredCount)
	require.Nil(t, s.Goal())
	require.Equal(t, []model.Notification{{Message: MsgInvalidRequired, Severity: model.SeverityError}}, s.TakeNotifications())
	_, ok := stored(t, kv, storage.KeyGoal)
	require.False(t, ok)

	_, err = s.SetGoal(t.Context(), model.GoalDraft{Deadline: "2026-03-02", RequiredCount: "1"})
	require.ErrorIs(t, err, model.ErrGoalDescriptionRequired)
	require.Equal(t, MsgGoalFieldsRequired, s.TakeNotifications()[0].Message)

	_, err = s.SetGoal(t.Context(), model.GoalDraft{Description: "x", Deadline: "2026-03-02", RequiredCount: "1", PenaltyPoints: "-3"})
	require.ErrorIs(t, err, model.ErrInvalidPenalty)
	require.Equal(t, MsgInvalidPenaltyInput, s.TakeNotifications()[0].Message)
}

func TestSetAndClearGoal(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := openSession(t, kv, &clock{t: start})

	g, err := s.SetGoal(t.Context(), model.GoalDraft{Description: " Ship ", Deadline: "2026-03-02T12:00", RequiredCount: "2", PenaltyPoints: "5"})
	require.NoError(t, err)
	require.Equal(t, "Ship", g.Description)
	require.Equal(t, []model.Notification{{Message: MsgGoalSet, Severity: model.SeveritySuccess}}, s.TakeNotifications())

	gp, ok := s.GoalProgress()
	require.True(t, ok)
	require.Equal(t, "1 day remaining", gp.RemainingTimeText)
	require.Equal(t, 0, gp.ProgressPercentage)

	_, ok = stored(t, kv, storage.KeyGoal)
	require.True(t, ok)
	require.Equal(t, model.GoalDraft{Description: "Ship", Deadline: "2026-03-02T12:00", RequiredCount: "2", PenaltyPoints: "5"}, s.Draft())

	require.NoError(t, s.ClearGoal(t.Context()))
	require.Nil(t, s.Goal())
	_, ok = stored(t, kv, storage.KeyGoal)
	require.False(t, ok)
	require.Equal(t, []model.Notification{{Message: MsgGoalReset, Severity: model.SeverityInfo}}, s.TakeNotifications())

	_, ok = s.GoalProgress()
	require.False(t, ok)
}

func TestPenaltyAppliedOnceAcrossEvaluations(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := &clock{t: start}
	s := openSession(t, kv, c)
	ctx := t.Context()

	for i := 0; i < 5; i++ {
		task, err := s.AddTask(ctx, fmt.Sprintf("task %d", i))
		require.NoError(t, err)
		_, err = s.ToggleTask(ctx, task.ID)
		require.NoError(t, err)
	}
	require.Equal(t, 50, s.Progress().Points)

	_, err := s.SetGoal(ctx, model.GoalDraft{Description: "Ten things", Deadline: "2026-03-01T13:00", RequiredCount: "10", PenaltyPoints: "30"})
	require.NoError(t, err)
	s.TakeNotifications()

	c.t = start.Add(2 * time.Hour)
	gp, ok, err := s.Evaluate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, gp.IsPastDeadline)
	require.Equal(t, 20, s.Progress().Points)
	require.True(t, s.Goal().PenaltyApplied)
	notes := s.TakeNotifications()
	require.Len(t, notes, 1)
	require.Equal(t, model.SeverityWarning, notes[0].Severity)

	for i := 0; i < 3; i++ {
		_, _, err = s.Evaluate(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 20, s.Progress().Points)
	require.Empty(t, s.TakeNotifications())

	reopened := openSession(t, kv, c)
	_, _, err = reopened.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, 20, reopened.Progress().Points)
	require.True(t, reopened.Goal().PenaltyApplied)
}

func TestMutationReevaluatesImmediately(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := &clock{t: start}
	s := openSession(t, kv, c)
	ctx := t.Context()

	_, err := s.SetGoal(ctx, model.GoalDraft{Description: "One", Deadline: "2026-03-01T11:00", RequiredCount: "1", PenaltyPoints: "5"})
	require.NoError(t, err)
	require.True(t, s.Goal().PenaltyApplied, "goal already past deadline is charged on set")
	require.Equal(t, 0, s.Progress().Points)
}

type brokenKV struct {
	*storage.MemoryKV
}

var errWrite = errors.New("read-only filesystem")

func (brokenKV) Set(context.Context, string, string) error { return errWrite }

func TestStoreErrorsKeepMemoryStateAndLog(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s, err := Open(t.Context(), Options{
		KV:    brokenKV{storage.NewMemoryKV()},
		Log:   zap.New(core),
		Now:   (&clock{t: start}).Now,
		NewID: ids(),
	})
	require.NoError(t, err)

	_, err = s.AddTask(t.Context(), "still here")
	require.ErrorIs(t, err, errWrite)
	require.Len(t, s.Tasks(), 1)
	require.Equal(t, 1, logs.FilterMessage("persist state").Len())
}

func TestResolve(t *testing.T) {
	s := openSession(t, storage.NewMemoryKV(), &clock{t: start})
	_, err := s.AddTask(t.Context(), "first")
	require.NoError(t, err)

	task, err := s.Resolve("1")
	require.NoError(t, err)
	require.Equal(t, "first", task.Text)

	_, err = s.Resolve("nope")
	require.ErrorIs(t, err, todo.ErrTaskNotFound)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := &clock{t: start}
	watcher := openSession(t, kv, c)
	writer := openSession(t, kv, c)

	_, err := writer.AddTask(t.Context(), "from elsewhere")
	require.NoError(t, err)
	require.Empty(t, watcher.Tasks())

	require.NoError(t, watcher.Reload(t.Context()))
	require.Len(t, watcher.Tasks(), 1)
	require.Equal(t, "from elsewhere", watcher.Tasks()[0].Text)
}
