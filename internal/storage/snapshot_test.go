package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandeepkv93/taskquest/internal/model"
)

func seed(t *testing.T, values map[string]string) *MemoryKV {
	t.Helper()
	kv := NewMemoryKV()
	for k, v := range values {
		require.NoError(t, kv.Set(t.Context(), k, v))
	}
	return kv
}

func fixedID() string { return "fresh-id" }

func TestLoadEmptyStoreGivesDefaults(t *testing.T) {
	snap, err := Load(t.Context(), NewMemoryKV(), LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, snap.Todos)
	require.Equal(t, model.NewProgress(), snap.Progress)
	require.Nil(t, snap.Goal)
	require.False(t, snap.Migrated)
}

func TestLoadTodosDropsMalformedElements(t *testing.T) {
	kv := seed(t, map[string]string{KeyTodos: `[
		{"id":"a","text":"keep","completed":true},
		{"id":1,"text":"numeric id"},
		{"id":"b"},
		"string",
		null,
		{"id":"c","text":"truthy string","completed":"yes"},
		{"id":"d","text":"zero","completed":0},
		{"id":"e","text":"object","completed":{}},
		{"id":"f","text":"missing flag"}
	]`})
	snap, err := Load(t.Context(), kv, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, []model.Task{
		{ID: "a", Text: "keep", Completed: true},
		{ID: "c", Text: "truthy string", Completed: true},
		{ID: "d", Text: "zero", Completed: false},
		{ID: "e", Text: "object", Completed: true},
		{ID: "f", Text: "missing flag", Completed: false},
	}, snap.Todos)
}

func TestLoadMalformedJSONIsLoggedAndIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := seed(t, map[string]string{
		KeyTodos: `{"id":"a"}`,
		KeyGoal:  `{broken`,
	})
	snap, err := Load(t.Context(), kv, LoadOptions{Log: zap.New(core)})
	require.NoError(t, err)
	require.Empty(t, snap.Todos)
	require.Nil(t, snap.Goal)
	require.Equal(t, 1, logs.FilterMessage("ignoring malformed todos").Len())
	require.Equal(t, 1, logs.FilterMessage("ignoring malformed goal").Len())
}

func TestLoadNumbers(t *testing.T) {
	kv := seed(t, map[string]string{
		KeyPoints:     " 42.9 ",
		KeyExperience: "-30",
		KeyLevel:      "9",
	})
	snap, err := Load(t.Context(), kv, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, model.Progress{Points: 42, Experience: 0, Level: 1}, snap.Progress)
	require.False(t, snap.Migrated)
}

func TestLoadNonNumericKeepsDefault(t *testing.T) {
	kv := seed(t, map[string]string{KeyPoints: "lots", KeyExperience: "250"})
	snap, err := Load(t.Context(), kv, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, model.Progress{Points: 0, Experience: 250, Level: 3}, snap.Progress)
}

func TestLoadMigratesLegacyLevel(t *testing.T) {
	kv := seed(t, map[string]string{KeyExperience: "oops", KeyLevel: "4"})
	snap, err := Load(t.Context(), kv, LoadOptions{})
	require.NoError(t, err)
	require.True(t, snap.Migrated)
	require.Equal(t, model.Progress{Experience: 300, Level: 4}, snap.Progress)
}

func TestLoadGoal(t *testing.T) {
	kv := seed(t, map[string]string{KeyGoal: `{
		"description":"Ship","deadline":"2026-03-01T10:00",
		"requiredCount":3.7,"penaltyPoints":-5,"penaltyApplied":1
	}`})
	snap, err := Load(t.Context(), kv, LoadOptions{NewID: fixedID})
	require.NoError(t, err)
	require.NotNil(t, snap.Goal)
	require.Equal(t, model.Goal{
		ID:             "fresh-id",
		Description:    "Ship",
		Deadline:       "2026-03-01T10:00",
		RequiredCount:  3,
		PenaltyPoints:  0,
		PenaltyApplied: true,
	}, *snap.Goal)
}

func TestLoadGoalRejectsWrongTypes(t *testing.T) {
	for _, raw := range []string{
		`{"description":"x","deadline":"d","requiredCount":"3","penaltyPoints":0}`,
		`{"description":"x","requiredCount":3,"penaltyPoints":0}`,
		`[1,2]`,
		`null`,
	} {
		snap, err := Load(t.Context(), seed(t, map[string]string{KeyGoal: raw}), LoadOptions{NewID: fixedID})
		require.NoError(t, err)
		require.Nil(t, snap.Goal, raw)
	}
}

type failingKV struct{ *MemoryKV }

var errDisk = errors.New("disk on fire")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errDisk }

func TestLoadReturnsStoreErrors(t *testing.T) {
	_, err := Load(t.Context(), failingKV{NewMemoryKV()}, LoadOptions{})
	require.ErrorIs(t, err, errDisk)
}
