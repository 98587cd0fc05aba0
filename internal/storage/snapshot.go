package storage

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/gamify"
	"github.com/sandeepkv93/taskquest/internal/model"
)

// Snapshot is the full persisted application state.
type Snapshot struct {
	Todos    []model.Task
	Progress model.Progress
	Goal     *model.Goal

	// Migrated is set when experience was reconstructed from a legacy level
	// value and should be written back.
	Migrated bool
}

func EmptySnapshot() Snapshot {
	return Snapshot{Todos: []model.Task{}, Progress: model.NewProgress()}
}

type LoadOptions struct {
	Log   *zap.Logger
	NewID func() string
}

// Load reads every key and decodes what it can. Malformed values are logged
// and replaced by defaults; only store errors are returned.
func Load(ctx context.Context, kv KV, opts LoadOptions) (Snapshot, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	snap := EmptySnapshot()

	raw, err := getValue(ctx, kv, KeyTodos)
	if err != nil {
		return Snapshot{}, err
	}
	if raw != "" {
		todos, ok := decodeTodos(raw)
		if ok {
			snap.Todos = todos
		} else {
			log.Warn("ignoring malformed todos", zap.String("key", KeyTodos))
		}
	}

	raw, err = getValue(ctx, kv, KeyPoints)
	if err != nil {
		return Snapshot{}, err
	}
	if v, ok := model.ParseNumber(raw); raw != "" && ok {
		snap.Progress.Points = model.ClampCount(v)
	} else if raw != "" {
		log.Warn("ignoring non-numeric value", zap.String("key", KeyPoints), zap.String("value", raw))
	}

	raw, err = getValue(ctx, kv, KeyExperience)
	if err != nil {
		return Snapshot{}, err
	}
	experienceLoaded := false
	if v, ok := model.ParseNumber(raw); raw != "" && ok {
		snap.Progress.Experience = model.ClampCount(v)
		experienceLoaded = true
	} else if raw != "" {
		log.Warn("ignoring non-numeric value", zap.String("key", KeyExperience), zap.String("value", raw))
	}

	if !experienceLoaded {
		raw, err = getValue(ctx, kv, KeyLevel)
		if err != nil {
			return Snapshot{}, err
		}
		if v, ok := model.ParseNumber(raw); raw != "" && ok {
			level := model.ClampCount(v)
			if level < 1 {
				level = 1
			}
			snap.Progress.Experience = (level - 1) * gamify.ExperiencePerLevel
			snap.Migrated = true
			log.Info("migrated legacy level", zap.Int("level", level), zap.Int("experience", snap.Progress.Experience))
		}
	}
	snap.Progress = gamify.Normalize(snap.Progress)

	raw, err = getValue(ctx, kv, KeyGoal)
	if err != nil {
		return Snapshot{}, err
	}
	if raw != "" {
		g, ok := decodeGoal(raw, opts.NewID)
		if ok {
			snap.Goal = &g
		} else {
			log.Warn("ignoring malformed goal", zap.String("key", KeyGoal))
		}
	}
	return snap, nil
}

func getValue(ctx context.Context, kv KV, key string) (string, error) {
	v, ok, err := kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

func decodeTodos(raw string) ([]model.Task, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil, false
	}
	out := make([]model.Task, 0)
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		id, text := item.Get("id"), item.Get("text")
		if id.Type != gjson.String || text.Type != gjson.String {
			return true
		}
		out = append(out, model.Task{
			ID:        id.Str,
			Text:      text.Str,
			Completed: truthy(item.Get("completed")),
		})
		return true
	})
	return out, true
}

func decodeGoal(raw string, newID func() string) (model.Goal, bool) {
	if !gjson.Valid(raw) {
		return model.Goal{}, false
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return model.Goal{}, false
	}
	desc, deadline := root.Get("description"), root.Get("deadline")
	required, penalty := root.Get("requiredCount"), root.Get("penaltyPoints")
	if desc.Type != gjson.String || deadline.Type != gjson.String ||
		required.Type != gjson.Number || penalty.Type != gjson.Number {
		return model.Goal{}, false
	}

	id := root.Get("id")
	g := model.Goal{
		ID:             id.Str,
		Description:    desc.Str,
		Deadline:       deadline.Str,
		RequiredCount:  model.ClampCount(required.Float()),
		PenaltyPoints:  model.ClampCount(penalty.Float()),
		PenaltyApplied: truthy(root.Get("penaltyApplied")),
	}
	if id.Type != gjson.String || id.Str == "" {
		if newID != nil {
			g.ID = newID()
		}
	}
	return g, true
}

// truthy follows JavaScript Boolean() coercion for JSON values.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Float() != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}
