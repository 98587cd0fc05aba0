package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/sandeepkv93/taskquest/internal/model"
)

// Persist writes every key whose value differs between prev and next. A
// nil goal removes the goal key.
func Persist(ctx context.Context, kv KV, prev, next Snapshot) error {
	if !slices.Equal(prev.Todos, next.Todos) {
		if err := SaveTodos(ctx, kv, next); err != nil {
			return err
		}
	}
	if prev.Progress.Points != next.Progress.Points {
		if err := setInt(ctx, kv, KeyPoints, next.Progress.Points); err != nil {
			return err
		}
	}
	if prev.Progress.Experience != next.Progress.Experience {
		if err := setInt(ctx, kv, KeyExperience, next.Progress.Experience); err != nil {
			return err
		}
	}
	if prev.Progress.Level != next.Progress.Level {
		if err := setInt(ctx, kv, KeyLevel, next.Progress.Level); err != nil {
			return err
		}
	}
	if !sameGoal(prev, next) {
		if err := SaveGoal(ctx, kv, next); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll writes every key unconditionally.
func SaveAll(ctx context.Context, kv KV, snap Snapshot) error {
	if err := SaveTodos(ctx, kv, snap); err != nil {
		return err
	}
	if err := SaveProgress(ctx, kv, snap.Progress); err != nil {
		return err
	}
	return SaveGoal(ctx, kv, snap)
}

func SaveProgress(ctx context.Context, kv KV, p model.Progress) error {
	for _, kvp := range []struct {
		key string
		v   int
	}{
		{KeyPoints, p.Points},
		{KeyExperience, p.Experience},
		{KeyLevel, p.Level},
	} {
		if err := setInt(ctx, kv, kvp.key, kvp.v); err != nil {
			return err
		}
	}
	return nil
}

func SaveTodos(ctx context.Context, kv KV, snap Snapshot) error {
	todos := snap.Todos
	if todos == nil {
		todos = []model.Task{}
	}
	payload, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("encode todos: %w", err)
	}
	if err := kv.Set(ctx, KeyTodos, string(payload)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

func SaveGoal(ctx context.Context, kv KV, snap Snapshot) error {
	if snap.Goal == nil {
		if err := kv.Remove(ctx, KeyGoal); err != nil {
			return fmt.Errorf("remove goal: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(snap.Goal)
	if err != nil {
		return fmt.Errorf("encode goal: %w", err)
	}
	if err := kv.Set(ctx, KeyGoal, string(payload)); err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func setInt(ctx context.Context, kv KV, key string, v int) error {
	if err := kv.Set(ctx, key, strconv.Itoa(v)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func sameGoal(prev, next Snapshot) bool {
	switch {
	case prev.Goal == nil && next.Goal == nil:
		return true
	case prev.Goal == nil || next.Goal == nil:
		return false
	default:
		return *prev.Goal == *next.Goal
	}
}
