package storage

import (
	"context"
	"errors"
	"sync"
)

// Store keys. Values are JSON for todos and goal, decimal strings otherwise.
const (
	KeyTodos      = "todos"
	KeyPoints     = "points"
	KeyExperience = "experience"
	KeyLevel      = "level"
	KeyGoal       = "goal"
)

var ErrClosed = errors.New("storage: store is closed")

// KV is a persistent string-keyed map. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Refresher is implemented by stores that cache their contents.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type MemoryKV struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
