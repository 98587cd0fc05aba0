package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV keeps every key in one JSON object on disk. Each write replaces
// the file through a temp file and rename.
type FileKV struct {
	mu        sync.Mutex
	path      string
	data      map[string]string
	closed    bool
	recovered string
}

var ErrCorruptFile = errors.New("storage: corrupt store file")

// OpenFile loads the store at path. A file that cannot be decoded is moved
// to path+".corrupt" and the store starts empty; Recovered reports where
// it went.
func OpenFile(path string) (*FileKV, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	f := &FileKV{path: path}
	data, err := readFileKV(path)
	switch {
	case errors.Is(err, ErrCorruptFile):
		aside := path + ".corrupt"
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, errors.Join(err, fmt.Errorf("move corrupt store aside: %w", rerr))
		}
		f.recovered = aside
		data = make(map[string]string)
	case err != nil:
		return nil, err
	}
	f.data = data
	return f, nil
}

// Recovered is the path a corrupt store file was moved to on open, or "".
func (f *FileKV) Recovered() string {
	return f.recovered
}

func readFileKV(path string) (map[string]string, error) {
	out := make(map[string]string)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptFile, path, err)
	}
	return out, nil
}

// Refresh re-reads the file, picking up writes from other processes.
func (f *FileKV) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	data, err := readFileKV(f.path)
	if err != nil {
		return err
	}
	f.data = data
	return nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flushLocked(); err != nil {
		f.data[key] = prev
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *FileKV) flushLocked() error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
