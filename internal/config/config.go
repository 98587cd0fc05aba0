// Package config loads taskquest settings from defaults, a YAML file and
// TASKQUEST_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendFile, BackendMemory:
		return true
	default:
		return false
	}
}

type Config struct {
	Store     StoreConfig     `koanf:"store"`
	Goal      GoalConfig      `koanf:"goal"`
	Notify    NotifyConfig    `koanf:"notify"`
	Log       LogConfig       `koanf:"log"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

type StoreConfig struct {
	Backend Backend `koanf:"backend"`
	Path    string  `koanf:"path"`
}

type GoalConfig struct {
	EvalInterval time.Duration `koanf:"eval_interval"`
	// Timezone names the IANA zone zone-less deadlines are read in. Empty
	// means the system zone.
	Timezone string `koanf:"timezone"`
}

type NotifyConfig struct {
	DismissAfter time.Duration `koanf:"dismiss_after"`
	Desktop      bool          `koanf:"desktop"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Path   string `koanf:"path"`
}

type SchedulerConfig struct {
	Buffer int `koanf:"buffer"`
}

const (
	DefaultEvalInterval = 60 * time.Second
	DefaultDismissAfter = 6 * time.Second
	DefaultBuffer       = 64
)

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendSQLite
	}
	if cfg.Store.Path == "" {
		switch cfg.Store.Backend {
		case BackendFile:
			cfg.Store.Path = filepath.Join(DataDir(), "taskquest.json")
		case BackendSQLite:
			cfg.Store.Path = filepath.Join(DataDir(), "taskquest.db")
		}
	}
	if cfg.Goal.EvalInterval == 0 {
		cfg.Goal.EvalInterval = DefaultEvalInterval
	}
	if cfg.Notify.DismissAfter == 0 {
		cfg.Notify.DismissAfter = DefaultDismissAfter
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = filepath.Join(DataDir(), "taskquest.log")
	}
	if cfg.Scheduler.Buffer == 0 {
		cfg.Scheduler.Buffer = DefaultBuffer
	}
}

func (c Config) Validate() error {
	var errs []error
	if !c.Store.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("store.backend: unsupported backend %q", c.Store.Backend))
	}
	if c.Store.Backend != BackendMemory && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path: required for persistent backends"))
	}
	if c.Goal.EvalInterval < time.Second {
		errs = append(errs, fmt.Errorf("goal.eval_interval: must be at least 1s, got %s", c.Goal.EvalInterval))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("goal.timezone: %w", err))
	}
	if c.Notify.DismissAfter < 0 {
		errs = append(errs, fmt.Errorf("notify.dismiss_after: must not be negative, got %s", c.Notify.DismissAfter))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be json or console, got %q", c.Log.Format))
	}
	if c.Scheduler.Buffer < 1 {
		errs = append(errs, fmt.Errorf("scheduler.buffer: must be positive, got %d", c.Scheduler.Buffer))
	}
	return errors.Join(errs...)
}

// Location resolves Goal.Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Goal.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Goal.Timezone)
}

// DataDir is $XDG_DATA_HOME/taskquest, falling back to
// ~/.local/share/taskquest.
func DataDir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return filepath.Join(xdg, "taskquest")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskquest"
	}
	return filepath.Join(home, ".local", "share", "taskquest")
}

// DefaultPath is ~/.config/taskquest/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "taskquest", "config.yaml"), nil
}

// UseStore overrides the store settings from the command line. An empty
// path picks the default path for the backend.
func (c *Config) UseStore(backend Backend, path string) error {
	if backend != "" && backend != c.Store.Backend {
		c.Store.Backend = backend
		c.Store.Path = ""
	}
	if path != "" {
		c.Store.Path = path
	}
	applyDefaults(c)
	return c.Validate()
}
