package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/config"
	"github.com/sandeepkv93/taskquest/internal/logging"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/session"
	"github.com/sandeepkv93/taskquest/internal/storage"
	"github.com/sandeepkv93/taskquest/internal/update"
	"github.com/sandeepkv93/taskquest/internal/views"
)

const version = "0.1.0"

type rootOptions struct {
	configPath string
	storePath  string
	backend    string
	ephemeral  bool
}

// env is everything a command needs once configuration is resolved.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	kv       storage.KV
	sess     *session.Session
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "taskquest",
		Short:         "Gamified to-do list with levels, points and deadline goals",
		Long:          "taskquest tracks tasks in a terminal UI. Completing tasks earns experience and points; missing a goal deadline costs points.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, runTUI)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/taskquest/config.yaml)")
	flags.StringVar(&opts.storePath, "store", "", "store path, overrides store.path")
	flags.StringVar(&opts.backend, "backend", "", "store backend: sqlite, file or memory")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep state in memory only")

	cmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newRmCmd(opts),
		newStatusCmd(opts),
		newGoalCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

func (o *rootOptions) open(ctx context.Context) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	backend := config.Backend(o.backend)
	if o.ephemeral {
		backend = config.BackendMemory
	}
	if err := cfg.UseStore(backend, o.storePath); err != nil {
		return nil, fmt.Errorf("store flags: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	kv, err := openKV(cfg.Store, log)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	sess, err := session.Open(ctx, session.Options{KV: kv, Log: log, Location: loc})
	if err != nil {
		_ = kv.Close()
		_ = closeLog()
		return nil, err
	}
	log.Debug("session opened",
		zap.String("backend", string(cfg.Store.Backend)),
		zap.String("path", cfg.Store.Path),
		zap.Int("tasks", len(sess.Tasks())),
	)
	return &env{cfg: cfg, log: log, kv: kv, sess: sess, closeLog: closeLog}, nil
}

func (e *env) Close() error {
	return errors.Join(e.kv.Close(), e.closeLog())
}

func openKV(store config.StoreConfig, log *zap.Logger) (storage.KV, error) {
	switch store.Backend {
	case config.BackendMemory:
		return storage.NewMemoryKV(), nil
	case config.BackendFile:
		f, err := storage.OpenFile(store.Path)
		if err != nil {
			return nil, err
		}
		if aside := f.Recovered(); aside != "" {
			log.Warn("store file was unreadable; starting empty", zap.String("path", store.Path), zap.String("moved_to", aside))
		}
		return f, nil
	case config.BackendSQLite:
		return storage.OpenSQLite(store.Path)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", store.Backend)
	}
}

func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(*cobra.Command, *env) error) (err error) {
	e, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, e.Close())
	}()
	return fn(cmd, e)
}

// printNotifications writes queued session notifications, one per line.
func printNotifications(w io.Writer, sess *session.Session) {
	for _, n := range sess.TakeNotifications() {
		fmt.Fprintln(w, views.RenderNoticeLine(string(n.Severity), n.Message))
	}
}

func runTUI(cmd *cobra.Command, e *env) error {
	engine := scheduler.NewEngine(e.cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if e.cfg.Notify.Desktop {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.New(update.Options{
		Context:        cmd.Context(),
		Session:        e.sess,
		Engine:         engine,
		Log:            e.log,
		EvalInterval:   e.cfg.Goal.EvalInterval,
		DismissAfter:   e.cfg.Notify.DismissAfter,
		DesktopEnabled: e.cfg.Notify.Desktop,
		Notifier:       notifier,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("taskquest failed: %w", err)
	}
	return nil
}
