package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/session"
	"github.com/sandeepkv93/taskquest/internal/views"
)

type Mode string

const (
	ModeNormal   Mode = "list"
	ModeAdding   Mode = "add"
	ModeGoalForm Mode = "goal"
	ModePalette  Mode = "command"
)

// Scheduler event ids.
const (
	goalEvalEventID    = "goal-eval"
	noticeEventPrefix  = "notice-"
	defaultPaneWidth   = 58
	defaultBarWidth    = 40
	maxRecentNotices   = 5
	goalFieldCount     = 4
	goalFieldDesc      = 0
	goalFieldDeadline  = 1
	goalFieldRequired  = 2
	goalFieldPenalty   = 3
	defaultEvalEvery   = 60 * time.Second
	defaultDismissWait = 6 * time.Second
	defaultStatusClear = 4 * time.Second
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add    string
	Goal   string
	Reset  string
	Toggle string
	Delete string
	Help   string
	Quit   string
}

// Notice is the snackbar currently on screen.
type Notice struct {
	model.Notification
	Seq int
}

type Options struct {
	Context        context.Context
	Session        *session.Session
	Engine         *scheduler.Engine
	Log            *zap.Logger
	Now            func() time.Time
	EvalInterval   time.Duration
	DismissAfter   time.Duration
	DesktopEnabled bool
	Notifier       DesktopNotifier
	// StatusClearAfter is how long a status line stays up.
	StatusClearAfter time.Duration
}

type Model struct {
	Mode        Mode
	Cursor      int
	Notice      *Notice
	Recent      []model.Notification
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool

	ctx            context.Context
	session        *session.Session
	engine         *scheduler.Engine
	log            *zap.Logger
	now            func() time.Time
	evalInterval   time.Duration
	dismissAfter   time.Duration
	noticeSeq      int
	desktopEnabled bool
	notifier       DesktopNotifier
	desktopQueue   []model.Notification
	startupCmds    []tea.Cmd
	statusClear    time.Duration
	statusSeq      int
	paneWidth      int

	todoInput    textinput.Model
	commandInput textinput.Model
	goalInputs   []textinput.Model
	goalFocus    int
	levelBar     progress.Model
	goalBar      progress.Model
	helpModel    help.Model
}

type DesktopNotifier interface {
	Send(model.Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(model.Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n model.Notification) error {
	title := "taskquest: " + string(n.Severity)
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, n.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Message), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

// ClearStatusMsg clears the status line if it is still the one numbered
// Seq.
type ClearStatusMsg struct {
	Seq int
}

type AppErrorMsg struct {
	Err error
}

// EngineEventMsg wraps a scheduler event delivered to the update loop.
type EngineEventMsg struct {
	Event scheduler.Event
}

// New builds the model and runs the startup goal evaluation, which may
// apply a penalty for a deadline missed while the app was closed.
func New(opts Options) Model {
	m := Model{
		Mode:           ModeNormal,
		ctx:            opts.Context,
		session:        opts.Session,
		engine:         opts.Engine,
		log:            opts.Log,
		now:            opts.Now,
		evalInterval:   opts.EvalInterval,
		dismissAfter:   opts.DismissAfter,
		desktopEnabled: opts.DesktopEnabled,
		notifier:       opts.Notifier,
		statusClear:    opts.StatusClearAfter,
		paneWidth:      defaultPaneWidth,
		Keys: GlobalKeyMap{
			Add:    "a",
			Goal:   "g",
			Reset:  "r",
			Toggle: " ",
			Delete: "d",
			Help:   "?",
			Quit:   "q",
		},
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.evalInterval <= 0 {
		m.evalInterval = defaultEvalEvery
	}
	if m.dismissAfter <= 0 {
		m.dismissAfter = defaultDismissWait
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.statusClear <= 0 {
		m.statusClear = defaultStatusClear
	}
	m.initBubbleComponents()

	if m.session != nil {
		if _, _, err := m.session.Evaluate(m.ctx); err != nil {
			m.setError(err)
		}
		m.drainNotifications()
		m.armGoalEval()
		m.startupCmds = m.flushDesktop()
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.todoInput = textinput.New()
	m.todoInput.Prompt = "+ "
	m.todoInput.Placeholder = "new task"
	m.todoInput.CharLimit = 500

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add | done <n> | rm <n> | goal <count> <deadline> <penalty> <text> | reset"

	placeholders := []string{"what do you want to achieve", "2006-01-02T15:04", "tasks to complete", "0"}
	m.goalInputs = make([]textinput.Model, goalFieldCount)
	for i := range m.goalInputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		m.goalInputs[i] = in
	}

	m.levelBar = progress.New(progress.WithGradient(views.BarStart, views.BarEnd), progress.WithWidth(defaultBarWidth), progress.WithoutPercentage())
	m.goalBar = progress.New(progress.WithGradient(views.BarStart, views.BarEnd), progress.WithWidth(defaultBarWidth))
	m.helpModel = help.New()
}

var goalFieldLabels = []string{"description", "deadline", "required count", "penalty points"}

func (m Model) goalDraft() model.GoalDraft {
	return model.GoalDraft{
		Description:   m.goalInputs[goalFieldDesc].Value(),
		Deadline:      strings.TrimSpace(m.goalInputs[goalFieldDeadline].Value()),
		RequiredCount: m.goalInputs[goalFieldRequired].Value(),
		PenaltyPoints: m.goalInputs[goalFieldPenalty].Value(),
	}
}

func (m *Model) fillGoalForm(d model.GoalDraft) {
	values := []string{d.Description, d.Deadline, d.RequiredCount, d.PenaltyPoints}
	for i := range m.goalInputs {
		m.goalInputs[i].SetValue(values[i])
		m.goalInputs[i].CursorEnd()
	}
}
