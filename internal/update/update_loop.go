package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{}, m.startupCmds...)
	if m.engine != nil {
		cmds = append(cmds, waitForEventCmd(m.engine.C()))
	}
	if m.session != nil {
		n := len(m.session.Tasks())
		cmds = append(cmds, func() tea.Msg {
			return SetStatusMsg{Text: fmt.Sprintf("loaded %d tasks", n)}
		})
	}
	return tea.Batch(cmds...)
}

// Update routes msg, then schedules the status line to clear and hands any
// queued desktop notifications to the runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.Status
	var cmd tea.Cmd
	m, cmd = m.route(msg)
	cmds := []tea.Cmd{cmd}
	if m.Status != prev && m.Status.Text != "" {
		m.statusSeq++
		seq := m.statusSeq
		cmds = append(cmds, tea.Tick(m.statusClear, func(time.Time) tea.Msg {
			return ClearStatusMsg{Seq: seq}
		}))
	}
	cmds = append(cmds, m.flushDesktop()...)
	return m, tea.Batch(cmds...)
}

func (m Model) route(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		// Clicks outside the snackbar never dismiss it.
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(typed.Width)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	case EngineEventMsg:
		m.handleEngineEvent(typed.Event)
		if m.engine != nil {
			return m, waitForEventCmd(m.engine.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	switch m.Mode {
	case ModePalette:
		return m.handlePaletteKey(msg), nil
	case ModeAdding:
		return m.handleAddKey(msg), nil
	case ModeGoalForm:
		return m.handleGoalFormKey(msg), nil
	}

	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "/":
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case "esc":
		m.dismissNotice()
	case m.Keys.Add, "i":
		m.Mode = ModeAdding
		m.todoInput.SetValue("")
		m.todoInput.Focus()
	case m.Keys.Goal:
		m.openGoalForm()
	case m.Keys.Reset:
		if m.session == nil || m.session.Goal() == nil {
			m.Status = StatusBar{Text: "no goal set"}
			return m, nil
		}
		m.afterMutation(m.session.ClearGoal(m.ctx))
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case m.Keys.Toggle, "x", "enter":
		if id, ok := m.selectedID(); ok {
			_, err := m.session.ToggleTask(m.ctx, id)
			m.afterMutation(err)
		}
	case m.Keys.Delete:
		if id, ok := m.selectedID(); ok {
			_, err := m.session.DeleteTask(m.ctx, id)
			m.afterMutation(err)
		}
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.todoInput.SetValue("")
		m.todoInput.Blur()
	case "enter":
		if m.session == nil {
			return m
		}
		text := m.todoInput.Value()
		if strings.TrimSpace(text) == "" {
			return m
		}
		_, err := m.session.AddTask(m.ctx, text)
		m.todoInput.SetValue("")
		m.afterMutation(err)
		m.Cursor = len(m.session.Tasks()) - 1
	default:
		m.todoInput = typeInto(m.todoInput, msg)
	}
	return m
}

func (m *Model) handleEngineEvent(ev scheduler.Event) {
	switch ev.Kind {
	case scheduler.KindGoalEval:
		if m.session == nil {
			return
		}
		_, _, err := m.session.Evaluate(m.ctx)
		if err != nil {
			m.setError(err)
		}
		m.drainNotifications()
		m.armGoalEval()
	case scheduler.KindNoticeDismiss:
		if m.Notice != nil && noticeEventID(m.Notice.Seq) == ev.ID {
			m.Notice = nil
		}
	}
}

// afterMutation surfaces store errors, shows queued notifications and
// re-arms the periodic goal check.
func (m *Model) afterMutation(err error) {
	if err != nil {
		m.setError(err)
	}
	m.drainNotifications()
	m.armGoalEval()
	m.clampCursor()
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.log.Error("ui action failed", zap.Error(err))
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := 0
	if m.session != nil {
		n = len(m.session.Tasks())
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selectedID() (string, bool) {
	if m.session == nil {
		return "", false
	}
	tasks := m.session.Tasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return "", false
	}
	return tasks[m.Cursor].ID, true
}

func (m *Model) resize(width int) {
	pane := (width - 6) / 2
	if pane < 30 {
		pane = 30
	}
	m.paneWidth = pane
	bar := pane - 6
	if bar < 10 {
		bar = 10
	}
	m.levelBar.Width = bar
	m.goalBar.Width = bar
	m.helpModel.Width = pane
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := m.renderStatusPanel() + "\n\n" + m.renderTodoPanel()
	rightPane := m.renderGoalPane()
	if m.Mode == ModePalette {
		rightPane += "\n\n" + views.RenderCommandPalette(true, m.commandInput.View())
	}
	if m.HelpVisible {
		rightPane += "\n\n" + m.renderHelpView()
	}

	notification := ""
	if m.Notice != nil {
		notification = views.RenderNotification(string(m.Notice.Severity), m.Notice.Message)
	}

	level := 1
	if m.session != nil {
		level = m.session.Progress().Level
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskquest | level %d | mode: %s", level, m.Mode),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notification,
		PaneWidth:     m.paneWidth,
		Footer: fmt.Sprintf("keys: %s add | space toggle | %s delete | %s goal | %s reset goal | / cmd | esc dismiss | %s help | %s quit",
			m.Keys.Add, m.Keys.Delete, m.Keys.Goal, m.Keys.Reset, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EngineEventMsg{Event: ev}
	}
}
