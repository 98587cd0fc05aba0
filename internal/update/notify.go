package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
)

func (m *Model) drainNotifications() {
	if m.session == nil {
		return
	}
	for _, n := range m.session.TakeNotifications() {
		m.showNotice(n)
	}
}

// showNotice replaces the snackbar and arms its auto-dismiss timer.
func (m *Model) showNotice(n model.Notification) {
	if m.Notice != nil && m.engine != nil {
		m.engine.Cancel(noticeEventID(m.Notice.Seq))
	}
	m.noticeSeq++
	m.Notice = &Notice{Notification: n, Seq: m.noticeSeq}
	m.Recent = append(m.Recent, n)
	if len(m.Recent) > maxRecentNotices {
		m.Recent = m.Recent[len(m.Recent)-maxRecentNotices:]
	}
	if m.desktopEnabled {
		m.desktopQueue = append(m.desktopQueue, n)
	}
	if m.engine == nil {
		return
	}
	err := m.engine.Schedule(scheduler.Event{
		ID:        noticeEventID(m.noticeSeq),
		Kind:      scheduler.KindNoticeDismiss,
		TriggerAt: m.now().Add(m.dismissAfter),
	})
	if err != nil {
		m.log.Warn("schedule notice dismiss", zap.Error(err))
	}
}

func (m *Model) dismissNotice() {
	if m.Notice == nil {
		return
	}
	if m.engine != nil {
		m.engine.Cancel(noticeEventID(m.Notice.Seq))
	}
	m.Notice = nil
}

// armGoalEval schedules the next periodic goal check, or cancels it when
// there is no goal.
func (m *Model) armGoalEval() {
	if m.engine == nil || m.session == nil {
		return
	}
	if m.session.Goal() == nil {
		m.engine.Cancel(goalEvalEventID)
		return
	}
	err := m.engine.Schedule(scheduler.Event{
		ID:        goalEvalEventID,
		Kind:      scheduler.KindGoalEval,
		TriggerAt: m.now().Add(m.evalInterval),
	})
	if err != nil {
		m.log.Warn("schedule goal evaluation", zap.Error(err))
	}
}

// flushDesktop turns queued desktop notifications into commands so the
// external notifier never runs on the update loop.
func (m *Model) flushDesktop() []tea.Cmd {
	if len(m.desktopQueue) == 0 {
		return nil
	}
	notifier := m.notifier
	cmds := make([]tea.Cmd, 0, len(m.desktopQueue))
	for _, n := range m.desktopQueue {
		cmds = append(cmds, func() tea.Msg {
			if err := notifier.Send(n); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("desktop notification: %w", err)}
			}
			return nil
		})
	}
	m.desktopQueue = nil
	return cmds
}

func noticeEventID(seq int) string {
	return fmt.Sprintf("%s%d", noticeEventPrefix, seq)
}
