package update

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/model"
)

func (m *Model) openGoalForm() {
	if m.session != nil {
		m.fillGoalForm(m.session.Draft())
	}
	m.Mode = ModeGoalForm
	m.focusGoalField(0)
}

func (m *Model) focusGoalField(i int) {
	if i < 0 {
		i = goalFieldCount - 1
	}
	if i >= goalFieldCount {
		i = 0
	}
	for j := range m.goalInputs {
		m.goalInputs[j].Blur()
	}
	m.goalFocus = i
	m.goalInputs[i].Focus()
}

func (m *Model) closeGoalForm() {
	for j := range m.goalInputs {
		m.goalInputs[j].Blur()
	}
	m.Mode = ModeNormal
}

func (m Model) handleGoalFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeGoalForm()
	case "tab", "down":
		m.focusGoalField(m.goalFocus + 1)
	case "shift+tab", "up":
		m.focusGoalField(m.goalFocus - 1)
	case "enter":
		if m.session == nil {
			m.closeGoalForm()
			return m
		}
		_, err := m.session.SetGoal(m.ctx, m.goalDraft())
		if isGoalInputError(err) {
			// Keep the form open so the input can be corrected.
			m.drainNotifications()
			return m
		}
		m.closeGoalForm()
		m.afterMutation(err)
	default:
		m.goalInputs[m.goalFocus] = typeInto(m.goalInputs[m.goalFocus], msg)
	}
	return m
}

func isGoalInputError(err error) bool {
	return errors.Is(err, model.ErrGoalDescriptionRequired) ||
		errors.Is(err, model.ErrInvalidRequiredCount) ||
		errors.Is(err, model.ErrInvalidPenalty)
}
