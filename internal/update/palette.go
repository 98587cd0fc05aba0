package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskquest/internal/commands"
	"github.com/sandeepkv93/taskquest/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m = m.executePaletteCommand(m.commandInput.Value())
	default:
		m.commandInput = typeInto(m.commandInput, msg)
	}
	return m
}

func (m Model) executePaletteCommand(input string) Model {
	m.Mode = ModeNormal
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	raw := strings.TrimSpace(input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if m.session == nil {
		m.Status = StatusBar{Text: "no session", IsError: true}
		return m
	}

	var storeErr error
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.session.AddTask(m.ctx, a.Text)
			storeErr = err
			return commands.Result{Message: fmt.Sprintf("added: %s", task.Text)}, nil
		},
		Done: func(a commands.RefArgs) (commands.Result, error) {
			task, err := m.session.Resolve(a.Ref)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			_, storeErr = m.session.ToggleTask(m.ctx, task.ID)
			verb := "completed"
			if task.Completed {
				verb = "reopened"
			}
			return commands.Result{Message: fmt.Sprintf("%s: %s", verb, task.Text)}, nil
		},
		Rm: func(a commands.RefArgs) (commands.Result, error) {
			task, err := m.session.Resolve(a.Ref)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			_, storeErr = m.session.DeleteTask(m.ctx, task.ID)
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Text)}, nil
		},
		Goal: func(g commands.GoalArgs) (commands.Result, error) {
			_, err := m.session.SetGoal(m.ctx, model.GoalDraft{
				Description:   g.Description,
				Deadline:      g.Deadline,
				RequiredCount: g.RequiredCount,
				PenaltyPoints: g.PenaltyPoints,
			})
			if isGoalInputError(err) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			storeErr = err
			return commands.Result{Message: "goal set"}, nil
		},
		Reset: func() (commands.Result, error) {
			if m.session.Goal() == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no goal set"}
			}
			storeErr = m.session.ClearGoal(m.ctx)
			return commands.Result{Message: "goal reset"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.afterMutation(storeErr)
	return m
}
