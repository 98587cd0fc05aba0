package update

import (
	"github.com/sandeepkv93/taskquest/internal/gamify"
	"github.com/sandeepkv93/taskquest/internal/goal"
	"github.com/sandeepkv93/taskquest/internal/views"
)

func (m Model) renderStatusPanel() string {
	if m.session == nil {
		return ""
	}
	p := m.session.Progress()
	lp := gamify.NextLevelProgress(p.Experience)
	return views.RenderStatusPanel(views.StatusPanelData{
		Level:        p.Level,
		Experience:   p.Experience,
		Points:       p.Points,
		LevelBarView: m.levelBar.ViewAs(lp.Percent),
		IntoLevel:    lp.Current,
		PerLevel:     lp.Needed,
	})
}

func (m Model) renderTodoPanel() string {
	data := views.TodoPanelData{
		InputView: m.todoInput.View(),
		Adding:    m.Mode == ModeAdding,
	}
	if m.session != nil {
		for i, t := range m.session.Tasks() {
			data.Items = append(data.Items, views.TodoItemData{
				Position:  i + 1,
				ID:        t.ID,
				Text:      t.Text,
				Completed: t.Completed,
				Selected:  i == m.Cursor && m.Mode == ModeNormal,
			})
		}
	}
	return views.RenderTodoPanel(data)
}

func (m Model) renderGoalPane() string {
	if m.Mode == ModeGoalForm {
		fields := make([]string, len(m.goalInputs))
		for i, in := range m.goalInputs {
			fields[i] = in.View()
		}
		return views.RenderGoalForm(views.GoalFormData{
			Active:     true,
			FieldViews: fields,
			Labels:     goalFieldLabels,
			Focus:      m.goalFocus,
		})
	}
	if m.session == nil {
		return views.RenderNoGoal()
	}
	g := m.session.Goal()
	gp, ok := m.session.GoalProgress()
	if g == nil || !ok {
		return views.RenderNoGoal()
	}
	return views.RenderGoalProgress(views.GoalProgressData{
		Description:    g.Description,
		Deadline:       goal.FormatDeadline(g.Deadline, m.session.Location()),
		BarView:        m.goalBar.ViewAs(float64(gp.ProgressPercentage) / 100),
		Percentage:     gp.ProgressPercentage,
		Completed:      gp.CompletedCount,
		Required:       gp.RequiredCount,
		RemainingText:  gp.RemainingTimeText,
		IsAchieved:     gp.IsAchieved,
		IsPastDeadline: gp.IsPastDeadline,
		PenaltyPoints:  g.PenaltyPoints,
		PenaltyApplied: g.PenaltyApplied,
	})
}
