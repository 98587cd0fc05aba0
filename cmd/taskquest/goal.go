package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskquest/internal/gamify"
	"github.com/sandeepkv93/taskquest/internal/goal"
	"github.com/sandeepkv93/taskquest/internal/model"
	"github.com/sandeepkv93/taskquest/internal/scheduler"
	"github.com/sandeepkv93/taskquest/internal/storage"
	"github.com/sandeepkv93/taskquest/internal/views"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, points and goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				if _, _, err := e.sess.Evaluate(cmd.Context()); err != nil {
					return err
				}
				md := views.StatusMarkdown(statusData(e), goalData(e))
				if sq, ok := e.kv.(*storage.SQLiteKV); ok {
					at, found, err := sq.UpdatedAt(cmd.Context(), storage.KeyTodos)
					if err != nil {
						return err
					}
					if found {
						md += fmt.Sprintf("\n_Tasks last changed %s._\n", at.In(e.sess.Location()).Format(goal.DisplayLayout))
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, views.RenderMarkdown(md))
				printNotifications(out, e.sess)
				return nil
			})
		},
	}
}

func newGoalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the deadline goal",
	}
	cmd.AddCommand(newGoalSetCmd(opts), newGoalShowCmd(opts), newGoalClearCmd(opts))
	return cmd
}

func newGoalSetCmd(opts *rootOptions) *cobra.Command {
	var draft model.GoalDraft
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set or replace the goal",
		Example: `  taskquest goal set --description "clear the backlog" --deadline 2026-11-01T18:00 --required 5 --penalty 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				g, err := e.sess.SetGoal(cmd.Context(), draft)
				printNotifications(cmd.OutOrStdout(), e.sess)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "goal: %s by %s\n", g.Description, goal.FormatDeadline(g.Deadline, e.sess.Location()))
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&draft.Description, "description", "", "what the goal is")
	flags.StringVar(&draft.Deadline, "deadline", "", "deadline, e.g. 2026-11-01T18:00 or RFC 3339")
	flags.StringVar(&draft.RequiredCount, "required", "", "completed tasks needed")
	flags.StringVar(&draft.PenaltyPoints, "penalty", "0", "points lost if the deadline is missed")
	return cmd
}

func newGoalShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				if _, _, err := e.sess.Evaluate(cmd.Context()); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				gd := goalData(e)
				if gd == nil {
					fmt.Fprintln(out, "no goal set")
					return nil
				}
				fmt.Fprintln(out, views.RenderGoalProgress(*gd))
				printNotifications(out, e.sess)
				return nil
			})
		},
	}
}

func newGoalClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Aliases: []string{"reset"},
		Short:   "Remove the goal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				if e.sess.Goal() == nil {
					return errors.New("no goal set")
				}
				if err := e.sess.ClearGoal(cmd.Context()); err != nil {
					return err
				}
				printNotifications(cmd.OutOrStdout(), e.sess)
				return nil
			})
		},
	}
}

// newWatchCmd keeps evaluating the goal on the configured interval so a
// missed deadline is charged without the UI open.
func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Evaluate the goal periodically and report penalties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, runWatch)
		},
	}
}

const watchEventID = "watch-goal-eval"

func runWatch(cmd *cobra.Command, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	engine := scheduler.NewEngine(e.cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	arm := func() error {
		return engine.Schedule(scheduler.Event{
			ID:        watchEventID,
			Kind:      scheduler.KindGoalEval,
			TriggerAt: time.Now().Add(e.cfg.Goal.EvalInterval),
		})
	}
	check := func() (bool, error) {
		gp, ok, err := e.sess.Evaluate(ctx)
		printNotifications(out, e.sess)
		if err != nil || !ok {
			return ok, err
		}
		fmt.Fprintf(out, "%s  %d/%d done, %s\n", time.Now().Format(goal.DisplayLayout), gp.CompletedCount, gp.RequiredCount, gp.RemainingTimeText)
		return true, nil
	}

	ok, err := check()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "no goal set")
		return nil
	}
	if err := arm(); err != nil {
		return err
	}
	e.log.Info("watching goal")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-engine.C():
			if !open {
				return nil
			}
			if ev.Kind != scheduler.KindGoalEval {
				continue
			}
			if err := e.sess.Reload(ctx); err != nil {
				return err
			}
			ok, err := check()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "goal removed; stopping")
				return nil
			}
			if err := arm(); err != nil {
				return err
			}
		}
	}
}

func statusData(e *env) views.StatusPanelData {
	p := e.sess.Progress()
	lp := gamify.NextLevelProgress(p.Experience)
	return views.StatusPanelData{
		Level:      p.Level,
		Experience: p.Experience,
		Points:     p.Points,
		IntoLevel:  lp.Current,
		PerLevel:   lp.Needed,
	}
}

func goalData(e *env) *views.GoalProgressData {
	g := e.sess.Goal()
	gp, ok := e.sess.GoalProgress()
	if g == nil || !ok {
		return nil
	}
	return &views.GoalProgressData{
		Description:    g.Description,
		Deadline:       goal.FormatDeadline(g.Deadline, e.sess.Location()),
		Percentage:     gp.ProgressPercentage,
		Completed:      gp.CompletedCount,
		Required:       gp.RequiredCount,
		RemainingText:  gp.RemainingTimeText,
		IsAchieved:     gp.IsAchieved,
		IsPastDeadline: gp.IsPastDeadline,
		PenaltyPoints:  g.PenaltyPoints,
		PenaltyApplied: g.PenaltyApplied,
	}
}
