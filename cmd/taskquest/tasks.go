package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskquest/internal/views"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				task, err := e.sess.AddTask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d. %s\n", len(e.sess.Tasks()), task.Text)
				printNotifications(cmd.OutOrStdout(), e.sess)
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderTaskList(taskItems(e)))
				return nil
			})
		},
	}
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Complete a task, or reopen a completed one",
		Long:  "The task is named by list position, id or unique id prefix. Running done on a completed task reopens it and takes back its rewards.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				task, err := e.sess.Resolve(args[0])
				if err != nil {
					return err
				}
				if _, err := e.sess.ToggleTask(cmd.Context(), task.ID); err != nil {
					return err
				}
				verb := "completed"
				if task.Completed {
					verb = "reopened"
				}
				p := e.sess.Progress()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %s\n", verb, task.Text)
				fmt.Fprintf(out, "level %d | %d xp | %d pts\n", p.Level, p.Experience, p.Points)
				printNotifications(out, e.sess)
				return nil
			})
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(cmd *cobra.Command, e *env) error {
				task, err := e.sess.Resolve(args[0])
				if err != nil {
					return err
				}
				if _, err := e.sess.DeleteTask(cmd.Context(), task.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", task.Text)
				printNotifications(cmd.OutOrStdout(), e.sess)
				return nil
			})
		},
	}
}

func taskItems(e *env) []views.TodoItemData {
	tasks := e.sess.Tasks()
	items := make([]views.TodoItemData, 0, len(tasks))
	for i, t := range tasks {
		items = append(items, views.TodoItemData{
			Position:  i + 1,
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
		})
	}
	return items
}
