package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinylittleshell/gdash/internal/dashboard"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		text := strings.Join(args, " ")
		task, err := a.board.AddTask(cmd.Context(), text)
		if errors.Is(err, dashboard.ErrDuplicate) {
			return fmt.Errorf("task already exists: %q", task.Text)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task: %q\n", task.Text)
		return nil
	}),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [query]",
	Short: "Complete the first pending task containing query",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		query := strings.Join(args, " ")
		task, err := a.board.CompleteTask(cmd.Context(), query)
		if errors.Is(err, dashboard.ErrNotFound) {
			return fmt.Errorf("no pending task matches %q", query)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed: %q\n", task.Text)
		return nil
	}),
}

var taskRmID int64

var taskRmCmd = &cobra.Command{
	Use:   "rm [query]",
	Short: "Delete the first task containing query, or the task with --id",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		if err := requireQueryOrID(args, taskRmID); err != nil {
			return err
		}
		var (
			task dashboard.Task
			err  error
		)
		what := fmt.Sprintf("%q", strings.Join(args, " "))
		if taskRmID != 0 {
			what = fmt.Sprintf("id %d", taskRmID)
			task, err = a.board.RemoveTask(cmd.Context(), taskRmID)
		} else {
			task, err = a.board.DeleteTask(cmd.Context(), strings.Join(args, " "))
		}
		if errors.Is(err, dashboard.ErrNotFound) {
			return fmt.Errorf("no task matches %s", what)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task: %q\n", task.Text)
		return nil
	}),
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Flip a task between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		task, err := a.board.ToggleTask(cmd.Context(), id)
		if errors.Is(err, dashboard.ErrNotFound) {
			return fmt.Errorf("no task with id %d", id)
		}
		if err != nil {
			return err
		}
		state := "pending"
		if task.Done {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s: %q\n", state, task.Text)
		return nil
	}),
}

var taskLsIDs bool

var taskLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		tasks, err := a.board.Tasks(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks.")
			return nil
		}
		for _, t := range tasks {
			mark := "○"
			if t.Done {
				mark = "✓"
			}
			if taskLsIDs {
				fmt.Fprintf(out, "%d ", t.ID)
			}
			fmt.Fprintf(out, "%s %s\n", mark, t.Text)
		}
		return nil
	}),
}

func init() {
	taskRmCmd.Flags().Int64Var(&taskRmID, "id", 0, "Delete the task with this id instead of matching text")
	taskLsCmd.Flags().BoolVar(&taskLsIDs, "ids", false, "Show task ids")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskLsCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// requireQueryOrID validates the arguments of the rm commands, which take
// either a text query or --id but not both.
func requireQueryOrID(args []string, id int64) error {
	switch {
	case id < 0:
		return fmt.Errorf("invalid id %d", id)
	case id != 0 && len(args) > 0:
		return errors.New("pass either a query or --id, not both")
	case id == 0 && len(args) == 0:
		return errors.New("a query or --id is required")
	}
	return nil
}

// withApp opens the dashboard for the duration of one command.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}
