package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/core/services"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/db"
	"github.com/spf13/cobra"
)

type opener func() (*Runtime, error)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tasks table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := db.RunMigrations(rt.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func todayCmd(open opener) *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "List pending tasks due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			loc := rt.Location
			if tz != "" {
				if loc, err = domain.LoadLocation(tz); err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
			}

			window, tasks, err := rt.Today.DueToday(cmd.Context(), loc)
			if err != nil {
				return fmt.Errorf("load today: %w", err)
			}
			return printToday(cmd.OutOrStdout(), window, loc, tasks)
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone for the day boundaries (default: calendar.timezone)")
	return cmd
}

func completeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Today.MarkComplete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task %s completed\n", args[0])
			return nil
		},
	}
}

func createCmd(open opener) *cobra.Command {
	var input ports.CreateTaskInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a follow-up task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			task, err := rt.Intake.CreateTask(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %s (%s for %s due %s)\n",
				task.ID, task.Type, task.ApplicationID, services.FormatTimestamp(task.DueAt))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.ApplicationID, "application", "a", "", "Application id")
	cmd.Flags().StringVarP(&input.TaskType, "type", "t", "", "Task type (call, email, review)")
	cmd.Flags().StringVarP(&input.DueAt, "due", "d", "", "Due timestamp (ISO-8601)")
	return cmd
}

func printToday(w io.Writer, window domain.DayWindow, loc *time.Location, tasks []domain.Task) error {
	fmt.Fprintf(w, "Tasks due %s (%s)\n", window.Start.Format("2006-01-02"), loc.String())
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks due today")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tAPPLICATION\tDUE\tSTATUS")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Type, t.ApplicationID, t.DueAt.In(loc).Format("15:04"), t.Status)
	}
	return tw.Flush()
}
