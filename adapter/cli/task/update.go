package task

import (
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/client"
	taskdomain "github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/spf13/cobra"
)

var (
	updateTitle       string
	updateDescription string
	updateDue         string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Replace a task",
	Long: `Replace every field of an existing task. Fields are not merged, so
title and due date are always required and an omitted description
clears it.

Examples:
  taskboard task update 0190c6e2-... --title "Final report" --due 2024-03-22`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}

		due, err := taskdomain.ParseDueDate(updateDue)
		if err != nil {
			return fmt.Errorf("invalid due date (use YYYY-MM-DD or RFC 3339): %w", err)
		}

		updated, err := c.UpdateTask(cmd.Context(), args[0], client.TaskInput{
			Title:       updateTitle,
			Description: updateDescription,
			DueDate:     due,
		})
		if client.IsNotFound(err) {
			return fmt.Errorf("task %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", updated.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "task title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "task description")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	_ = updateCmd.MarkFlagRequired("title")
	_ = updateCmd.MarkFlagRequired("due")
}
