package task

import (
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Short:   "Delete a task",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}

		err = c.DeleteTask(cmd.Context(), args[0])
		if client.IsNotFound(err) {
			return fmt.Errorf("task %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", args[0])
		return nil
	},
}
