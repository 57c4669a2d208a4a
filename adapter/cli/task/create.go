package task

import (
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/client"
	taskdomain "github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/spf13/cobra"
)

var (
	description string
	dueDate     string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task with a title and a due date.

Examples:
  taskboard task create "Complete project report" --due 2024-03-20
  taskboard task create "Review PR" --description "backend changes" --due 2024-03-21T09:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}

		due, err := taskdomain.ParseDueDate(dueDate)
		if err != nil {
			return fmt.Errorf("invalid due date (use YYYY-MM-DD or RFC 3339): %w", err)
		}

		created, err := c.CreateTask(cmd.Context(), client.TaskInput{
			Title:       args[0],
			Description: description,
			DueDate:     due,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", created.ID)
		fmt.Fprintf(out, "  title: %s\n", created.Title)
		fmt.Fprintf(out, "  due: %s\n", created.DueDate.UTC().Format("2006-01-02"))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&description, "description", "", "task description")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	_ = createCmd.MarkFlagRequired("due")
}
