package task

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	page  int
	limit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List one page of tasks ordered by creation.

Examples:
  taskboard task list
  taskboard task list --page 2
  taskboard task list --limit 25`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}

		result, err := c.ListTasks(cmd.Context(), page, limit)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tDUE\tDESCRIPTION")
		for _, t := range result.Tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.DueDate.UTC().Format("2006-01-02"), t.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPage %d of %d (%d tasks)\n", result.CurrentPage, result.TotalPages, result.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 10, "tasks per page")
}
