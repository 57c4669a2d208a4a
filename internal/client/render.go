package client

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// DueDateLayout is how due dates are printed.
const DueDateLayout = "2006-01-02 MST"

// Render writes the board's current page to w. Rows are numbered from 1 so
// interactive commands can refer to them.
func Render(w io.Writer, b *Board) error {
	editID, draft, editing := b.Editing()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	tasks := b.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(tw, "No tasks.")
	}
	for i, t := range tasks {
		if editing && t.ID == editID {
			fmt.Fprintf(tw, "%d.\t* [%s] - %s - Due On %s\t(editing)\n",
				i+1, draft.Title, draft.Description, formatDue(draft))
			continue
		}
		fmt.Fprintf(tw, "%d.\t[%s] - %s - Due On %s\t\n",
			i+1, t.Title, t.Description, t.DueDate.UTC().Format(DueDateLayout))
	}
	if b.ShowPagination() {
		fmt.Fprintf(tw, "\nPage %d of %d\n", b.CurrentPage(), b.TotalPages())
	}
	return tw.Flush()
}

func formatDue(d Draft) string {
	if d.DueDate.IsZero() {
		return "-"
	}
	return d.DueDate.UTC().Format(DueDateLayout)
}
