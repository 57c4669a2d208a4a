package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/spf13/cobra"
)

const boardHelp = `Commands:
  add <title> | <description> | <YYYY-MM-DD>   create a task
  edit <row>                                  start editing a task
  title <text> | desc <text> | due <date>     change the task being edited
  save | cancel                               finish editing
  del <row>                                   delete a task
  next | prev | refresh                       move between pages
  help | quit`

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive task board",
	Long: `Open an interactive board over the task API.

The board shows one page of ten tasks. Rows are numbered; use the row
number with edit and del. Type "help" for the full command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Client == nil {
			return errNoApp
		}
		return runBoard(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), app.Client)
	},
}

func runBoard(ctx context.Context, in io.Reader, out io.Writer, taskAPI client.TaskAPI) error {
	alerter := client.AlerterFunc(func(msg string) {
		fmt.Fprintf(out, "! %s\n", msg)
	})
	b := client.NewBoard(taskAPI, alerter, Logger())
	_ = b.Load(ctx)
	_ = client.Render(out, b)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		quit := execBoardLine(ctx, out, b, strings.TrimSpace(sc.Text()))
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// execBoardLine runs one board command and reports whether to quit.
func execBoardLine(ctx context.Context, out io.Writer, b *client.Board, line string) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	case "h", "help", "?":
		fmt.Fprintln(out, boardHelp)
		return false
	case "r", "refresh":
		_ = b.Load(ctx)
	case "n", "next":
		_ = b.NextPage(ctx)
	case "p", "prev":
		_ = b.PrevPage(ctx)
	case "add":
		draft, err := parseDraft(rest)
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		_ = b.Add(ctx, draft)
	case "edit":
		id, ok := rowID(out, b, rest)
		if !ok {
			return false
		}
		b.StartEdit(id)
	case "title", "desc", "due":
		if err := editField(b, verb, rest); err != nil {
			fmt.Fprintln(out, err)
			return false
		}
	case "save":
		if err := b.SaveEdit(ctx); errors.Is(err, client.ErrNotEditing) {
			fmt.Fprintln(out, "not editing a task")
			return false
		}
	case "cancel":
		b.CancelEdit()
	case "del", "delete":
		id, ok := rowID(out, b, rest)
		if !ok {
			return false
		}
		_ = b.Delete(ctx, id)
	default:
		fmt.Fprintf(out, "unknown command %q, type help\n", verb)
		return false
	}

	_ = client.Render(out, b)
	return false
}

// parseDraft reads "title | description | date". Missing parts are left
// empty for the board's own form checks.
func parseDraft(s string) (client.Draft, error) {
	parts := strings.SplitN(s, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	d := client.Draft{
		Title:       strings.TrimSpace(parts[0]),
		Description: strings.TrimSpace(parts[1]),
	}
	if due := strings.TrimSpace(parts[2]); due != "" {
		t, err := task.ParseDueDate(due)
		if err != nil {
			return client.Draft{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", due)
		}
		d.DueDate = t
	}
	return d, nil
}

func editField(b *client.Board, field, value string) error {
	_, draft, ok := b.Editing()
	if !ok {
		return fmt.Errorf("not editing a task")
	}
	switch field {
	case "title":
		draft.Title = value
	case "desc":
		draft.Description = value
	case "due":
		t, err := task.ParseDueDate(value)
		if err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
		}
		draft.DueDate = t
	}
	return b.SetEditDraft(draft)
}

func rowID(out io.Writer, b *client.Board, arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	tasks := b.Tasks()
	if err != nil || n < 1 || n > len(tasks) {
		fmt.Fprintf(out, "no task at row %q\n", arg)
		return "", false
	}
	return tasks[n-1].ID, true
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
