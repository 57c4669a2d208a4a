package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskboard/adapter/api"
	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/commands"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/queries"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/internal/tasks/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*client.Client, *persistence.MemoryTaskRepository) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	repo := persistence.NewMemoryTaskRepository()
	bus := eventbus.NewInProcessEventBus(log)

	handler := api.NewTaskHandler(api.TaskHandlerConfig{
		ListTasks:   queries.NewListTasksHandler(repo, log, nil),
		CreateTask:  commands.NewCreateTaskHandler(repo, bus, log, nil),
		UpdateTask:  commands.NewUpdateTaskHandler(repo, bus, log, nil),
		DeleteTask:  commands.NewDeleteTaskHandler(repo, bus, log, nil),
		MaxPageSize: 100,
		Logger:      log,
	})
	srv := httptest.NewServer(api.NewServer(api.DefaultServerConfig(), handler, nil, nil, log).Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL), repo
}

func runScript(t *testing.T, c client.TaskAPI, lines ...string) string {
	t.Helper()
	SetLogger(slog.New(slog.DiscardHandler))
	var out bytes.Buffer
	err := runBoard(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, c)
	require.NoError(t, err)
	return out.String()
}

func TestBoard_Session(t *testing.T) {
	c, repo := newTestAPI(t)

	out := runScript(t, c,
		"add Write report | first draft | 2024-03-20",
		"edit 1",
		"title Final report",
		"save",
		"quit",
	)

	assert.Contains(t, out, "No tasks.")
	assert.Contains(t, out, "[Write report] - first draft - Due On 2024-03-20 UTC")
	assert.Contains(t, out, "(editing)")
	assert.Contains(t, out, "[Final report] - first draft")
	assert.Equal(t, 1, repo.Len())
}

func TestBoard_DeleteAndAlerts(t *testing.T) {
	c, repo := newTestAPI(t)

	out := runScript(t, c,
		"add  | no title | 2024-03-20",
		"add No date | x |",
		"add Dated | x | someday",
		"add Keep | x | 2024-03-20",
		"del 7",
		"del 1",
		"save",
		"bogus",
	)

	assert.Contains(t, out, "! Please enter a title.")
	assert.Contains(t, out, "! Please select a due date.")
	assert.Contains(t, out, `invalid date "someday", use YYYY-MM-DD`)
	assert.Contains(t, out, `no task at row "7"`)
	assert.Contains(t, out, "not editing a task")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Equal(t, 0, repo.Len())
}

func TestBoard_EditOfDeletedTask(t *testing.T) {
	c, repo := newTestAPI(t)
	created, err := c.CreateTask(context.Background(), client.TaskInput{Title: "Gone soon", DueDate: mustDue(t, "2024-03-20")})
	require.NoError(t, err)

	SetLogger(slog.New(slog.DiscardHandler))
	var out bytes.Buffer
	b := client.NewBoard(c, client.AlerterFunc(func(msg string) { out.WriteString("! " + msg + "\n") }), Logger())
	require.NoError(t, b.Load(context.Background()))
	execBoardLine(context.Background(), &out, b, "edit 1")

	_, err = repo.DeleteTask(context.Background(), created.ID)
	require.NoError(t, err)

	execBoardLine(context.Background(), &out, b, "save")
	assert.Contains(t, out.String(), "! Task not found.")
	assert.Empty(t, b.Tasks())
}

func TestParseDraft(t *testing.T) {
	d, err := parseDraft(" T |  D  | 2024-03-20 ")
	require.NoError(t, err)
	assert.Equal(t, "T", d.Title)
	assert.Equal(t, "D", d.Description)
	assert.Equal(t, mustDue(t, "2024-03-20"), d.DueDate)

	d, err = parseDraft("only a title")
	require.NoError(t, err)
	assert.Equal(t, "only a title", d.Title)
	assert.True(t, d.DueDate.IsZero())
}

func mustDue(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := task.ParseDueDate(s)
	require.NoError(t, err)
	return v
}
