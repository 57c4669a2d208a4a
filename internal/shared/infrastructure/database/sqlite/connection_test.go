package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database"
)

func openTestDB(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewConnection_CreatesDirectory(t *testing.T) {
	ctx := context.Background()

	conn, err := NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "tasks.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Ping(ctx))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestConnection_ExecQueryRowQueryEach(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	_, err := conn.Exec(ctx, `CREATE TABLE notes (id TEXT PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)

	for _, id := range []string{"b", "a", "c"} {
		n, err := conn.Exec(ctx, `INSERT INTO notes (id, body) VALUES (?, ?)`, id, "note "+id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	}

	var body string
	require.NoError(t, conn.QueryRow(ctx, `SELECT body FROM notes WHERE id = ?`, "a").Scan(&body))
	assert.Equal(t, "note a", body)

	var ids []string
	err = conn.QueryEach(ctx, func(row database.Row) error {
		var id string
		if err := row.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	}, `SELECT id FROM notes ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	n, err := conn.Exec(ctx, `DELETE FROM notes WHERE id = ?`, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConnection_QueryEachStopsOnError(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	_, err := conn.Exec(ctx, `CREATE TABLE notes (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO notes (id) VALUES ('a'), ('b')`)
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = conn.QueryEach(ctx, func(database.Row) error {
		calls++
		return stop
	}, `SELECT id FROM notes`)
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestConnection_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	require.NoError(t, database.EnsureSchema(ctx, conn))

	insert := `INSERT INTO tasks (id, title, description, due_date) VALUES (?, ?, ?, ?)`
	_, err := conn.Exec(ctx, insert, "a", "T", "", "2024-03-20T00:00:00Z")
	require.NoError(t, err)

	_, err = conn.Exec(ctx, insert, "a", "T", "", "2024-03-20T00:00:00Z")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestNewConnection_ViaFactory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "factory.db")

	conn, err := database.NewConnection(ctx, database.Config{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestNewConnection_RejectsUnsafePath(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "tasks;rm.db"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite path")
}

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	dsn, err := buildDSN(filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasks.db")+"?"+pragmas, dsn)

	dsn, err = buildDSN(filepath.Join(dir, "tasks.db") + "?mode=rwc")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dsn, "?mode=rwc&"+pragmas))

	dsn, err = buildDSN("file:tasks?mode=memory")
	require.NoError(t, err)
	assert.Equal(t, "file:tasks?mode=memory&"+pragmas, dsn)
}
