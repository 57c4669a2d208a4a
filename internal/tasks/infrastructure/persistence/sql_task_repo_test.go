package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/internal/tasks/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteConn(t *testing.T) database.Connection {
	t.Helper()

	conn, err := database.NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "tasks.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSQLTaskRepository_SQLite(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) task.Repository {
		return persistence.NewSQLTaskRepository(newSQLiteConn(t))
	})
}

func TestSQLTaskRepository_SQLite_ClosedConnection(t *testing.T) {
	conn := newSQLiteConn(t)
	repo := persistence.NewSQLTaskRepository(conn)
	require.NoError(t, conn.Close())

	_, _, err := repo.GetTasks(context.Background(), 1, 10)
	require.Error(t, err)
	assert.True(t, task.IsStorage(err))
}

func TestSQLTaskRepository_Postgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	runRepositoryContract(t, func(t *testing.T) task.Repository {
		ctx := context.Background()
		conn, err := database.NewConnection(ctx, database.Config{Driver: database.DriverPostgres, URL: dbURL})
		if err != nil {
			t.Skipf("Failed to connect to test database: %v", err)
		}
		t.Cleanup(func() { _ = conn.Close() })

		_, err = conn.Exec(ctx, "DELETE FROM tasks")
		require.NoError(t, err)
		return persistence.NewSQLTaskRepository(conn)
	})
}
