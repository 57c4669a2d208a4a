package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/security"
)

func init() {
	database.RegisterSQLiteDriver(NewConnection)
}

// Connection runs task statements on a single-writer database/sql handle.
type Connection struct {
	db *sql.DB
}

// pragmas enable WAL so the list query's two reads run alongside a writer,
// and make a locked database wait instead of failing at once.
const pragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// NewConnection opens the database file, creating it and its directory when missing.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}

	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping SQLite database: %w", err)
	}
	return &Connection{db: db}, nil
}

// buildDSN validates a plain file path and appends the pragmas. A "file:"
// URI is passed through untouched apart from the pragmas.
func buildDSN(path string) (string, error) {
	file, query, _ := strings.Cut(path, "?")
	if !strings.HasPrefix(file, "file:") {
		clean, err := security.ValidateFilePath(file)
		if err != nil {
			return "", fmt.Errorf("invalid SQLite path: %w", err)
		}
		if err := database.EnsureDirectory(clean); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
		file = clean
	}

	if query == "" {
		return file + "?" + pragmas, nil
	}
	return file + "?" + query + "&" + pragmas, nil
}

func (c *Connection) Driver() database.Driver { return database.DriverSQLite }

func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Connection) Close() error { return c.db.Close() }

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

func (c *Connection) QueryEach(ctx context.Context, fn func(database.Row) error, query string, args ...any) error {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
