package database

import "context"

// Row is one result row; pgx.Row and *sql.Row both satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Executor runs statements in autocommit mode regardless of the driver.
type Executor interface {
	// Exec runs a statement and reports how many rows it touched.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	// QueryEach calls fn once per result row. Iteration stops at the first
	// error fn returns; the rows are always released.
	QueryEach(ctx context.Context, fn func(Row) error, query string, args ...any) error
}

// Connection is a live SQL backend.
type Connection interface {
	Executor
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}
