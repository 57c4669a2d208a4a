package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// due_date is stored as RFC 3339 text on both drivers so one set of
// statements scans identically through pgx and database/sql.
const tasksTableDDL = `CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT NOT NULL
)`

// EnsureSchema creates the tasks table when it does not exist yet.
func EnsureSchema(ctx context.Context, exec Executor) error {
	if _, err := exec.Exec(ctx, tasksTableDDL); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders into the driver's native form.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
