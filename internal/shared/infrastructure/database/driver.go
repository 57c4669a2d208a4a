package database

import "strings"

// Driver identifies a task storage backend.
type Driver string

const (
	// DriverMemory keeps tasks in process memory.
	DriverMemory Driver = "memory"
	// DriverPostgres represents PostgreSQL.
	DriverPostgres Driver = "postgres"
	// DriverSQLite represents an embedded SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverMongo represents a MongoDB collection.
	DriverMongo Driver = "mongodb"
	// DriverRedis represents a Redis keyspace.
	DriverRedis Driver = "redis"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// DetectDriver parses a connection string and returns the driver type.
// Returns DriverMemory for empty URLs to enable zero-config local mode.
func DetectDriver(url string) Driver {
	if url == "" || strings.HasPrefix(url, "memory:") {
		return DriverMemory
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return DriverRedis
	}

	if strings.HasPrefix(url, "sqlite://") ||
		strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") ||
		strings.HasSuffix(url, ".sqlite") ||
		strings.HasSuffix(url, ".sqlite3") {
		return DriverSQLite
	}

	return ""
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverMongo, DriverRedis:
		return true
	default:
		return false
	}
}

// IsSQL reports whether the driver is served by a Connection from this package.
func (d Driver) IsSQL() bool {
	return d == DriverPostgres || d == DriverSQLite
}
