package metadata

import "fmt"

// Dialect selects the SQL flavour and the database/sql driver.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ParseDialect maps a configured storage driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return 0, fmt.Errorf("unsupported storage driver %q", driver)
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// driverName is the database/sql driver registered for d.
func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// gooseDialect is the goose dialect name for d.
func (d Dialect) gooseDialect() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

type queries struct {
	get    string
	set    string
	list   string
	listFn func(prefix string) []any
}

var sqliteQueries = queries{
	get: `SELECT value FROM metadata WHERE key = ?`,
	set: `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`,
	list:   `SELECT key, value FROM metadata WHERE substr(key, 1, length(?)) = ? ORDER BY key`,
	listFn: func(prefix string) []any { return []any{prefix, prefix} },
}

var postgresQueries = queries{
	get: `SELECT value FROM metadata WHERE key = $1`,
	set: `
		INSERT INTO metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`,
	list:   `SELECT key, value FROM metadata WHERE starts_with(key, $1) ORDER BY key`,
	listFn: func(prefix string) []any { return []any{prefix} },
}

func (d Dialect) queries() queries {
	if d == Postgres {
		return postgresQueries
	}
	return sqliteQueries
}
