package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

//go:embed schema.sql
var sqliteSchema string

//go:embed schema_mysql.sql
var mysqlSchema string

// Schema version tracking (SQLite only):
// 0 - no table yet
// 1 - detected_software_history
const currentSchemaVersion = 1

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	driver       string
	schema       string
	pragmas      []string
	insertIgnore string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driver: DriverSQLite,
		schema: sqliteSchema,
		pragmas: []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA busy_timeout = 5000",
		},
		insertIgnore: `
			INSERT INTO detected_software_history (software_name, first_detected_on_computer)
			VALUES (?, ?)
			ON CONFLICT(software_name) DO NOTHING`,
	},
	DriverMySQL: {
		driver: DriverMySQL,
		schema: mysqlSchema,
		insertIgnore: `
			INSERT IGNORE INTO detected_software_history (software_name, first_detected_on_computer)
			VALUES (?, ?)`,
	},
}

// Store is the baseline of known software titles.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the baseline database and ensures the history table exists.
//
// driver is "sqlite3" (dsn is a file path or ":memory:") or "mysql"
// (dsn in go-sql-driver format). Safe to call repeatedly against the same
// database: schema creation is idempotent.
func Open(driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, inventory.StoreUnavailable("open baseline", fmt.Errorf("unsupported driver %q", driver))
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, inventory.StoreUnavailable("open baseline", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, inventory.StoreUnavailable("connect baseline", err)
	}

	// One run at a time talks to the baseline; a single connection keeps
	// SQLite free of SQLITE_BUSY and ":memory:" databases on one handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range d.pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, inventory.StoreUnavailable("open baseline", fmt.Errorf("execute %q: %w", pragma, err))
		}
	}

	if err := applySchema(db, d); err != nil {
		db.Close()
		return nil, inventory.StoreUnavailable("apply schema", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the database/sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.dialect.driver
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Store methods.
func (s *Store) DB() *sql.DB {
	return s.db
}

// applySchema creates the history table if needed and stamps the SQLite schema version.
func applySchema(db *sql.DB, d dialect) error {
	if _, err := db.Exec(d.schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if d.driver != DriverSQLite {
		return nil
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRowContext(context.Background(), "PRAGMA "+name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
