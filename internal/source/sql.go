package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// snapshotQuery joins every installed package to its name and host.
// Column names follow the OCS Inventory NG server schema.
const snapshotQuery = `
	SELECT sn.NAME, h.ID, h.NAME
	FROM software s
	JOIN hardware h ON s.HARDWARE_ID = h.ID
	JOIN software_name sn ON sn.ID = s.NAME_ID`

// SQLReader reads the snapshot from an OCS Inventory NG database.
type SQLReader struct {
	db    *sql.DB
	owned bool
}

// NewSQLReader wraps an existing connection. Close does not close db.
func NewSQLReader(db *sql.DB) *SQLReader {
	return &SQLReader{db: db}
}

// OpenSQLReader connects to the OCS database with the given driver
// ("mysql" or "sqlite3") and verifies the connection.
func OpenSQLReader(ctx context.Context, driver, dsn string) (*SQLReader, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, inventory.SourceUnavailable("open inventory database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, inventory.SourceUnavailable("connect inventory database", err)
	}
	return &SQLReader{db: db, owned: true}, nil
}

// Close releases the connection if the reader opened it.
func (r *SQLReader) Close() error {
	if !r.owned || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ReadSnapshot returns every (title, host) pair currently installed.
// Rows with a NULL or blank software name are skipped.
func (r *SQLReader) ReadSnapshot(ctx context.Context) ([]inventory.PresenceRecord, error) {
	rows, err := r.db.QueryContext(ctx, snapshotQuery)
	if err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", err)
	}
	defer rows.Close()

	records := []inventory.PresenceRecord{}
	for rows.Next() {
		var title, hostID, hostName sql.NullString
		if err := rows.Scan(&title, &hostID, &hostName); err != nil {
			return nil, inventory.SourceUnavailable("read snapshot", fmt.Errorf("scan: %w", err))
		}
		if !title.Valid || strings.TrimSpace(title.String) == "" {
			continue
		}
		records = append(records, inventory.PresenceRecord{
			Title: inventory.Title(title.String),
			Host:  inventory.HostRef{ID: hostID.String, Name: hostName.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", fmt.Errorf("iterate: %w", err))
	}
	return records, nil
}
