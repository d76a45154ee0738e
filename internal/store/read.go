package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// ReadAllTitles returns every title in the baseline.
func (s *Store) ReadAllTitles(ctx context.Context) (inventory.TitleSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT software_name FROM detected_software_history`)
	if err != nil {
		return nil, inventory.StoreUnavailable("read titles", err)
	}
	defer rows.Close()

	titles := make(inventory.TitleSet)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, inventory.StoreUnavailable("read titles", fmt.Errorf("scan: %w", err))
		}
		titles[inventory.Title(name)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.StoreUnavailable("read titles", fmt.Errorf("iterate: %w", err))
	}
	return titles, nil
}

// Count returns the number of baseline rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM detected_software_history`).Scan(&n); err != nil {
		return 0, inventory.StoreUnavailable("count titles", err)
	}
	return n, nil
}

// IsEmpty reports whether the baseline holds no rows yet.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Entries returns the full baseline ordered by title (binary collation).
// Returns an empty slice, not nil, when the baseline is empty.
func (s *Store) Entries(ctx context.Context) ([]inventory.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT software_name, first_detected_on_computer, first_detected_date
		FROM detected_software_history
		ORDER BY software_name
	`)
	if err != nil {
		return nil, inventory.StoreUnavailable("read entries", err)
	}
	defer rows.Close()

	entries := []inventory.HistoryEntry{}
	for rows.Next() {
		var (
			name string
			host sql.NullString
			seen dbTime
		)
		if err := rows.Scan(&name, &host, &seen); err != nil {
			return nil, inventory.StoreUnavailable("read entries", fmt.Errorf("scan: %w", err))
		}
		entry := inventory.HistoryEntry{
			Title:         inventory.Title(name),
			FirstSeenHost: inventory.NotAvailable,
			FirstSeenAt:   seen.Time,
		}
		if host.Valid && host.String != "" {
			entry.FirstSeenHost = host.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.StoreUnavailable("read entries", fmt.Errorf("iterate: %w", err))
	}
	return entries, nil
}

// dbTime scans DATETIME columns whether the driver hands back time.Time
// (sqlite3, mysql with parseTime=true) or raw text (mysql without it).
type dbTime struct {
	time.Time
}

var dbTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported DATETIME value of type %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized DATETIME %q", s)
}
