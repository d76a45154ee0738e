package store

import (
	"context"
	"fmt"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// InsertIfAbsent records title as first seen on hostName.
// An existing row for title is left untouched and no error is returned.
// An empty hostName is stored as "N/A".
func (s *Store) InsertIfAbsent(ctx context.Context, title inventory.Title, hostName string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.insertIgnore, string(title), hostOrNA(hostName))
	if err != nil {
		return inventory.StoreUnavailable("insert title", fmt.Errorf("%q: %w", title, err))
	}
	return nil
}

// InsertIfAbsentBatch inserts every entry in one transaction and returns how
// many rows were actually created. Titles already present, including
// duplicates within entries, are skipped.
func (s *Store) InsertIfAbsentBatch(ctx context.Context, entries []inventory.NewEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	inserted, err := s.execBatch(ctx, s.dialect.insertIgnore, len(entries), func(i int) []any {
		return []any{string(entries[i].Title), hostOrNA(entries[i].HostName)}
	})
	if err != nil {
		return 0, inventory.StoreUnavailable("insert titles", err)
	}
	return inserted, nil
}

// DeleteByTitle removes title from the baseline. Deleting an unknown title is not an error.
func (s *Store) DeleteByTitle(ctx context.Context, title inventory.Title) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM detected_software_history WHERE software_name = ?`, string(title))
	if err != nil {
		return inventory.StoreUnavailable("delete title", fmt.Errorf("%q: %w", title, err))
	}
	return nil
}

// DeleteByTitlesBatch removes every title in one transaction and returns how
// many rows were actually deleted.
func (s *Store) DeleteByTitlesBatch(ctx context.Context, titles []inventory.Title) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}

	deleted, err := s.execBatch(ctx, `DELETE FROM detected_software_history WHERE software_name = ?`, len(titles), func(i int) []any {
		return []any{string(titles[i])}
	})
	if err != nil {
		return 0, inventory.StoreUnavailable("delete titles", err)
	}
	return deleted, nil
}

// execBatch runs query n times inside a transaction and sums RowsAffected.
func (s *Store) execBatch(ctx context.Context, query string, n int, args func(i int) []any) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	total := 0
	for i := 0; i < n; i++ {
		res, err := stmt.ExecContext(ctx, args(i)...)
		if err != nil {
			return 0, fmt.Errorf("exec row %d: %w", i, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		total += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

func hostOrNA(name string) string {
	if name == "" {
		return inventory.NotAvailable
	}
	return name
}
