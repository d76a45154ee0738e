package store

import (
	"path/filepath"
	"testing"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// createTestStore opens a fresh SQLite baseline in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "baseline.db")
	s, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// entry builds a NewEntry for tests.
func entry(title, host string) inventory.NewEntry {
	return inventory.NewEntry{Title: inventory.Title(title), HostName: host}
}
