package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if s.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, want %q", s.Driver(), DriverSQLite)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(DriverSQLite, path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		"detected_software_history",
	).Scan(&name)
	if err != nil {
		t.Errorf("history table not found after idempotent opens: %v", err)
	}
}

func TestOpen_PreservesRowsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s1.InsertIfAbsent(bg(), "Notepad++", "pc-01"); err != nil {
		t.Fatalf("InsertIfAbsent() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	n, err := s2.Count(bg())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d after reopen, want 1", n)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(DriverSQLite, "/nonexistent/dir/test.db")
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	if !inventory.IsStoreUnavailable(err) {
		t.Errorf("expected STORE_UNAVAILABLE, got %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	if !inventory.IsStoreUnavailable(err) {
		t.Errorf("expected STORE_UNAVAILABLE for unknown driver, got %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"user_version": "1",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}
