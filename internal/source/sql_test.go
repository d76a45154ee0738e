package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// ocsSchema is the subset of the OCS Inventory NG server schema the reader touches.
const ocsSchema = `
CREATE TABLE hardware (ID INTEGER PRIMARY KEY, NAME TEXT);
CREATE TABLE software_name (ID INTEGER PRIMARY KEY, NAME TEXT);
CREATE TABLE software (ID INTEGER PRIMARY KEY AUTOINCREMENT, HARDWARE_ID INTEGER, NAME_ID INTEGER);
`

// createOCSDatabase builds an OCS-shaped sqlite database and returns its path.
func createOCSDatabase(t *testing.T, seed string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ocsweb.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ocsSchema)
	require.NoError(t, err)
	if seed != "" {
		_, err = db.Exec(seed)
		require.NoError(t, err)
	}
	return path
}

const fleetSeed = `
INSERT INTO hardware (ID, NAME) VALUES (1, 'pc-zeta'), (2, 'pc-alpha'), (3, NULL);
INSERT INTO software_name (ID, NAME) VALUES (10, '7-Zip'), (11, 'Mozilla Firefox'), (12, NULL), (13, '   ');
INSERT INTO software (HARDWARE_ID, NAME_ID) VALUES
	(1, 10), (2, 10),
	(2, 11),
	(3, 11),
	(1, 12),
	(2, 13),
	(99, 10);
`

func TestSQLReader_ReadSnapshot(t *testing.T) {
	ctx := context.Background()
	path := createOCSDatabase(t, fleetSeed)

	r, err := OpenSQLReader(ctx, "sqlite3", path)
	require.NoError(t, err)
	defer r.Close()

	records, err := r.ReadSnapshot(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, []inventory.PresenceRecord{
		{Title: "7-Zip", Host: inventory.HostRef{ID: "1", Name: "pc-zeta"}},
		{Title: "7-Zip", Host: inventory.HostRef{ID: "2", Name: "pc-alpha"}},
		{Title: "Mozilla Firefox", Host: inventory.HostRef{ID: "2", Name: "pc-alpha"}},
		{Title: "Mozilla Firefox", Host: inventory.HostRef{ID: "3", Name: ""}},
	}, records, "NULL and blank titles are skipped, orphaned installs have no host row")
}

func TestSQLReader_EmptyInventory(t *testing.T) {
	ctx := context.Background()
	path := createOCSDatabase(t, "")

	r, err := OpenSQLReader(ctx, "sqlite3", path)
	require.NoError(t, err)
	defer r.Close()

	records, err := r.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSQLReader_MissingTables(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLReader(db).ReadSnapshot(ctx)
	require.Error(t, err)
	assert.True(t, inventory.IsSourceUnavailable(err), "got %v", err)
}

func TestSQLReader_CloseLeavesBorrowedConnectionOpen(t *testing.T) {
	db, err := sql.Open("sqlite3", createOCSDatabase(t, ""))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLReader(db)
	require.NoError(t, r.Close())
	assert.NoError(t, db.Ping())
}

func TestOpenSQLReader_UnknownDriver(t *testing.T) {
	_, err := OpenSQLReader(context.Background(), "oracle", "whatever")
	assert.True(t, inventory.IsSourceUnavailable(err), "got %v", err)
}

func TestOpenSQLReader_Unreachable(t *testing.T) {
	_, err := OpenSQLReader(context.Background(), "sqlite3", "/nonexistent/dir/ocsweb.db")
	assert.True(t, inventory.IsSourceUnavailable(err), "got %v", err)
}
