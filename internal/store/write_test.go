package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

func bg() context.Context { return context.Background() }

func TestInsertIfAbsent_Idempotent(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.InsertIfAbsent(bg(), "7-Zip", "pc-01"))
	require.NoError(t, s.InsertIfAbsent(bg(), "7-Zip", "pc-99"), "duplicate insert must be silently ignored")

	entries, err := s.Entries(bg())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pc-01", entries[0].FirstSeenHost, "first attribution wins")
}

func TestInsertIfAbsent_EmptyHostStoredAsNA(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.InsertIfAbsent(bg(), "Orphan", ""))

	var host string
	require.NoError(t, s.db.QueryRow(
		`SELECT first_detected_on_computer FROM detected_software_history WHERE software_name = ?`, "Orphan",
	).Scan(&host))
	assert.Equal(t, inventory.NotAvailable, host)
}

func TestInsertIfAbsent_CaseSensitiveTitles(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.InsertIfAbsent(bg(), "Firefox", "pc-01"))
	require.NoError(t, s.InsertIfAbsent(bg(), "firefox", "pc-02"))

	n, err := s.Count(bg())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInsertIfAbsentBatch_CountsOnlyNewRows(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.InsertIfAbsent(bg(), "Existing", "pc-00"))

	inserted, err := s.InsertIfAbsentBatch(bg(), []inventory.NewEntry{
		entry("Existing", "pc-01"),
		entry("A", "h1"),
		entry("B", "h3"),
		entry("A", "h2"), // duplicate within the batch collapses
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	entries, err := s.Entries(bg())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, inventory.Title("A"), entries[0].Title)
	assert.Equal(t, "h1", entries[0].FirstSeenHost)
	assert.Equal(t, "pc-00", entries[2].FirstSeenHost)
}

func TestInsertIfAbsentBatch_Empty(t *testing.T) {
	s := createTestStore(t)

	inserted, err := s.InsertIfAbsentBatch(bg(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestDeleteByTitle(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.InsertIfAbsent(bg(), "WinRAR", "pc-01"))

	require.NoError(t, s.DeleteByTitle(bg(), "WinRAR"))
	require.NoError(t, s.DeleteByTitle(bg(), "WinRAR"), "deleting an unknown title is not an error")

	empty, err := s.IsEmpty(bg())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestDeleteByTitlesBatch(t *testing.T) {
	s := createTestStore(t)
	_, err := s.InsertIfAbsentBatch(bg(), []inventory.NewEntry{
		entry("A", "h1"), entry("B", "h2"), entry("C", "h3"),
	})
	require.NoError(t, err)

	deleted, err := s.DeleteByTitlesBatch(bg(), []inventory.Title{"A", "C", "Missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	titles, err := s.ReadAllTitles(bg())
	require.NoError(t, err)
	assert.Equal(t, inventory.TitleSet{"B": {}}, titles)

	deleted, err = s.DeleteByTitlesBatch(bg(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestWrites_FailAfterClose(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	err := s.InsertIfAbsent(bg(), "A", "h1")
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)

	_, err = s.InsertIfAbsentBatch(bg(), []inventory.NewEntry{entry("A", "h1")})
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)

	_, err = s.DeleteByTitlesBatch(bg(), []inventory.Title{"A"})
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)

	err = s.DeleteByTitle(bg(), "A")
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)
}
