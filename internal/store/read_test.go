package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

func TestReadAllTitles(t *testing.T) {
	s := createTestStore(t)

	titles, err := s.ReadAllTitles(bg())
	require.NoError(t, err)
	assert.Empty(t, titles)

	_, err = s.InsertIfAbsentBatch(bg(), []inventory.NewEntry{entry("A", "h1"), entry("B", "h2")})
	require.NoError(t, err)

	titles, err = s.ReadAllTitles(bg())
	require.NoError(t, err)
	assert.Equal(t, inventory.TitleSet{"A": {}, "B": {}}, titles)
}

func TestIsEmpty(t *testing.T) {
	s := createTestStore(t)

	empty, err := s.IsEmpty(bg())
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, s.InsertIfAbsent(bg(), "A", "h1"))
	empty, err = s.IsEmpty(bg())
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestEntries_OrderAndTimestamps(t *testing.T) {
	s := createTestStore(t)
	before := time.Now().UTC().Add(-time.Minute)

	_, err := s.InsertIfAbsentBatch(bg(), []inventory.NewEntry{
		entry("b", "h2"), entry("B", "h1"), entry("a", ""),
	})
	require.NoError(t, err)

	entries, err := s.Entries(bg())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Binary collation: uppercase sorts before lowercase.
	assert.Equal(t, []inventory.Title{"B", "a", "b"},
		[]inventory.Title{entries[0].Title, entries[1].Title, entries[2].Title})
	assert.Equal(t, inventory.NotAvailable, entries[1].FirstSeenHost)

	for _, e := range entries {
		assert.False(t, e.FirstSeenAt.IsZero(), "first_detected_date is auto-assigned")
		assert.True(t, e.FirstSeenAt.After(before), "timestamp %v should be recent", e.FirstSeenAt)
	}
}

func TestEntries_NullHostReadsAsNA(t *testing.T) {
	s := createTestStore(t)
	_, err := s.db.Exec(`INSERT INTO detected_software_history (software_name, first_detected_on_computer) VALUES (?, NULL)`, "Legacy")
	require.NoError(t, err)

	entries, err := s.Entries(bg())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.NotAvailable, entries[0].FirstSeenHost)
}

func TestEntries_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	entries, err := s.Entries(bg())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestReads_FailAfterClose(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.ReadAllTitles(bg())
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)

	_, err = s.IsEmpty(bg())
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)

	_, err = s.Entries(bg())
	assert.True(t, inventory.IsStoreUnavailable(err), "got %v", err)
}

func TestDBTime_Scan(t *testing.T) {
	var dt dbTime

	require.NoError(t, dt.Scan([]byte("2025-03-01 08:30:00")))
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), dt.Time)

	require.NoError(t, dt.Scan("2025-03-01T08:30:00Z"))
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), dt.Time)

	require.NoError(t, dt.Scan(nil))
	assert.True(t, dt.IsZero())

	assert.Error(t, dt.Scan("yesterday"))
	assert.Error(t, dt.Scan(42))
}
