package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// ErrInjected is the cause carried by injected store failures.
var ErrInjected = errors.New("injected failure")

// MemoryBaseline is an in-memory baseline store with the same
// insert-if-absent semantics as store.Store.
//
// Failures can be injected per operation with the Fail* fields; an injected
// failure is returned as inventory.ErrCodeStoreUnavailable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryBaseline struct {
	mu      sync.Mutex
	entries map[inventory.Title]inventory.HistoryEntry
	now     func() time.Time

	FailRead    bool
	FailIsEmpty bool
	FailInsert  bool
	FailDelete  bool

	// Mutations counts successful insert and delete calls.
	Mutations int
}

// NewMemoryBaseline returns a baseline holding the given titles, each
// attributed to "seed".
func NewMemoryBaseline(titles ...inventory.Title) *MemoryBaseline {
	b := &MemoryBaseline{
		entries: make(map[inventory.Title]inventory.HistoryEntry),
		now:     time.Now,
	}
	for _, t := range titles {
		b.entries[t] = inventory.HistoryEntry{Title: t, FirstSeenHost: "seed", FirstSeenAt: b.now()}
	}
	return b
}

// ReadAllTitles returns a copy of the stored title set.
func (b *MemoryBaseline) ReadAllTitles(ctx context.Context) (inventory.TitleSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailRead {
		return nil, inventory.StoreUnavailable("read titles", ErrInjected)
	}
	set := make(inventory.TitleSet, len(b.entries))
	for t := range b.entries {
		set[t] = struct{}{}
	}
	return set, nil
}

// IsEmpty reports whether no titles are stored.
func (b *MemoryBaseline) IsEmpty(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailIsEmpty || b.FailRead {
		return false, inventory.StoreUnavailable("count titles", ErrInjected)
	}
	return len(b.entries) == 0, nil
}

// InsertIfAbsent stores title unless it is already present.
func (b *MemoryBaseline) InsertIfAbsent(ctx context.Context, title inventory.Title, hostName string) error {
	_, err := b.InsertIfAbsentBatch(ctx, []inventory.NewEntry{{Title: title, HostName: hostName}})
	return err
}

// InsertIfAbsentBatch stores every absent title and returns how many were added.
func (b *MemoryBaseline) InsertIfAbsentBatch(ctx context.Context, entries []inventory.NewEntry) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailInsert {
		return 0, inventory.StoreUnavailable("insert titles", ErrInjected)
	}
	inserted := 0
	for _, e := range entries {
		if _, ok := b.entries[e.Title]; ok {
			continue
		}
		host := e.HostName
		if host == "" {
			host = inventory.NotAvailable
		}
		b.entries[e.Title] = inventory.HistoryEntry{Title: e.Title, FirstSeenHost: host, FirstSeenAt: b.now()}
		inserted++
	}
	b.Mutations++
	return inserted, nil
}

// DeleteByTitle removes title if present.
func (b *MemoryBaseline) DeleteByTitle(ctx context.Context, title inventory.Title) error {
	_, err := b.DeleteByTitlesBatch(ctx, []inventory.Title{title})
	return err
}

// DeleteByTitlesBatch removes every present title and returns how many were removed.
func (b *MemoryBaseline) DeleteByTitlesBatch(ctx context.Context, titles []inventory.Title) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailDelete {
		return 0, inventory.StoreUnavailable("delete titles", ErrInjected)
	}
	deleted := 0
	for _, t := range titles {
		if _, ok := b.entries[t]; ok {
			delete(b.entries, t)
			deleted++
		}
	}
	b.Mutations++
	return deleted, nil
}

// Entries returns the stored rows ordered by title.
func (b *MemoryBaseline) Entries(ctx context.Context) ([]inventory.HistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailRead {
		return nil, inventory.StoreUnavailable("read entries", ErrInjected)
	}
	titles := make([]inventory.Title, 0, len(b.entries))
	for t := range b.entries {
		titles = append(titles, t)
	}
	inventory.SortTitles(titles)

	out := make([]inventory.HistoryEntry, 0, len(titles))
	for _, t := range titles {
		out = append(out, b.entries[t])
	}
	return out, nil
}

// HostOf returns the first-seen host recorded for title.
func (b *MemoryBaseline) HostOf(title inventory.Title) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[title]
	return e.FirstSeenHost, ok
}

// Titles returns the stored titles in byte order.
func (b *MemoryBaseline) Titles() []inventory.Title {
	b.mu.Lock()
	defer b.mu.Unlock()
	titles := make([]inventory.Title, 0, len(b.entries))
	for t := range b.entries {
		titles = append(titles, t)
	}
	inventory.SortTitles(titles)
	return titles
}
