package reconcile

import (
	"context"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// Store is the baseline contract the engine mutates.
// *store.Store satisfies it.
type Store interface {
	ReadAllTitles(ctx context.Context) (inventory.TitleSet, error)
	IsEmpty(ctx context.Context) (bool, error)
	InsertIfAbsent(ctx context.Context, title inventory.Title, hostName string) error
	InsertIfAbsentBatch(ctx context.Context, entries []inventory.NewEntry) (int, error)
	DeleteByTitle(ctx context.Context, title inventory.Title) error
	DeleteByTitlesBatch(ctx context.Context, titles []inventory.Title) (int, error)
}

// Reconcile diffs snapshot against the baseline title set.
//
// New holds every snapshot title missing from baseline with its attribution;
// Removed holds every baseline title no snapshot record carries. The two
// never overlap. Neither input is modified.
func Reconcile(baseline inventory.TitleSet, snapshot []inventory.PresenceRecord) inventory.Result {
	result := inventory.NewResult()
	current := inventory.DistinctTitles(snapshot)

	wanted := make(inventory.TitleSet)
	for title := range current {
		if _, known := baseline[title]; !known {
			wanted[title] = struct{}{}
		}
	}
	if len(wanted) > 0 {
		attributions := attribute(snapshot, wanted)
		for title := range wanted {
			result.New[title] = attributions[title]
		}
	}

	for title := range baseline {
		if _, present := current[title]; !present {
			result.Removed[title] = struct{}{}
		}
	}
	return result
}

// Attribute credits every distinct title in snapshot to its representative host.
func Attribute(snapshot []inventory.PresenceRecord) map[inventory.Title]inventory.Attribution {
	return attribute(snapshot, nil)
}

// BootstrapEntries returns the baseline rows for an initial population:
// one entry per distinct snapshot title, ordered by title.
func BootstrapEntries(snapshot []inventory.PresenceRecord) []inventory.NewEntry {
	attributions := Attribute(snapshot)
	titles := make([]inventory.Title, 0, len(attributions))
	for title := range attributions {
		titles = append(titles, title)
	}
	inventory.SortTitles(titles)

	entries := make([]inventory.NewEntry, 0, len(titles))
	for _, title := range titles {
		entries = append(entries, inventory.NewEntry{Title: title, HostName: attributions[title].HostName})
	}
	return entries
}

// attribute picks the representative host for every title in snapshot, or
// only for titles in only when it is non-nil. Every considered title gets an
// entry; titles without a named host get inventory.Unattributed.
func attribute(snapshot []inventory.PresenceRecord, only inventory.TitleSet) map[inventory.Title]inventory.Attribution {
	best := make(map[inventory.Title]inventory.HostRef)
	seen := make(inventory.TitleSet)

	for _, rec := range snapshot {
		if only != nil {
			if _, ok := only[rec.Title]; !ok {
				continue
			}
		}
		seen[rec.Title] = struct{}{}
		if rec.Host.Name == "" {
			continue
		}
		cur, ok := best[rec.Title]
		if !ok || hostLess(rec.Host, cur) {
			best[rec.Title] = rec.Host
		}
	}

	out := make(map[inventory.Title]inventory.Attribution, len(seen))
	for title := range seen {
		host, ok := best[title]
		if !ok {
			out[title] = inventory.Unattributed
			continue
		}
		out[title] = inventory.Attribution{HostName: host.Name, HostID: host.ID}
	}
	return out
}

// hostLess orders hosts by name, then by ID.
func hostLess(a, b inventory.HostRef) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}
