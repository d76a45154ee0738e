package inventory

import (
	"encoding/json"
	"sort"
	"time"
)

// NotAvailable is stored and reported when no host can be credited with a title.
const NotAvailable = "N/A"

// Title identifies one software product as reported by the scanner.
// Comparison is byte-wise; no case folding or normalization is applied.
type Title string

// HostRef identifies one managed computer.
// ID is the scanner's hardware identifier; Name is not guaranteed unique
// but is the primary attribution key.
type HostRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PresenceRecord is a single observation: Title is installed on Host.
// A snapshot usually holds many records per title, one per host.
type PresenceRecord struct {
	Title Title   `json:"title" yaml:"title"`
	Host  HostRef `json:"host" yaml:"host"`
}

// HistoryEntry is one row of the baseline.
//
// Entries are created once (bootstrap or new-software path), deleted once
// (removed-software path), and never updated in place.
type HistoryEntry struct {
	Title         Title     `json:"title"`
	FirstSeenHost string    `json:"first_seen_host"`
	FirstSeenAt   time.Time `json:"first_seen_at"`
}

// Attribution credits a title to the host where it was first observed.
type Attribution struct {
	HostName string `json:"host_name"`
	HostID   string `json:"host_id"`
}

// Unattributed is the sentinel used when no host carrying a title could be resolved.
var Unattributed = Attribution{HostName: NotAvailable, HostID: NotAvailable}

// IsUnattributed reports whether a is the "N/A" sentinel.
func (a Attribution) IsUnattributed() bool {
	return a == Unattributed
}

// NewEntry is a pending baseline insert: a title plus the host name it is credited to.
type NewEntry struct {
	Title    Title
	HostName string
}

// Result is the outcome of reconciling one snapshot against the baseline.
type Result struct {
	// New maps titles present in the snapshot but absent from the baseline
	// to their first-seen attribution.
	New map[Title]Attribution

	// Removed holds titles present in the baseline that no host carries anymore.
	Removed map[Title]struct{}
}

// resultJSON is the wire shape of Result: sorted lists instead of maps.
type resultJSON struct {
	New     []newTitleJSON `json:"new"`
	Removed []Title        `json:"removed"`
}

type newTitleJSON struct {
	Title Title `json:"title"`
	Attribution
}

// MarshalJSON renders Result with titles in byte order.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{New: []newTitleJSON{}, Removed: r.RemovedTitles()}
	for _, t := range r.NewTitles() {
		out.New = append(out.New, newTitleJSON{Title: t, Attribution: r.New[t]})
	}
	return json.Marshal(out)
}

// NewResult returns an empty Result with initialized maps.
func NewResult() Result {
	return Result{
		New:     make(map[Title]Attribution),
		Removed: make(map[Title]struct{}),
	}
}

// Empty reports whether the run found nothing to change.
func (r Result) Empty() bool {
	return len(r.New) == 0 && len(r.Removed) == 0
}

// NewTitles returns the keys of New in byte order.
func (r Result) NewTitles() []Title {
	titles := make([]Title, 0, len(r.New))
	for t := range r.New {
		titles = append(titles, t)
	}
	SortTitles(titles)
	return titles
}

// RemovedTitles returns the members of Removed in byte order.
func (r Result) RemovedTitles() []Title {
	return SortedTitles(r.Removed)
}

// NewEntries returns the baseline inserts implied by New, ordered by title.
func (r Result) NewEntries() []NewEntry {
	entries := make([]NewEntry, 0, len(r.New))
	for _, t := range r.NewTitles() {
		entries = append(entries, NewEntry{Title: t, HostName: r.New[t].HostName})
	}
	return entries
}

// TitleSet is a set of titles.
type TitleSet = map[Title]struct{}

// SortedTitles returns the members of set in byte order.
func SortedTitles(set TitleSet) []Title {
	titles := make([]Title, 0, len(set))
	for t := range set {
		titles = append(titles, t)
	}
	SortTitles(titles)
	return titles
}

// SortTitles sorts titles in place, byte-wise.
func SortTitles(titles []Title) {
	sort.Slice(titles, func(i, j int) bool { return titles[i] < titles[j] })
}

// DistinctTitles returns the set of titles appearing in records.
func DistinctTitles(records []PresenceRecord) TitleSet {
	set := make(TitleSet, len(records))
	for _, rec := range records {
		set[rec.Title] = struct{}{}
	}
	return set
}
