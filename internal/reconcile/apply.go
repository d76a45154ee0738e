package reconcile

import (
	"context"
	"fmt"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
)

// Phase names the apply step that failed.
type Phase string

const (
	PhaseInsert Phase = "insert"
	PhaseDelete Phase = "delete"
)

// ApplyStats counts the rows a mutation actually changed.
type ApplyStats struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
}

// ApplyError reports a baseline left partially converged.
// Inserted and Deleted count what was applied before the failure.
type ApplyError struct {
	ApplyStats
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s (inserted=%d, deleted=%d): %v", e.Phase, e.Inserted, e.Deleted, e.Err)
}

// Unwrap returns the underlying store error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Partial reports whether any row changed before the failure.
func (e *ApplyError) Partial() bool {
	return e.Inserted > 0 || e.Deleted > 0
}

// Apply folds result into the baseline: inserts every new title with its
// attributed host name, then deletes every removed title.
//
// Inserts are insert-if-absent, so titles another run already added are
// skipped silently. A failure in either step stops the apply; nothing is
// rolled back.
func Apply(ctx context.Context, s Store, result inventory.Result) (ApplyStats, error) {
	var stats ApplyStats
	logger := logging.FromContext(ctx)

	if entries := result.NewEntries(); len(entries) > 0 {
		n, err := s.InsertIfAbsentBatch(ctx, entries)
		if err != nil {
			return stats, &ApplyError{ApplyStats: stats, Phase: PhaseInsert, Err: err}
		}
		stats.Inserted = n
		logger.Info().Int("requested", len(entries)).Int("inserted", n).Msg("added new titles to baseline")
	}

	if removed := result.RemovedTitles(); len(removed) > 0 {
		n, err := s.DeleteByTitlesBatch(ctx, removed)
		if err != nil {
			return stats, &ApplyError{ApplyStats: stats, Phase: PhaseDelete, Err: err}
		}
		stats.Deleted = n
		logger.Info().Int("requested", len(removed)).Int("deleted", n).Msg("removed titles from baseline")
	}

	return stats, nil
}

// BootstrapStats describes an initial population attempt.
type BootstrapStats struct {
	// Ran is false when the baseline already held rows and nothing was done.
	Ran      bool `json:"ran"`
	Titles   int  `json:"titles"`
	Inserted int  `json:"inserted"`
}

// Bootstrap populates an empty baseline from the whole snapshot.
// It does nothing, without error, when the baseline already holds rows.
func Bootstrap(ctx context.Context, s Store, snapshot []inventory.PresenceRecord) (BootstrapStats, error) {
	logger := logging.FromContext(ctx)

	empty, err := s.IsEmpty(ctx)
	if err != nil {
		return BootstrapStats{}, err
	}
	if !empty {
		logger.Debug().Msg("baseline already populated, skipping bootstrap")
		return BootstrapStats{}, nil
	}

	entries := BootstrapEntries(snapshot)
	n, err := s.InsertIfAbsentBatch(ctx, entries)
	if err != nil {
		return BootstrapStats{}, err
	}

	logger.Info().Int("titles", len(entries)).Int("inserted", n).Msg("bootstrapped empty baseline from snapshot")
	return BootstrapStats{Ran: true, Titles: len(entries), Inserted: n}, nil
}
