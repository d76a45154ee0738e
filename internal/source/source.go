// Package source reads the current fleet-wide software snapshot.
//
// Two readers are provided:
//   - SQLReader queries an OCS Inventory NG database (software, software_name
//     and hardware tables).
//   - FileReader loads a YAML snapshot export, for offline runs and tests.
//
// Readers slurp the whole snapshot into memory. Every failure is reported as
// inventory.ErrCodeSourceUnavailable.
package source

import (
	"context"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// Reader produces the current snapshot: one PresenceRecord per
// (title, host) observation.
type Reader interface {
	ReadSnapshot(ctx context.Context) ([]inventory.PresenceRecord, error)
}
