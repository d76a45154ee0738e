// Package inventory defines the data model shared by every ocsreport component.
//
// A run compares two views of the fleet:
//   - Snapshot: every (software title, host) pair the OCS Inventory NG scanner
//     currently reports, as a slice of PresenceRecord.
//   - Baseline: the persisted detected_software_history table, one HistoryEntry
//     per software title ever reconciled as known.
//
// The reconcile package diffs the two into a Result; the store package persists
// the baseline; the report package turns a Result into mail text.
//
// # Invariants
//
//   - At most one HistoryEntry exists per Title (primary key in the store).
//   - A title is never in both Result.New and Result.Removed.
//   - After a successful run the baseline title set equals the snapshot's
//     distinct title set.
//
// Titles are opaque and case-sensitive: "Firefox" and "firefox" are distinct
// products as far as the baseline is concerned.
package inventory
