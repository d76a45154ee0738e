// Package store provides the persistent software baseline: the
// detected_software_history table, one row per software title ever
// reconciled as known.
//
// The store implements the baseline contract used by the reconcile package:
//   - ReadAllTitles: full scan of known titles
//   - IsEmpty: whether the bootstrap pass still has to run
//   - InsertIfAbsent / InsertIfAbsentBatch: idempotent inserts
//   - DeleteByTitle / DeleteByTitlesBatch: removal of titles gone from the fleet
//
// # Idempotency
//
// software_name is the primary key. Inserts use ON CONFLICT DO NOTHING
// (SQLite) or INSERT IGNORE (MySQL), so inserting a title that already exists
// is silently skipped and is not an error. Batch operations report how many
// rows were actually affected.
//
// # Dialects
//
//   - sqlite3 (github.com/mattn/go-sqlite3): WAL mode, NORMAL sync,
//     5-second busy timeout, schema version tracked in PRAGMA user_version.
//   - mysql (github.com/go-sql-driver/mysql): the table lives next to the
//     OCS Inventory NG schema; software_name uses a binary collation so titles
//     stay case-sensitive.
//
// Every failure is reported as inventory.ErrCodeStoreUnavailable.
package store
