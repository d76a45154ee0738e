// Package reconcile diffs a software snapshot against the baseline and folds
// the result back into it.
//
// A run has three steps, each usable on its own:
//   - Bootstrap populates an empty baseline from the whole snapshot.
//   - Reconcile computes new titles (in the snapshot, not in the baseline)
//     and removed titles (in the baseline, no longer carried by any host).
//   - Apply inserts the new titles and deletes the removed ones.
//
// # Attribution
//
// Every new title is credited to one host: the host with the smallest name
// (byte order) among the hosts carrying it, ties broken by the smaller host
// ID. The choice depends only on the set of records, never on their order.
// Hosts with an empty name take no part; a title with no named host gets
// inventory.Unattributed.
//
// # Errors
//
// Reconcile and Attribute are pure and cannot fail. Bootstrap and Apply only
// surface store failures. Apply does not roll back: a failure after some rows
// changed is reported as *ApplyError carrying the counts already applied, and
// the next run re-converges by diffing against whatever the store holds.
package reconcile
