// Package harness replays reconciliation scenarios end to end.
//
// A scenario seeds a baseline, serves a fixed snapshot to one or more
// consecutive runs, optionally injects a collaborator failure, and asserts
// on the new/removed sets, the final baseline, and the mail sent. Runs use
// the real runner, reconcile engine, report formatter, and an in-memory
// SQLite store; only the snapshot reader and mail sink are fakes.
//
// # Scenario Format
//
//	name: new_and_removed
//	description: "D appears on three hosts, A disappears"
//	baseline:
//	  - { title: A, host: seed }
//	snapshot:
//	  hosts:
//	    - { id: "4", name: alpha, software: [D] }
//	runs: 1
//	fail: send            # optional: source, read, insert, delete, send
//	assertions:
//	  - { type: new_titles, titles: [D] }
//	  - { type: attributed, title: D, host: alpha }
//	  - { type: removed_titles, titles: [A] }
//	  - { type: baseline, titles: [D] }
//	  - { type: mail_count, count: 1 }
//
// # Deterministic Testing
//
// Report dates come from the scenario (default DefaultDate) and run IDs are
// fixed, so the JSON trace of a scenario is byte-stable and compared against
// testdata/golden/{name}.golden.
package harness
