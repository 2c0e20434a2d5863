// Package harness runs YAML scenarios against a real contact store.
//
// Each scenario gets a fresh in-memory database. Steps append records,
// run retention sweeps as of a given day, or reset the store. Every
// storage-changed notification is recorded in a trace, and assertions check
// the trace and the final table contents.
//
// # Scenario Format
//
//	name: retention_window
//	description: "Rows older than the window are swept"
//	policy:
//	  data_days: 21
//	  exposure_days: 10
//	steps:
//	  - insert:
//	      exposure_days:
//	        - report_date: 2026-10-05
//	  - sweep: 2026-10-15
//	  - reset: true
//	assertions:
//	  - type: row_count
//	    table: exposure_days
//	    count: 0
//	  - type: trace_count
//	    kind: prune
//	    count: 1
//
// # Assertion Types
//
//   - trace_contains: an event with the given kind (and table, if set) was recorded
//   - trace_order: the given kinds first appear in this order
//   - trace_count: exactly count events match kind (and table, if set)
//   - row_count: the table holds exactly count rows
//   - final_state: exactly one row matches where, and it has the expect values
//
// # Golden Snapshots
//
// RunWithGolden compares the trace and final row counts against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
