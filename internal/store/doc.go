// Package store provides SQLite-backed storage for contact-tracing records.
//
// The store holds four append-only tables:
//   - handshakes: raw nearby-device observations
//   - contacts: handshakes matched against a known case
//   - known_cases: published infection report keys, bucketed by day
//   - exposure_days: days on which the user was exposed
//
// Rows are inserted or deleted, never updated. Deletion happens only through
// Prune (retention) and RecreateTables (destructive reset).
//
// # Single Writer
//
// Store methods are not safe to call concurrently with each other. They are
// the lane-internal primitives of package database, which runs every call on
// one serialized goroutine. The pool is limited to one connection so the
// handle is never shared between two writers.
//
// # Row Mapping
//
// Each table is described by a Mapping: the column list plus a pure two-way
// conversion between the entity and a raw Row. Reads fail loudly on a row
// whose shape does not match its Mapping; no row is ever skipped.
//
// # Database Configuration
//
//   - WAL mode: reads do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout: configurable, default 5000ms
//   - user_version: schema version, newer-than-supported is fatal
package store
