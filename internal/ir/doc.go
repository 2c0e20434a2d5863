// Package ir provides the record types persisted by the contact store.
//
// This package contains type definitions and their value helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - EphID is a fixed-length value type, compared with ==
//   - DayDate is a UTC calendar day, never a wall-clock instant
//   - Records are immutable once written; there are no update types
//   - All JSON and YAML tags use snake_case
package ir
