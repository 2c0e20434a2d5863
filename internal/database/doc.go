// Package database is the record store used by the tracing collaborators.
//
// A DB owns the *store.Store exclusively and runs every operation on one
// serialized lane. Mutations return a lane.Future and never block the
// caller. Bulk reads come in two forms:
//   - async (HandshakesAsync, ...): a unit on the lane, result via Future
//   - sync (Handshakes, ...): inline when the caller is already a unit on
//     the writer lane, otherwise routed through the lane and waited on
//
// After every successful mutation, registered observers receive a
// ChangeEvent. Observers are called on a separate delivery lane, so observer
// code never runs on the writer lane.
package database
