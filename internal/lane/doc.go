// Package lane implements the serialized writer queue.
//
// A Lane owns one goroutine and executes submitted units of work one at a
// time, in submission order. It turns concurrent access to the embedded
// store into sequential access with asynchronous submission:
//
// Single-Writer Event Loop:
// 1. Callers submit units from any goroutine (Post or Submit)
// 2. Units are appended to an unbounded FIFO queue; submission never blocks
// 3. Run() dequeues units one at a time and executes them to completion
// 4. The unit's Future resolves; OnResult callbacks run on their own goroutine
//
// Failure isolation: an error or panic inside a unit is recovered at the lane
// boundary, logged, and delivered to that unit's Future only. The lane then
// proceeds with the next unit.
//
// No drops, no cancellation: once Submit returns a pending Future, the unit
// will run. Close stops admission and Run drains what was already queued.
// Units receive a context that is never cancelled, so a retention sweep or a
// notification always runs to completion.
package lane
