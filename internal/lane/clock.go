package lane

import "sync/atomic"

// Clock stamps executed units with a strictly increasing sequence number.
//
// The lane executes units in submission order, so the stamp is both the
// execution index and the submission index. It appears in every lane log
// line, which makes interleavings visible when debugging.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
