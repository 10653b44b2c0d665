package cartstore

import "sync/atomic"

// Clock is the monotonic push-version counter.
//
// Every local save and remote push is stamped with a strictly increasing
// version from this clock. When two pushes are in flight at once the later
// one carries the higher stamp, giving the Remote Cart Service enough to
// let the newer state win; the client does not enforce ordering at the
// transport level.
//
// The counter is persisted with the local snapshot and restored via
// NewClockAt so it stays monotonic across restarts.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific version.
// Used to resume from the version persisted in the local snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next version and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current version without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
