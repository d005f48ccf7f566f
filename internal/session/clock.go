package session

import "sync/atomic"

// Clock is a monotonic logical clock for journal ordering.
//
// Every event of a session is stamped with a strictly increasing seq from
// this clock, so replay sees events in the order the machine saw them.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
