// Package timing provides the virtual simulation clock and its one-shot
// deferred callbacks. Everything here runs on the caller's goroutine: time
// only moves when Advance is called, and callbacks fire from inside Advance.
package timing

import (
	"sort"
	"time"
)

type deferred struct {
	due time.Duration
	seq uint64 // keeps callbacks scheduled for the same instant in order
	fn  func()
}

// Clock is a monotonic virtual clock.
type Clock struct {
	now     time.Duration
	seq     uint64
	pending []deferred
}

// NewClock returns a clock at elapsed time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the elapsed virtual time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Elapsed returns the elapsed virtual time in seconds.
func (c *Clock) Elapsed() float64 {
	return c.now.Seconds()
}

// AfterFunc schedules fn to run once the clock has advanced by d.
// Scheduled callbacks cannot be cancelled.
func (c *Clock) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	c.seq++
	item := deferred{due: c.now + d, seq: c.seq, fn: fn}

	i := sort.Search(len(c.pending), func(i int) bool {
		p := c.pending[i]
		return p.due > item.due || (p.due == item.due && p.seq > item.seq)
	})
	c.pending = append(c.pending, deferred{})
	copy(c.pending[i+1:], c.pending[i:])
	c.pending[i] = item
}

// Advance moves the clock forward by d and runs every callback that became
// due, in due order. A negative d is treated as zero; time never goes back.
func (c *Clock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
	for len(c.pending) > 0 && c.pending[0].due <= c.now {
		next := c.pending[0]
		c.pending = c.pending[1:]
		next.fn()
	}
}

// Pending returns the number of callbacks that have not fired yet.
func (c *Clock) Pending() int {
	return len(c.pending)
}
