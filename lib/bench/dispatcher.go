package bench

import "sync/atomic"

// Dispatcher hands out the indices [0, n) to any number of workers. Every
// index is claimed exactly once. Claim never blocks.
type Dispatcher struct {
	n      int64
	cursor atomic.Int64
}

// NewDispatcher creates a dispatcher over n indices
func NewDispatcher(n int) *Dispatcher {
	if n < 0 {
		n = 0
	}
	return &Dispatcher{n: int64(n)}
}

// Claim returns the next unclaimed index, ok is false once all are taken
func (d *Dispatcher) Claim() (index int, ok bool) {
	i := d.cursor.Add(1) - 1
	if i >= d.n {
		return 0, false
	}
	return int(i), true
}

// Claimed returns how many indices have been handed out so far
func (d *Dispatcher) Claimed() int64 {
	return min(d.cursor.Load(), d.n)
}

// Len returns the size of the index range
func (d *Dispatcher) Len() int {
	return int(d.n)
}
