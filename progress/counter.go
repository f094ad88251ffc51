/*
Package progress provides a cheap out-of-band way for a caller to observe
how far a long-running search or simulation has gotten, without the
worker harness itself depending on any particular UI or logging setup.
*/
package progress

import "sync/atomic"

// Counter is an atomic progress counter: workers call Add as they finish
// units of work, and a caller on another goroutine calls Done or Fraction
// (e.g. from a ticker) to report progress without synchronizing with the
// workers.
type Counter struct {
	done  atomic.Int64
	total atomic.Int64
}

// NewCounter returns a Counter with its total unit count set.
func NewCounter(total int) *Counter {
	c := &Counter{}
	c.total.Store(int64(total))
	return c
}

// Add increments the counter's completed-unit count by n.
func (c *Counter) Add(n int) {
	c.done.Add(int64(n))
}

// Done returns the number of units completed so far.
func (c *Counter) Done() int64 {
	return c.done.Load()
}

// Total returns the counter's total unit count.
func (c *Counter) Total() int64 {
	return c.total.Load()
}

// Fraction returns Done/Total, or 0 if Total is 0.
func (c *Counter) Fraction() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Done()) / float64(total)
}
