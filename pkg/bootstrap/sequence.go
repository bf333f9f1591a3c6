package bootstrap

import "sync/atomic"

// Sequence hands out resource ordinals
type Sequence interface {
	Next() int
}

// Counter is a Sequence backed by an atomic integer. The first value is 1.
type Counter struct {
	n atomic.Int64
}

// NewSequence returns a Counter starting at zero
func NewSequence() *Counter {
	return &Counter{}
}

// Next returns the next ordinal
func (c *Counter) Next() int {
	return int(c.n.Add(1))
}
