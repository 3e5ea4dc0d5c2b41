package state

import "sync/atomic"

// Clock is a monotonically increasing revision counter. It may be read from
// other goroutines while the owning page is being edited.
type Clock struct {
	n atomic.Uint64
}

// Tick advances the clock and returns the new revision.
func (c *Clock) Tick() uint64 {
	return c.n.Add(1)
}

func (c *Clock) Now() uint64 {
	return c.n.Load()
}

