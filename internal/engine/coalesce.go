package engine

import (
	"sync"
	"time"
)

// writeCoalescer batches rapid save requests into at most one write per
// interval. Keystroke-frequency updates (set weight/reps edits) go through
// here; structural changes save immediately and bypass it.
type writeCoalescer struct {
	mu       sync.Mutex
	interval time.Duration
	flush    func()
	timer    *time.Timer
	pending  bool
	closed   bool
}

func newWriteCoalescer(interval time.Duration, flush func()) *writeCoalescer {
	return &writeCoalescer{interval: interval, flush: flush}
}

// Request records that a write is wanted. The flush runs once the interval
// elapses, no matter how many requests arrive in between.
func (c *writeCoalescer) Request() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = true
	if c.timer == nil {
		c.timer = time.AfterFunc(c.interval, c.fire)
	}
}

func (c *writeCoalescer) fire() {
	c.mu.Lock()
	c.timer = nil
	run := c.pending
	c.pending = false
	c.mu.Unlock()
	if run {
		c.flush()
	}
}

// Flush runs any pending write now. Must be called before shutdown or the
// last coalesced write is lost.
func (c *writeCoalescer) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	run := c.pending
	c.pending = false
	c.mu.Unlock()
	if run {
		c.flush()
	}
}

// Cancel drops any pending write without running it. Used when the caller
// is about to persist immediately anyway.
func (c *writeCoalescer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
}

// Close flushes and stops accepting requests.
func (c *writeCoalescer) Close() {
	c.Flush()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
