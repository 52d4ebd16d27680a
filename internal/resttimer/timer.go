// Package resttimer implements the rest countdown fired on set completion.
// One timer exists per process; starting a new countdown while one is
// running replaces it. Timer state is transient and never persisted.
package resttimer

import (
	"sync"
	"time"
)

// ExpiryPulses is the number of short tone pulses emitted on expiry.
const ExpiryPulses = 3

// EventKind identifies a timer notification.
type EventKind string

const (
	EventTick    EventKind = "tick"
	EventExpired EventKind = "expired"
)

// Event is a timer notification delivered to the notify callback.
type Event struct {
	Kind  EventKind `json:"kind"`
	State State     `json:"state"`
}

// State is a snapshot of the countdown.
type State struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	TotalSeconds     int    `json:"total_seconds"`
	Running          bool   `json:"running"`
	Label            string `json:"label,omitempty"`
}

// Timer is the process-wide rest countdown. The zero value is not usable;
// construct with New.
type Timer struct {
	mu        sync.Mutex
	remaining int
	total     int
	running   bool
	label     string
	gen       int           // bumped on start/skip so stale tickers stop mutating
	stop      chan struct{} // closed to cancel the current ticking goroutine
	interval  time.Duration
	notify    func(Event)
}

// New creates a timer. notify may be nil; when set it is invoked on every
// tick and on expiry, outside the timer's lock.
func New(notify func(Event)) *Timer {
	return &Timer{interval: time.Second, notify: notify}
}

// NewWithInterval creates a timer with a custom tick interval, for tests.
func NewWithInterval(interval time.Duration, notify func(Event)) *Timer {
	return &Timer{interval: interval, notify: notify}
}

// Start begins a countdown, replacing any running one. Durations below one
// second are clamped to one.
func (t *Timer) Start(seconds int, label string) {
	if seconds < 1 {
		seconds = 1
	}

	t.mu.Lock()
	t.cancelLocked()
	t.remaining = seconds
	t.total = seconds
	t.running = true
	t.label = label
	t.gen++
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(gen, stop)
}

func (t *Timer) run(gen int, stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.gen != gen || !t.running {
				t.mu.Unlock()
				return
			}
			t.remaining--
			expired := t.remaining <= 0
			if expired {
				t.remaining = 0
				t.running = false
				t.stop = nil
			}
			st := t.stateLocked()
			t.mu.Unlock()

			if expired {
				t.emit(Event{Kind: EventExpired, State: st})
				return
			}
			t.emit(Event{Kind: EventTick, State: st})
		}
	}
}

// Skip cancels the countdown and returns the timer to idle.
func (t *Timer) Skip() {
	t.mu.Lock()
	t.cancelLocked()
	t.running = false
	t.remaining = 0
	t.gen++
	t.mu.Unlock()
}

// Adjust shifts the remaining time by delta seconds. Remaining never drops
// below 1 while running; total only grows, so progress-ring math downstream
// stays consistent.
func (t *Timer) Adjust(delta int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.stateLocked()
	}
	t.remaining += delta
	if t.remaining < 1 {
		t.remaining = 1
	}
	if t.remaining > t.total {
		t.total = t.remaining
	}
	return t.stateLocked()
}

// State returns a snapshot of the countdown.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Close cancels any running countdown. Required on shutdown so ticking
// goroutines do not accumulate across open/close cycles.
func (t *Timer) Close() {
	t.Skip()
}

func (t *Timer) stateLocked() State {
	return State{
		RemainingSeconds: t.remaining,
		TotalSeconds:     t.total,
		Running:          t.running,
		Label:            t.label,
	}
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) emit(ev Event) {
	if t.notify != nil {
		t.notify(ev)
	}
}
