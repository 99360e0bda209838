package state

import (
	"sync"
	"time"
)

const (
	// DefaultSearchDelay is the pause after the last keystroke before a search runs.
	DefaultSearchDelay = 300 * time.Millisecond
	// MinSearchDelay is the shortest accepted delay.
	MinSearchDelay = 250 * time.Millisecond
)

// Debouncer runs the last submitted function once input has been quiet for
// its delay. Earlier submissions within the window are dropped.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	fn    func()
}

// NewDebouncer returns a debouncer. Delays below MinSearchDelay are raised to it.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: max(delay, MinSearchDelay)}
}

// Delay returns the effective delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Submit schedules fn, cancelling any pending one.
func (d *Debouncer) Submit(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, fn)
}

// Flush runs the pending function now instead of at the end of the delay.
// It reports whether something ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	fn := d.fn
	d.timer, d.fn = nil, nil
	d.mu.Unlock()

	if pending {
		fn()
	}
	return pending
}

// Cancel drops the pending function.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer, d.fn = nil, nil
}
